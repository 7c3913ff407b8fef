package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/exclusion"
	"github.com/npillmayer/folio/engine/style"
)

// placeFloat lays out a float and places it at the highest position at or
// below y which its block formatting context allows.
//
// “A floated box is shifted to the left or right until its outer edge
// touches the containing block edge or the outer edge of another float.”
func (fl *flow) placeFloat(id frame.BoxID, y dimen.Dimen) *frame.Fragment {
	st := fl.lc.tree.Style(id)
	f := fl.lc.layoutShrunk(id, fl.cb)
	side := exclusion.LeftSide
	if st.Float == style.FloatRight {
		side = exclusion.RightSide
	}
	y = fl.bfc.space.ClearY(st.Clear, y)
	sz := dimen.Size{W: f.Used.OuterWidth(), H: f.Used.OuterHeight()}
	pos, space := fl.bfc.space.Place(side, sz, y, fl.left, fl.right)
	fl.bfc.space = space
	f.Translate(pos.X-f.Used.X, pos.Y-f.Used.Y)
	fl.frag.Add(f)
	return f
}

// layoutShrunk lays out a box out of flow, at the origin, with its
// shrink-to-fit width. Floats, atomic inlines and absolutely positioned
// boxes without a specified width are sized this way.
func (lc *Context) layoutShrunk(id frame.BoxID, cb frame.ContainingBlock) *frame.Fragment {
	req := atOrigin(id, cb).fixWidth(lc.shrinkToFit(id, cb))
	res := lc.layout(req)
	if res.frag == nil { // cannot happen for an empty fragmentainer
		return frame.NewFragment(id, lc.tree.Box(id).Kind, frame.Used{})
	}
	return res.frag
}

// shrinkToFit returns the content width of a box which is sized to fit its
// content, within the width of its containing block.
func (lc *Context) shrinkToFit(id frame.BoxID, cb frame.ContainingBlock) dimen.Dimen {
	box := lc.tree.Box(id)
	st := box.Style
	var u frame.Used
	frame.ResolveEdges(st, cb, &u)
	inner := u.InnerWidth()
	if box.Kind == frame.Replaced {
		w, _ := lc.replacedSize(id, cb)
		return w
	}
	if w, ok := frame.SpecifiedWidth(st, cb, inner); ok {
		return frame.ClampWidth(st, cb, w, inner)
	}
	s := lc.contentSizes(id)
	avail := s.max
	if cb.W != dimen.Infinity {
		avail = cb.W - frame.ResolveMargin(st, cb, frame.Left) - frame.ResolveMargin(st, cb, frame.Right) - inner
	}
	return frame.ClampWidth(st, cb, frame.ShrinkToFit(s.min, s.max, avail), inner)
}
