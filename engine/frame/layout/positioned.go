package layout

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// placeAbsolute leaves a placeholder for an absolutely positioned box at
// its static position. The box is laid out by Finish, when the fragment of
// its containing block is known.
func (fl *flow) placeAbsolute(id frame.BoxID, x, y dimen.Dimen) {
	fl.lc.hold(fl.frag, id, x, y)
}

// placeFootnote leaves a placeholder for a footnote at the position of its
// call. Paginators collect the placeholders of a page and lay out the
// footnote bodies with LayoutFootnote.
func (fl *flow) placeFootnote(id frame.BoxID, x, y dimen.Dimen) {
	fl.frag.Add(footnoteCall(id, x, y))
}

func footnoteCall(id frame.BoxID, x, y dimen.Dimen) *frame.Fragment {
	f := frame.NewFragment(id, frame.Footnote, frame.Used{X: x, Y: y})
	f.Placeholder = true
	return f
}

// hold adds the placeholder for an out-of-flow child of a flex, grid or
// table container. Placeholders live until the end of the current call of
// LayoutBox.
func (lc *Context) hold(parent *frame.Fragment, id frame.BoxID, x, y dimen.Dimen) {
	if lc.tree.Box(id).Kind == frame.Footnote {
		parent.Add(footnoteCall(id, x, y))
		return
	}
	p := frame.NewFragment(id, frame.Absolute, frame.Used{X: x, Y: y})
	lc.held[p] = true
	parent.Add(p)
}

// Finish lays out the absolutely positioned boxes whose placeholders are
// part of a fragment tree. The containing block of a box is the padding
// box of its nearest positioned ancestor fragment, or area for boxes
// without one and for fixed boxes.
func (lc *Context) Finish(root *frame.Fragment, area frame.ContainingBlock) {
	type entry struct {
		f  *frame.Fragment
		cb frame.ContainingBlock
	}
	stack := arraystack.New()
	stack.Push(entry{root, area})
	for !stack.Empty() {
		v, _ := stack.Pop()
		e := v.(entry)
		f, cb := e.f, e.cb
		if lc.held[f] {
			delete(lc.held, f)
			acb := cb
			if lc.tree.Style(f.Box).Position == style.PositionFixed {
				acb = area
			}
			lc.layoutAbsolute(f, acb)
		}
		if f.Box != frame.NoBox && f.Kind != frame.Line && f.Kind != frame.Text &&
			lc.tree.Style(f.Box).Position.IsPositioned() {
			pb := f.Used.PaddingBox()
			cb = frame.ContainingBlock{X: pb.TopL.X, Y: pb.TopL.Y, W: pb.Width(), H: pb.Height(), DefiniteH: true}
		}
		for i := len(f.Children) - 1; i >= 0; i-- {
			stack.Push(entry{f.Children[i], cb})
		}
	}
}

// layoutAbsolute lays out an absolutely positioned box into its
// placeholder, following the constraint equations for absolutely
// positioned, non-replaced elements:
//
//     left + margin-left + border-left + padding-left + width +
//       padding-right + border-right + margin-right + right = width of containing block
//
// Insets which are auto are taken from the static position.
func (lc *Context) layoutAbsolute(p *frame.Fragment, cb frame.ContainingBlock) {
	st := lc.tree.Style(p.Box)
	static := dimen.Point{X: p.Used.X, Y: p.Used.Y}
	ins, set := frame.ResolveInsets(st, cb)
	var u frame.Used
	frame.ResolveEdges(st, cb, &u)
	innerW, innerH := u.InnerWidth(), u.InnerHeight()
	ml, mr := frame.ResolveMargin(st, cb, frame.Left), frame.ResolveMargin(st, cb, frame.Right)
	w, hasW := frame.SpecifiedWidth(st, cb, innerW)
	if lc.tree.Box(p.Box).Kind == frame.Replaced {
		w, _ = lc.replacedSize(p.Box, cb)
		hasW = true
	}
	switch {
	case hasW:
		w = frame.ClampWidth(st, cb, w, innerW)
		if set[frame.Left] && set[frame.Right] {
			free := cb.W - ins[frame.Left] - ins[frame.Right] - innerW - w
			autoL, autoR := st.Margin[frame.Left].IsAuto(), st.Margin[frame.Right].IsAuto()
			switch {
			case autoL && autoR && free-ml-mr >= 0:
				ml = (free - ml - mr) / 2
				mr = free - ml
			case autoL && autoR:
				ml, mr = 0, free
			case autoL:
				ml = free - mr
			}
		}
	case set[frame.Left] && set[frame.Right]:
		w = frame.ClampWidth(st, cb, cb.W-ins[frame.Left]-ins[frame.Right]-ml-mr-innerW, innerW)
	default:
		w = lc.shrinkToFit(p.Box, cb)
	}
	req := atOrigin(p.Box, cb).fixWidth(w)
	h, hasH := frame.SpecifiedHeight(st, cb, innerH)
	if hasH {
		req.fixHeight(frame.ClampHeight(st, cb, h, innerH))
	} else if set[frame.Top] && set[frame.Bottom] {
		mt, mb := frame.ResolveMargin(st, cb, frame.Top), frame.ResolveMargin(st, cb, frame.Bottom)
		h = cb.H - ins[frame.Top] - ins[frame.Bottom] - mt - mb - innerH
		req.fixHeight(frame.ClampHeight(st, cb, h, innerH))
	}
	res := lc.layout(req)
	f := res.frag
	if f == nil {
		return
	}
	f.Used.Margin[frame.Left], f.Used.Margin[frame.Right] = ml, mr
	outerW, outerH := f.Used.OuterWidth(), f.Used.OuterHeight()
	var x, y dimen.Dimen
	switch {
	case set[frame.Left]:
		x = cb.X + ins[frame.Left]
	case set[frame.Right]:
		x = cb.X + cb.W - ins[frame.Right] - outerW
	default:
		x = static.X
	}
	switch {
	case set[frame.Top]:
		y = cb.Y + ins[frame.Top]
	case set[frame.Bottom]:
		y = cb.Y + cb.H - ins[frame.Bottom] - outerH
	default:
		y = static.Y
	}
	f.Translate(x-f.Used.X, y-f.Used.Y)
	tracer().Debugf("absolute box %d placed at %v,%v", p.Box, x, y)
	*p = *f
}

// offsetRelative moves the fragment of a relatively positioned box. Its
// space in the flow is left as it is. Sticky positioning is treated as
// relative positioning.
func (lc *Context) offsetRelative(f *frame.Fragment, cb frame.ContainingBlock) {
	if f.Box == frame.NoBox || f.Kind == frame.Line {
		return
	}
	st := lc.tree.Style(f.Box)
	if st.Position != style.PositionRelative && st.Position != style.PositionSticky {
		return
	}
	ins, set := frame.ResolveInsets(st, cb)
	var dx, dy dimen.Dimen
	if set[frame.Left] {
		dx = ins[frame.Left]
	} else if set[frame.Right] {
		dx = -ins[frame.Right]
	}
	if set[frame.Top] {
		dy = ins[frame.Top]
	} else if set[frame.Bottom] {
		dy = -ins[frame.Bottom]
	}
	f.Translate(dx, dy)
}
