package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
)

// Default size of replaced content without any intrinsic dimensions.
const (
	defaultReplacedWidth  = 300 * dimen.PX
	defaultReplacedHeight = 150 * dimen.PX
)

// replacedSize returns the used content size of a replaced box. Specified
// sizes win; missing dimensions follow from the intrinsic size and ratio
// reported by the intrinsic oracle, finally from a default of 300×150 px.
func (lc *Context) replacedSize(id frame.BoxID, cb frame.ContainingBlock) (w, h dimen.Dimen) {
	box := lc.tree.Box(id)
	st := box.Style
	in, known := lc.intrinsic(box)
	var u frame.Used
	frame.ResolveEdges(st, cb, &u)
	innerW, innerH := u.InnerWidth(), u.InnerHeight()
	w, hasW := frame.SpecifiedWidth(st, cb, innerW)
	h, hasH := frame.SpecifiedHeight(st, cb, innerH)
	ratio := st.AspectRatio
	if ratio == 0 && known {
		ratio = in.Ratio
	}
	switch {
	case hasW && hasH:
	case hasW:
		switch {
		case ratio > 0:
			h = dimen.Scale(w, 1/ratio)
		case known && in.HasHeight:
			h = in.Height
		default:
			h = defaultReplacedHeight
		}
	case hasH:
		switch {
		case ratio > 0:
			w = dimen.Scale(h, ratio)
		case known && in.HasWidth:
			w = in.Width
		default:
			w = defaultReplacedWidth
		}
	case known && in.HasWidth && in.HasHeight:
		w, h = in.Width, in.Height
	case known && in.HasWidth && ratio > 0:
		w = in.Width
		h = dimen.Scale(w, 1/ratio)
	case known && in.HasHeight && ratio > 0:
		h = in.Height
		w = dimen.Scale(h, ratio)
	case ratio > 0 && cb.W != dimen.Infinity:
		w = dimen.NonNegative(cb.W - frame.ResolveMargin(st, cb, frame.Left) -
			frame.ResolveMargin(st, cb, frame.Right) - innerW)
		h = dimen.Scale(w, 1/ratio)
	default:
		tracer().Debugf("no intrinsic size for %q, using default size", box.Resource)
		w, h = defaultReplacedWidth, defaultReplacedHeight
		if ratio > 0 {
			h = dimen.Scale(w, 1/ratio)
		}
	}
	return frame.ClampWidth(st, cb, w, innerW), frame.ClampHeight(st, cb, h, innerH)
}

// layoutReplaced lays out replaced content. Replaced boxes are monolithic.
func (lc *Context) layoutReplaced(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	w, h := lc.replacedSize(box.ID, req.cb)
	if req.hasWidth {
		w = req.width
	}
	if req.hasHeight {
		h = req.height
	}
	u := frame.ResolveWithWidth(st, req.cb, w)
	frame.ResolveVertical(st, req.cb, &u)
	u.H, u.AutoHeight = h, false
	if !req.hasWidth && req.cb.W != dimen.Infinity && st.Display.IsBlockLevel() {
		free := req.cb.W - u.BorderBoxWidth()
		autoL, autoR := st.Margin[frame.Left].IsAuto(), st.Margin[frame.Right].IsAuto()
		switch {
		case autoL && autoR && free > 0:
			u.Margin[frame.Left] = free / 2
			u.Margin[frame.Right] = free - free/2
		case autoL && free > 0:
			u.Margin[frame.Left] = free - u.Margin[frame.Right]
		}
	}
	u.X = req.x
	place(req, &u)
	f := frame.NewFragment(box.ID, frame.Replaced, u)
	f.Baseline = u.BorderBoxHeight()
	return finish(f)
}
