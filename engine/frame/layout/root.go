package layout

import (
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// Fragmentainer is the region content is laid out into: the content area
// of a page or a column.
type Fragmentainer struct {
	Origin dimen.Point
	Width  dimen.Dimen
	Height dimen.Dimen // dimen.Infinity for continuous layout
	// Truncate drops margins at the top of the fragmentainer. It is set for
	// every fragmentainer following a break.
	Truncate bool
	InColumn bool
	// Relax ignores break avoidance. Paginators set it when a fragmentainer
	// did not advance.
	Relax bool
}

// Limit returns the bottom edge of the fragmentainer.
func (fc Fragmentainer) Limit() dimen.Dimen {
	if fc.Height == dimen.Infinity {
		return dimen.Infinity
	}
	return fc.Origin.Y + fc.Height
}

// Area returns the fragmentainer as a containing block.
func (fc Fragmentainer) Area() frame.ContainingBlock {
	cb := frame.CBIndefinite(fc.Width)
	if fc.Height != dimen.Infinity {
		cb = frame.CBDefinite(fc.Width, fc.Height)
	}
	cb.X, cb.Y = fc.Origin.X, fc.Origin.Y
	return cb
}

// Flow is the outcome of laying out content into a fragmentainer.
type Flow struct {
	Fragment *frame.Fragment // the fragment of the laid out box
	Resume   frame.Resume    // where the content continues; nil if it is complete
	Break    style.Break     // forced break which ended the fragment, if any
	Bottom   dimen.Dimen     // bottom border edge of the fragment
}

// Complete is true if the flow holds the remainder of its content.
func (fl Flow) Complete() bool {
	return fl.Resume == nil
}

// LayoutRoot lays out the root box of the tree into a fragmentainer,
// starting at a resume marker (nil for the start of the document).
func (lc *Context) LayoutRoot(area Fragmentainer, resume frame.Resume) (Flow, error) {
	return lc.LayoutBox(lc.tree.Root(), area, resume)
}

// LayoutBox lays out a box and its descendants into a fragmentainer. The
// first step of a resume marker has to refer to the box.
//
// Absolutely positioned descendants are laid out before LayoutBox returns,
// against the fragmentainer for boxes without a positioned ancestor.
// Placeholders of footnote calls (fragments flagged Placeholder) are left
// in the fragment tree for the caller.
//
// The content always advances if the fragmentainer is empty: content which
// is too large for it overflows the fragmentainer.
func (lc *Context) LayoutBox(id frame.BoxID, area Fragmentainer, resume frame.Resume) (Flow, error) {
	if lc.err != nil {
		return Flow{}, lc.err
	}
	if int(id) < 0 || int(id) >= lc.tree.Len() {
		return Flow{}, core.Error(core.EINVALID, "box %d is not part of the tree", id)
	}
	if head, ok := resume.Head(); ok && head.Box != id {
		return Flow{}, core.Error(core.EINVALID, "resume marker %v does not start at box %d", resume, id)
	}
	if area.Width < 0 || area.Height <= 0 {
		return Flow{}, core.Error(core.EINVALID, "fragmentainer of size %v×%v", area.Width, area.Height)
	}
	clear(lc.held)
	cb := area.Area()
	req := &request{
		box:      id,
		cb:       cb,
		x:        area.Origin.X,
		y:        area.Origin.Y,
		limit:    area.Limit(),
		resume:   resume,
		empty:    true,
		truncate: area.Truncate,
		relax:    area.Relax,
		inColumn: area.InColumn,
	}
	res := lc.layout(req)
	if lc.err != nil {
		return Flow{}, lc.err
	}
	if !res.fits() { // cannot happen for an empty fragmentainer
		return Flow{}, core.Error(core.EINTERNAL, "nothing of box %d fits into an empty fragmentainer", id)
	}
	lc.Finish(res.frag, cb)
	clear(lc.held) // placeholders of discarded layout attempts
	tracer().Debugf("laid out %v, resume at %v", res.frag, res.resume)
	return Flow{
		Fragment: res.frag,
		Resume:   res.resume,
		Break:    res.forced,
		Bottom:   res.bottom,
	}, nil
}

// LayoutFootnote lays out the body of a footnote for a footnote area of
// width w. The fragment is placed at the origin; callers move it into
// place.
func (lc *Context) LayoutFootnote(id frame.BoxID, w dimen.Dimen) (*frame.Fragment, error) {
	if lc.err != nil {
		return nil, lc.err
	}
	if lc.tree.Box(id).Kind != frame.Footnote {
		return nil, core.Error(core.EINVALID, "box %d is not a footnote", id)
	}
	clear(lc.held)
	cb := frame.CBIndefinite(w)
	res := lc.layout(atOrigin(id, cb))
	if lc.err != nil {
		return nil, lc.err
	}
	lc.Finish(res.frag, cb)
	clear(lc.held)
	return res.frag, nil
}
