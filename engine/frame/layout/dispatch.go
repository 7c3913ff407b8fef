package layout

import (
	"fmt"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// FormattingContext is the closed set of layout algorithms.
type FormattingContext uint8

// Formatting contexts. A box's own inner display selects the context which
// lays out its children.
const (
	FCBlock       FormattingContext = iota // block-level children, top to bottom
	FCInline                               // inline-level children only, broken into lines
	FCTable                                // table grid
	FCFlex                                 // flex container
	FCGrid                                 // grid container
	FCReplaced                             // replaced content, no children
	FCMultiColumn                          // flow broken into columns
	fcCount
)

var fcNames = [fcCount]string{"block", "inline", "table", "flex", "grid", "replaced", "multicolumn"}

func (fc FormattingContext) String() string {
	if fc >= fcCount {
		return "fc?"
	}
	return fcNames[fc]
}

// ContextFor classifies the formatting context a box establishes for its
// children, from its kind and its own display, never from its parent's.
func ContextFor(tree *frame.Tree, id frame.BoxID) FormattingContext {
	box := tree.Box(id)
	switch box.Kind {
	case frame.Replaced:
		return FCReplaced
	case frame.Text:
		return FCInline
	case frame.Table:
		return FCTable
	case frame.FlexContainer:
		return FCFlex
	case frame.GridContainer:
		return FCGrid
	case frame.MultiColumn:
		return FCMultiColumn
	}
	d := box.Style.Display
	switch {
	case d.Contains(style.TableMode):
		return FCTable
	case d.Contains(style.FlexMode):
		return FCFlex
	case d.Contains(style.GridMode):
		return FCGrid
	case box.Style.IsMultiColumn() && !d.IsTableInternal() && !d.IsInlineLevel():
		return FCMultiColumn
	case box.Kind == frame.Inline && !d.IsAtomicInline():
		return FCInline
	}
	inline := false
	for _, c := range box.Children {
		ch := tree.Box(c)
		if !ch.IsInFlow() {
			continue
		}
		if !ch.Kind.IsInlineLevel() {
			return FCBlock
		}
		inline = true
	}
	if inline {
		return FCInline
	}
	return FCBlock
}

// contextHandler lays out a box and its descendants.
type contextHandler func(lc *Context, req *request) result

// handlers is the dispatch table, indexed by formatting context. It is set
// up by init to break the initialization cycle between the handlers and
// the dispatcher they call.
var handlers [fcCount]contextHandler

func init() {
	handlers = [fcCount]contextHandler{
		FCBlock:       (*Context).layoutFlow,
		FCInline:      (*Context).layoutFlow,
		FCTable:       (*Context).layoutTable,
		FCFlex:        (*Context).layoutFlex,
		FCGrid:        (*Context).layoutGrid,
		FCReplaced:    (*Context).layoutReplaced,
		FCMultiColumn: (*Context).layoutColumns,
	}
	for fc, h := range handlers {
		if h == nil {
			panic(fmt.Sprintf("layout: no handler for formatting context %s", FormattingContext(fc)))
		}
	}
}

// --- Requests and results --------------------------------------------------

// request is the input for laying out a single box.
type request struct {
	box      frame.BoxID
	cb       frame.ContainingBlock
	x, y     dimen.Dimen  // left margin edge and current flow position (before pending margins)
	limit    dimen.Dimen  // bottom of the fragmentainer, dimen.Infinity if unlimited
	resume   frame.Resume // where to continue; its first step refers to box
	margins  collapse     // pending margins above the box
	bfc      *bfc         // block formatting context the box takes part in
	empty    bool         // nothing has been placed in the fragmentainer yet
	truncate bool         // margins at the top of the fragmentainer are truncated
	relax    bool         // ignore break avoidance
	inColumn bool         // the fragmentainer is a column

	width, height       dimen.Dimen // content size imposed by the parent's formatting context
	hasWidth, hasHeight bool
	borders             *[4]dimen.Dimen // used border widths, for cells of collapsed tables
}

// child derives a request for a child box, inheriting the state of the
// fragmentainer.
func (req *request) child(id frame.BoxID, cb frame.ContainingBlock) *request {
	return &request{
		box:      id,
		cb:       cb,
		limit:    req.limit,
		relax:    req.relax,
		inColumn: req.inColumn,
	}
}

// atOrigin derives a request for laying out a box out of flow: unlimited,
// at the origin and with a new block formatting context.
func atOrigin(id frame.BoxID, cb frame.ContainingBlock) *request {
	return &request{box: id, cb: cb, limit: dimen.Infinity, empty: true}
}

func (req *request) fixWidth(w dimen.Dimen) *request {
	req.width, req.hasWidth = dimen.NonNegative(w), true
	return req
}

func (req *request) fixHeight(h dimen.Dimen) *request {
	req.height, req.hasHeight = dimen.NonNegative(h), true
	return req
}

func (req *request) limited() bool {
	return req.limit != dimen.Infinity
}

// result is the outcome of laying out a box.
//
// A nil fragment means that nothing of the box fits into the fragmentainer
// and the break has to be placed before the box. A fragment with a resume
// marker is the first part of a box which continues in the next
// fragmentainer.
type result struct {
	frag    *frame.Fragment
	resume  frame.Resume
	top     dimen.Dimen // top border edge, where pending margins have been resolved
	bottom  dimen.Dimen // bottom border edge
	margins collapse    // margins pending below the box
	through bool        // the box is empty and margins collapse through it
	forced  style.Break // forced break which ended the fragment, or which has to precede the box
	after   style.Break // break value propagated from the last child
}

func noFit(forced style.Break) result {
	return result{forced: forced}
}

func (r result) fits() bool {
	return r.frag != nil
}

func (r result) complete() bool {
	return r.frag != nil && r.resume == nil
}

// --- Dispatch --------------------------------------------------------------

// layout lays out a box with the algorithm of its formatting context.
func (lc *Context) layout(req *request) result {
	if lc.aborted() {
		return lc.skip(req)
	}
	fc := ContextFor(lc.tree, req.box)
	tracer().Debugf("layout %v as %s at y=%v", lc.tree.Box(req.box), fc, req.y)
	res := handlers[fc](lc, req)
	if res.frag != nil {
		lc.offsetRelative(res.frag, req.cb)
	}
	return res
}

// skip produces an empty fragment, for canceled layouts.
func (lc *Context) skip(req *request) result {
	f := frame.NewFragment(req.box, lc.tree.Box(req.box).Kind, frame.Used{X: req.x, Y: req.y})
	return result{frag: f, top: req.y, bottom: req.y}
}

// splittable is true if a box may be broken across fragmentainers.
func (lc *Context) splittable(id frame.BoxID, relax, inColumn bool) bool {
	box := lc.tree.Box(id)
	if box.Kind == frame.Replaced || box.Style.Display.IsAtomicInline() {
		return false
	}
	switch ContextFor(lc.tree, id) {
	case FCBlock, FCInline, FCTable, FCMultiColumn, FCFlex, FCGrid:
		return relax || !box.Style.BreakInside.IsAvoid(inColumn)
	}
	return false
}

// resolveBox calculates the used values of a box for a request.
func (lc *Context) resolveBox(req *request, st *style.Style) frame.Used {
	var u frame.Used
	if req.hasWidth {
		u = frame.ResolveWithWidth(st, req.cb, req.width)
	} else {
		u = frame.ResolveHorizontal(st, req.cb)
	}
	if req.borders != nil {
		u.Border = *req.borders
	}
	frame.ResolveVertical(st, req.cb, &u)
	if req.hasHeight {
		u.H, u.AutoHeight = req.height, false
	}
	u.X = req.x
	return u
}

// contentCB returns the containing block a box establishes for its
// children.
func contentCB(u *frame.Used) frame.ContainingBlock {
	if u.AutoHeight {
		return frame.CBIndefinite(u.W)
	}
	return frame.CBDefinite(u.W, u.H)
}

// place is the common tail of monolithic formatting contexts: it resolves
// the pending margins above a box and returns the position of its top
// border edge.
func place(req *request, u *frame.Used) (top dimen.Dimen) {
	if req.truncate {
		u.Margin[frame.Top] = 0
	}
	top = req.y + req.margins.adjoin(u.Margin[frame.Top]).solve()
	u.Y = top - u.Margin[frame.Top]
	return top
}

// finish completes a monolithic result for a placed fragment.
func finish(f *frame.Fragment) result {
	top := f.Used.BorderTop()
	return result{
		frag:    f,
		top:     top,
		bottom:  f.Used.BorderBottom(),
		margins: marginOf(f.Used.Margin[frame.Bottom]),
	}
}
