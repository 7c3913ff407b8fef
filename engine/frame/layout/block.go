package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/exclusion"
	"github.com/npillmayer/folio/engine/style"
)

// bfc is a block formatting context: the floats placed within it so far.
type bfc struct {
	space *exclusion.Space
}

// flow lays out the children of a block container from top to bottom. It
// tracks the pending margins, the floats of its block formatting context and
// the places where the content may be broken.
type flow struct {
	lc     *Context
	req    *request
	box    *frame.Box
	kids   []frame.BoxID
	frag   *frame.Fragment // receives the child fragments
	bfc    *bfc
	cb     frame.ContainingBlock // for the children
	left   dimen.Dimen           // content edges
	right  dimen.Dimen
	y      dimen.Dimen // flow position, pending margins not yet applied
	strut  collapse    // pending margins
	top    dimen.Dimen // position where margins have first been resolved
	fixed  bool        // top has been set
	any    bool        // in-flow content has been placed
	indent bool        // text-indent applies to the next line
	after  style.Break // break value after the last placed item
	placed []placement
}

// placement records an item of a flow which has been placed, together with
// the possible break points inside it.
type placement struct {
	child int         // index of the first child of the item
	frags int         // number of fragments of the flow before the item
	after style.Break // break value after the item
	lines []lineMark  // for inline runs: the lines placed
}

// lineMark is the start of a line of an inline run.
type lineMark struct {
	frags  int // number of fragments of the flow before the line
	offset int // text position of the line start
}

// flowEnd tells how a flow ended.
type flowEnd struct {
	resume frame.Resume // where the content continues, nil if complete
	forced style.Break  // forced break which ended the flow
	noFit  bool         // nothing of the flow fits
}

func newFlow(lc *Context, req *request, box *frame.Box, frag *frame.Fragment) *flow {
	kids := box.Children
	if box.Kind == frame.Text { // a bare text box is its own inline content
		kids = []frame.BoxID{box.ID}
	}
	return &flow{lc: lc, req: req, box: box, kids: kids, frag: frag}
}

// settle records the position where the pending margins at the top of the
// flow are resolved for the first time.
func (fl *flow) settle(y dimen.Dimen) {
	if !fl.fixed {
		fl.top, fl.fixed = y, true
	}
}

// resolveStrut resolves the pending margins at the current position.
func (fl *flow) resolveStrut() dimen.Dimen {
	y := fl.y + fl.strut.solve()
	fl.settle(y)
	fl.y, fl.strut = y, collapse{}
	return y
}

// layoutFlow lays out block containers, both with block-level and with
// inline-level children.
func (lc *Context) layoutFlow(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	continued := len(req.resume) > 0
	u := lc.resolveBox(req, st)
	if continued || req.truncate {
		u.Margin[frame.Top] = 0
	}
	if continued && st.BoxDecorationBreak == style.DecorationSlice {
		u.Border[frame.Top], u.Padding[frame.Top] = 0, 0
	}
	frag := frame.NewFragment(box.ID, box.Kind, u)
	frag.ContinuedBefore = continued
	uf := &frag.Used
	fl := newFlow(lc, req, box, frag)
	root := req.bfc == nil || st.EstablishesBFC() || box.Parent == frame.NoBox
	if root {
		fl.bfc = &bfc{}
	} else {
		fl.bfc = req.bfc
	}
	fl.cb = contentCB(uf)
	fl.left = uf.ContentX()
	fl.right = fl.left + uf.W
	fl.indent = !continued
	strut := req.margins.adjoin(uf.Margin[frame.Top])
	collapseTop := !root && uf.Border[frame.Top] == 0 && uf.Padding[frame.Top] == 0
	if collapseTop {
		fl.y, fl.strut = req.y, strut
	} else {
		fl.settle(req.y + strut.solve())
		fl.y = fl.top + uf.Border[frame.Top] + uf.Padding[frame.Top]
	}
	end := fl.run(req.resume)
	if end.noFit {
		return noFit(end.forced)
	}
	broken := end.resume != nil
	inner := uf.InnerHeight()
	if !fl.fixed {
		collapseBottom := !root && !broken && uf.AutoHeight &&
			uf.Border[frame.Bottom] == 0 && uf.Padding[frame.Bottom] == 0
		if collapseBottom && collapseTop && clampedEmpty(st, req.cb, inner) {
			uf.H = 0
			uf.Y = req.y
			tracer().Debugf("margins collapse through %v", box)
			return result{
				frag:    frag,
				top:     req.y,
				bottom:  req.y,
				margins: fl.strut.adjoin(uf.Margin[frame.Bottom]),
				through: true,
			}
		}
		fl.resolveStrut()
	}
	contentTop := fl.top + uf.Border[frame.Top] + uf.Padding[frame.Top]
	uf.Y = fl.top - uf.Margin[frame.Top]
	var res result
	res.top = fl.top
	switch {
	case broken:
		frag.ContinuedAfter = true
		frag.Resume = end.resume
		uf.Margin[frame.Bottom] = 0
		if st.BoxDecorationBreak == style.DecorationSlice {
			uf.Border[frame.Bottom], uf.Padding[frame.Bottom] = 0, 0
		}
		if req.limited() {
			uf.H = dimen.NonNegative(req.limit - contentTop - uf.Border[frame.Bottom] - uf.Padding[frame.Bottom])
		} else {
			uf.H = dimen.NonNegative(fl.y - contentTop)
		}
		res.resume, res.forced = end.resume, end.forced
	case uf.AutoHeight:
		collapseBottom := !root && uf.Border[frame.Bottom] == 0 && uf.Padding[frame.Bottom] == 0
		bottom := fl.y
		if !collapseBottom {
			bottom = fl.y + fl.strut.solve()
		}
		if root && !fl.bfc.space.IsEmpty() {
			bottom = dimen.Max(bottom, fl.bfc.space.Bottom())
		}
		natural := dimen.NonNegative(bottom - contentTop)
		uf.H = frame.ClampHeight(st, req.cb, natural, inner)
		if collapseBottom && uf.H == natural {
			res.margins = fl.strut.adjoin(uf.Margin[frame.Bottom])
		} else {
			res.margins = marginOf(uf.Margin[frame.Bottom])
		}
		res.after = fl.after
	default:
		res.margins = marginOf(uf.Margin[frame.Bottom])
		res.after = fl.after
	}
	res.frag = frag
	res.bottom = fl.top + uf.BorderBoxHeight()
	if len(frag.Children) > 0 {
		frag.Baseline = firstBaseline(frag)
	}
	return res
}

// clampedEmpty is true if a box without content keeps a zero height.
func clampedEmpty(st *style.Style, cb frame.ContainingBlock, inner dimen.Dimen) bool {
	return frame.ClampHeight(st, cb, 0, inner) == 0
}

// run lays out the children of the flow, starting at a resume position.
func (fl *flow) run(resume frame.Resume) flowEnd {
	start, offset := 0, 0
	var inner frame.Resume
	if head, ok := resume.Head(); ok {
		start, offset = head.Child, head.Offset
		if tail := resume.Tail(); len(tail) > 0 && start < len(fl.kids) && tail[0].Box == fl.kids[start] {
			inner = tail
		}
	}
	lc := fl.lc
	resumed := resume != nil
	for i := start; i < len(fl.kids); {
		if lc.aborted() {
			return flowEnd{}
		}
		if j := fl.runEnd(i); j > i {
			off := 0
			if i == start {
				off = offset
			}
			end, done := fl.layoutRun(i, j, off)
			if !done {
				return end
			}
			i = j
			continue
		}
		c := fl.kids[i]
		cbox := lc.tree.Box(c)
		st := cbox.Style
		if !cbox.IsInFlow() {
			if end, ok := fl.outOfFlow(i); !ok {
				return end
			}
			i++
			continue
		}
		brk := joinBreaks(fl.after, st.BreakBefore, fl.req.inColumn)
		if brk.IsForced(fl.req.inColumn) && fl.req.limited() && !(resumed && i == start) {
			if fl.any {
				tracer().Debugf("forced break before %v", cbox)
				return fl.cut(len(fl.placed), i, 0, brk)
			}
			if !fl.req.empty {
				return flowEnd{noFit: true, forced: brk}
			}
		}
		creq := fl.childRequest(i, c, st)
		if i == start {
			creq.resume = inner
		}
		res := lc.layout(creq)
		if res.fits() && res.complete() && fl.req.limited() && !creq.empty && res.bottom > fl.req.limit {
			res = noFit(style.BreakAuto) // monolithic content crossing the limit
		}
		if !res.fits() {
			if !fl.any && len(fl.placed) == 0 {
				return flowEnd{noFit: true, forced: res.forced}
			}
			return fl.breakBefore(i, res.forced)
		}
		if res.complete() && creq.empty && fl.req.limited() && res.bottom > fl.req.limit &&
			!fl.req.relax && creq.limit == dimen.Infinity && lc.splittable(c, true, fl.req.inColumn) {
			// avoided break inside a box which does not fit into an empty fragmentainer
			tracer().Infof("relaxing break-inside: avoid for %v", cbox)
			creq.limit, creq.relax = fl.req.limit, true
			res = lc.layout(creq)
			if !res.fits() {
				return flowEnd{noFit: true}
			}
		}
		fl.add(i, res, joinBreaks(res.after, st.BreakAfter, fl.req.inColumn))
		if res.resume != nil {
			return flowEnd{
				resume: res.resume.Prepend(frame.ResumeStep{Box: fl.box.ID, Child: i}),
				forced: res.forced,
			}
		}
		i++
	}
	return flowEnd{}
}

// runEnd returns the end of the inline run starting at child i: a maximal
// sequence of inline-level and out-of-flow children containing at least one
// inline-level child. If child i does not start a run, runEnd returns i.
func (fl *flow) runEnd(i int) int {
	j, inline := i, false
	for ; j < len(fl.kids); j++ {
		b := fl.lc.tree.Box(fl.kids[j])
		if b.Kind.IsInlineLevel() {
			inline = true
		} else if b.IsInFlow() {
			break
		}
	}
	if !inline {
		return i
	}
	return j
}

// childRequest prepares the request for a block-level child, applying
// clearance and narrowing boxes which have to avoid floats.
func (fl *flow) childRequest(i int, c frame.BoxID, st *style.Style) *request {
	lc := fl.lc
	creq := fl.req.child(c, fl.cb)
	creq.x, creq.y = fl.left, fl.y
	creq.margins = fl.strut
	creq.bfc = fl.bfc
	creq.empty = fl.req.empty && !fl.any
	creq.truncate = fl.req.truncate && !fl.any
	if !lc.splittable(c, fl.req.relax, fl.req.inColumn) {
		creq.limit = dimen.Infinity
	}
	if fl.bfc.space.IsEmpty() {
		return creq
	}
	mt := frame.ResolveMargin(st, fl.cb, frame.Top)
	if st.Clear != style.ClearNone {
		hyp := fl.y + fl.strut.adjoin(mt).solve()
		if cy := fl.bfc.space.ClearY(st.Clear, hyp); cy > hyp {
			fl.resolveStrut()
			creq.y = cy - mt
			creq.margins = collapse{}
			creq.truncate = false
		}
	}
	if lc.establishesBFC(c) {
		y := creq.y + creq.margins.adjoin(mt).solve()
		x0, x1 := fl.bfc.space.Available(y, 1, fl.left, fl.right)
		if x0 > fl.left || x1 < fl.right {
			creq.x = x0
			creq.cb.W = x1 - x0
		}
	}
	return creq
}

// establishesBFC is true if a box lays out its content independently of the
// floats around it.
func (lc *Context) establishesBFC(id frame.BoxID) bool {
	if lc.tree.Style(id).EstablishesBFC() {
		return true
	}
	fc := ContextFor(lc.tree, id)
	return fc != FCBlock && fc != FCInline
}

// add appends the fragment of a placed block-level child.
func (fl *flow) add(i int, res result, after style.Break) {
	fl.placed = append(fl.placed, placement{child: i, frags: len(fl.frag.Children), after: after})
	fl.frag.Add(res.frag)
	fl.after = after
	if res.through {
		fl.strut = res.margins
		return
	}
	fl.settle(res.top)
	fl.y, fl.strut = res.bottom, res.margins
	fl.any, fl.indent = true, false
}

// outOfFlow places an out-of-flow child between block-level siblings. A
// float which crosses the limit pushes the rest of the flow to the next
// fragmentainer.
func (fl *flow) outOfFlow(i int) (flowEnd, bool) {
	c := fl.kids[i]
	mark := placement{child: i, frags: len(fl.frag.Children), after: fl.after}
	y := fl.y + fl.strut.solve()
	st := fl.lc.tree.Style(c)
	switch {
	case st.IsFloating():
		space := fl.bfc.space
		f := fl.placeFloat(c, y)
		if fl.req.limited() && f.Bottom() > fl.req.limit && !(fl.req.empty && !fl.any) {
			fl.frag.Children = fl.frag.Children[:mark.frags]
			fl.bfc.space = space
			if !fl.any && len(fl.placed) == 0 {
				return flowEnd{noFit: true}, false
			}
			return fl.breakBefore(i, style.BreakAuto), false
		}
	case st.IsFootnote():
		fl.placeFootnote(c, fl.left, y)
	default:
		fl.placeAbsolute(c, fl.left, y)
	}
	fl.placed = append(fl.placed, mark)
	return flowEnd{}, true
}

// breakBefore breaks the flow before child i, which does not fit. If a break
// at that position is to be avoided, an earlier break point is searched.
func (fl *flow) breakBefore(i int, forced style.Break) flowEnd {
	inColumn := fl.req.inColumn
	avoid := fl.after.IsAvoid(inColumn) || fl.lc.tree.Style(fl.kids[i]).BreakBefore.IsAvoid(inColumn)
	if forced.IsForced(inColumn) || fl.req.relax || !avoid {
		return fl.cut(len(fl.placed), i, 0, forced)
	}
	if end, ok := fl.earlierBreak(); ok {
		return end
	}
	if !fl.req.empty {
		return flowEnd{noFit: true}
	}
	tracer().Infof("no break point honours break avoidance, breaking before child %d of %v", i, fl.box)
	return fl.cut(len(fl.placed), i, 0, style.BreakAuto)
}

// earlierBreak searches the placed items backwards for a break point which
// is not to be avoided: between two items or between two lines of a run.
func (fl *flow) earlierBreak() (flowEnd, bool) {
	inColumn := fl.req.inColumn
	st := fl.box.Style
	orphans, widows := fl.lc.orphans(st), fl.lc.widows(st)
	for p := len(fl.placed) - 1; p >= 0; p-- {
		pl := fl.placed[p]
		for l := len(pl.lines) - 1; l >= 1; l-- {
			if l >= orphans && len(pl.lines)-l >= widows {
				mark := pl.lines[l]
				fl.placed[p].lines = pl.lines[:l]
				fl.frag.Children = fl.frag.Children[:mark.frags]
				fl.placed = fl.placed[:p+1]
				return flowEnd{resume: frame.Resume{{Box: fl.box.ID, Child: pl.child, Offset: mark.offset}}}, true
			}
		}
		if p == 0 {
			break
		}
		prev := fl.placed[p-1]
		before := style.BreakAuto
		if len(pl.lines) == 0 {
			before = fl.lc.tree.Style(fl.kids[pl.child]).BreakBefore
		}
		if !prev.after.IsAvoid(inColumn) && !before.IsAvoid(inColumn) {
			return fl.cut(p, pl.child, 0, style.BreakAuto), true
		}
	}
	return flowEnd{}, false
}

// cut ends the flow before placement p, continuing at child i with a text
// offset.
func (fl *flow) cut(p, i, offset int, forced style.Break) flowEnd {
	if p < len(fl.placed) {
		fl.frag.Children = fl.frag.Children[:fl.placed[p].frags]
		fl.placed = fl.placed[:p]
	}
	return flowEnd{
		resume: frame.Resume{{Box: fl.box.ID, Child: i, Offset: offset}},
		forced: forced,
	}
}

// joinBreaks combines the break values meeting at a break point: forced
// breaks win over avoid, avoid wins over auto, and of two forced breaks the
// later one wins.
func joinBreaks(a, b style.Break, inColumn bool) style.Break {
	switch {
	case b.IsForced(inColumn):
		return b
	case a.IsForced(inColumn):
		return a
	case b.IsAvoid(inColumn):
		return b
	case a.IsAvoid(inColumn):
		return a
	}
	return style.BreakAuto
}

// firstBaseline returns the offset of the first line's baseline from the
// top of a fragment's border box, or the height of the border box if there
// is no line.
func firstBaseline(f *frame.Fragment) dimen.Dimen {
	top := f.Used.BorderTop()
	found, b := false, dimen.Dimen(0)
	f.Walk(func(c *frame.Fragment) bool {
		if found {
			return false
		}
		if c.Kind == frame.Line {
			found, b = true, c.Used.Y+c.Baseline-top
			return false
		}
		return true
	})
	if !found {
		return f.Used.BorderBoxHeight()
	}
	return b
}
