package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/parameters"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// columnGeometry returns the used number of columns, the column width and
// the gap for a multi-column container with content width w.
//
// “The used values for column-count and column-width are calculated
// from the specified values and the available width.”
func columnGeometry(st *style.Style, w dimen.Dimen) (n int, cw, gap dimen.Dimen) {
	gap = st.FontSize // `normal` is 1em
	if !st.ColumnGap.IsAuto() {
		gap = resolveGap(st.ColumnGap, w)
	}
	n = st.ColumnCount
	colW, hasW := dimen.Dimen(0), false
	if st.ColumnWidth.IsAbsolute() && st.ColumnWidth.Unwrap() > 0 {
		colW, hasW = st.ColumnWidth.Unwrap(), true
	}
	if hasW {
		fit := max(int((w+gap)/(colW+gap)), 1)
		if n == 0 {
			n = fit
		} else {
			n = min(n, fit)
		}
	}
	n = max(n, 1)
	cw = dimen.NonNegative((w+gap)/dimen.Dimen(n) - gap)
	return n, cw, gap
}

// multicol holds the state of laying out the columns of a multi-column
// container.
type multicol struct {
	lc      *Context
	req     *request
	box     *frame.Box
	n       int
	cw, gap dimen.Dimen
	x, y    dimen.Dimen // content edges
}

// columnSet is the outcome of filling columns up to a height.
type columnSet struct {
	frags  []*frame.Fragment
	end    flowEnd
	height dimen.Dimen // height of the tallest column
	cols   int
}

// fits is true if the set holds all of the remaining content.
func (set columnSet) fits() bool {
	return set.end.resume == nil && !set.end.noFit
}

// pageBreak is true for a forced break which has to end the fragment of the
// multi-column container, not just the column.
func pageBreak(b style.Break) bool {
	return b.IsForced(false)
}

// column lays out the content of a single column. Columns are
// fragmentainers of their own: margins at their top are truncated.
func (mc *multicol) column(x, h dimen.Dimen, resume frame.Resume) (*frame.Fragment, flowEnd, dimen.Dimen) {
	limit := dimen.Infinity
	if h != dimen.Infinity {
		limit = mc.y + h
	}
	tmp := frame.NewFragment(mc.box.ID, mc.box.Kind, frame.Used{X: x, Y: mc.y, W: mc.cw})
	creq := &request{
		box:      mc.box.ID,
		cb:       frame.CBIndefinite(mc.cw),
		x:        x,
		y:        mc.y,
		limit:    limit,
		empty:    true,
		truncate: true,
		relax:    mc.req.relax,
		inColumn: true,
	}
	fl := newFlow(mc.lc, creq, mc.box, tmp)
	fl.bfc = &bfc{}
	fl.cb = creq.cb
	fl.left, fl.right = x, x+mc.cw
	fl.y = mc.y
	fl.settle(mc.y)
	fl.indent = resume == nil
	end := fl.run(resume)
	bottom := fl.y
	if end.resume == nil {
		bottom += fl.strut.solve()
	}
	if !fl.bfc.space.IsEmpty() {
		bottom = max(bottom, fl.bfc.space.Bottom())
	}
	return tmp, end, bottom - mc.y
}

// fill lays out columns of height h, until the content is exhausted or
// every column is used. Columns of unlimited height are added beyond the
// column count as long as forced column breaks ask for them.
func (mc *multicol) fill(h dimen.Dimen, resume frame.Resume) columnSet {
	var set columnSet
	r := resume
	for i := 0; i < mc.n || h == dimen.Infinity; i++ {
		x := mc.x + dimen.Dimen(i)*(mc.cw+mc.gap)
		tmp, end, height := mc.column(x, h, r)
		set.frags = append(set.frags, tmp.Children...)
		set.height = max(set.height, height)
		set.cols, set.end = i+1, end
		if end.noFit || end.resume == nil || pageBreak(end.forced) {
			break
		}
		if r != nil && end.resume.Compare(r) <= 0 {
			tracer().Errorf("column of %v did not advance", mc.box)
			break
		}
		r = end.resume
	}
	return set
}

// balance finds the smallest column height which keeps the content within
// the columns, by bisection bounded by the balancing register. If the
// content does not fit into the available height, the columns are filled.
func (mc *multicol) balance(avail dimen.Dimen, resume frame.Resume) columnSet {
	best := mc.fill(avail, resume)
	if !best.fits() || pageBreak(best.end.forced) || mc.n == 1 || best.cols > mc.n {
		return best
	}
	hi := best.height
	if avail != dimen.Infinity {
		hi = min(avail, best.height)
	}
	lo := hi / dimen.Dimen(mc.n)
	steps := mc.lc.regs.N(parameters.P_BALANCEITERATIONS)
	for i := 0; i < steps && lo < hi; i++ {
		mid := lo + (hi-lo)/2
		set := mc.fill(mid, resume)
		if set.fits() && set.cols <= mc.n && !pageBreak(set.end.forced) {
			best, hi = set, mid
		} else {
			lo = mid + 1
		}
	}
	tracer().Debugf("balanced %d columns of %v at height %v", mc.n, mc.box, best.height)
	return best
}

// layoutColumns lays out a multi-column container. The content flows
// through a row of columns; the fragment of the container holds the
// fragments of all columns. If the columns are filled before the content
// is exhausted, the container breaks.
func (lc *Context) layoutColumns(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	continued := len(req.resume) > 0
	u := lc.resolveBox(req, st)
	if u.AutoWidth && req.cb.W == dimen.Infinity && !req.hasWidth {
		u.W = frame.ClampWidth(st, req.cb, lc.contentSizes(box.ID).max, u.InnerWidth())
	}
	if continued && st.BoxDecorationBreak == style.DecorationSlice {
		u.Border[frame.Top], u.Padding[frame.Top] = 0, 0
	}
	if continued {
		u.Margin[frame.Top] = 0
	}
	top := place(req, &u)
	f := frame.NewFragment(box.ID, box.Kind, u)
	f.ContinuedBefore = continued
	uf := &f.Used
	n, cw, gap := columnGeometry(st, uf.W)
	mc := &multicol{lc: lc, req: req, box: box, n: n, cw: cw, gap: gap, x: uf.ContentX(), y: uf.ContentY()}
	avail := dimen.Infinity
	if !uf.AutoHeight {
		avail = uf.H
	}
	if req.limited() {
		avail = min(avail, dimen.NonNegative(req.limit-mc.y-uf.Border[frame.Bottom]-uf.Padding[frame.Bottom]))
	}
	set := mc.balance(avail, req.resume)
	if set.end.noFit && !req.empty {
		return noFit(set.end.forced)
	}
	for _, c := range set.frags {
		f.Add(c)
	}
	res := result{frag: f, top: top}
	broken := set.end.resume != nil && req.limited()
	switch {
	case broken:
		f.ContinuedAfter = true
		f.Resume = set.end.resume
		uf.Margin[frame.Bottom] = 0
		if st.BoxDecorationBreak == style.DecorationSlice {
			uf.Border[frame.Bottom], uf.Padding[frame.Bottom] = 0, 0
		}
		if uf.AutoHeight {
			uf.H = avail
		}
		res.resume, res.forced = set.end.resume, set.end.forced
	case uf.AutoHeight:
		uf.H = frame.ClampHeight(st, req.cb, set.height, uf.InnerHeight())
		res.margins = marginOf(uf.Margin[frame.Bottom])
	default:
		res.margins = marginOf(uf.Margin[frame.Bottom])
	}
	uf.AutoHeight = false
	res.bottom = top + uf.BorderBoxHeight()
	f.Baseline = firstBaseline(f)
	return res
}

// columnSizes returns the intrinsic widths of a multi-column container's
// content.
func (lc *Context) columnSizes(id frame.BoxID) sizes {
	st := lc.tree.Style(id)
	content := lc.flowSizes(id)
	colMax := content.max
	if st.ColumnWidth.IsAbsolute() && st.ColumnWidth.Unwrap() > 0 {
		colMax = max(st.ColumnWidth.Unwrap(), content.min)
	}
	n := max(st.ColumnCount, 1)
	gap := st.FontSize
	if !st.ColumnGap.IsAuto() {
		gap = resolveGap(st.ColumnGap, dimen.Infinity)
	}
	return sizes{
		min: content.min,
		max: colMax*dimen.Dimen(n) + gap*dimen.Dimen(n-1),
	}
}
