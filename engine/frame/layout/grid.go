package layout

import (
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// gridItem is an in-flow child of a grid container, with its grid area.
// Rows and columns are 0-based track indices.
type gridItem struct {
	box              frame.BoxID
	st               *style.Style
	row, col         int
	rowSpan, colSpan int
	rowAuto, colAuto bool // position is found by auto-placement
	frag             *frame.Fragment
}

// Kinds of track sizing functions.
const (
	sizeFixed = iota
	sizeAuto
	sizeMinContent
	sizeMaxContent
	sizeFlex
)

// gridTrack is a row or column of the grid.
type gridTrack struct {
	spec  style.Track
	base  dimen.Dimen
	limit dimen.Dimen // growth limit, dimen.Infinity while unknown
	pos   dimen.Dimen // offset from the content edge
}

func (t *gridTrack) flex() float64 {
	if t.spec.Max.IsFlex() {
		return t.spec.Max.Flex()
	}
	return 0
}

// sizing classifies a sizing function. Percentages which cannot be
// resolved behave as `auto`.
func sizing(v style.Value, avail dimen.Dimen) (dimen.Dimen, int) {
	switch {
	case v.IsFlex():
		return 0, sizeFlex
	case v.IsAbsolute():
		return dimen.NonNegative(v.Unwrap()), sizeFixed
	case v.IsPercent() && avail != dimen.Infinity:
		d, _ := v.Resolve(avail)
		return dimen.NonNegative(d), sizeFixed
	}
	switch v.Unit() {
	case style.UnitMinContent:
		return 0, sizeMinContent
	case style.UnitMaxContent:
		return 0, sizeMaxContent
	}
	return 0, sizeAuto
}

// gridder holds the state of laying out a single grid container.
type gridder struct {
	lc     *Context
	st     *style.Style
	items  []*gridItem
	cols   []*gridTrack
	rows   []*gridTrack
	colGap dimen.Dimen
	rowGap dimen.Dimen
}

// newGridder collects the items of a grid container and places them into
// the grid.
func (lc *Context) newGridder(box *frame.Box, width dimen.Dimen) *gridder {
	st := box.Style
	g := &gridder{
		lc:     lc,
		st:     st,
		colGap: resolveGap(st.ColumnGap, width),
		rowGap: resolveGap(st.RowGap, dimen.Infinity),
	}
	for _, c := range box.Children {
		if lc.tree.Box(c).IsInFlow() {
			g.items = append(g.items, &gridItem{box: c, st: lc.tree.Style(c)})
		}
	}
	sort.SliceStable(g.items, func(i, j int) bool {
		return g.items[i].st.Order < g.items[j].st.Order
	})
	g.place()
	return g
}

// resolveLines resolves a placement along one axis of a grid with n
// explicit tracks. Negative lines count from the end of the explicit grid.
// Implicit tracks before the explicit grid are not supported; such
// positions are clamped to the first line.
func resolveLines(p style.GridPlacement, n int) (start, span int, definite bool) {
	line := func(l int) int {
		if l > 0 {
			return l - 1
		}
		return max(n+1+l, 0)
	}
	switch {
	case p.Start.Line != 0 && p.End.Line != 0:
		s, e := line(p.Start.Line), line(p.End.Line)
		if e < s {
			s, e = e, s
		}
		return s, max(e-s, 1), true
	case p.Start.Line != 0:
		return line(p.Start.Line), max(p.End.Span, 1), true
	case p.End.Line != 0:
		span = max(p.Start.Span, 1)
		return max(line(p.End.Line)-span, 0), span, true
	}
	return 0, max(p.Start.Span, p.End.Span, 1), false
}

// gridCells records the occupied cells of a grid.
type gridCells map[[2]int]bool

func (o gridCells) fits(r, c, rs, cs int) bool {
	for i := r; i < r+rs; i++ {
		for j := c; j < c+cs; j++ {
			if o[[2]int{i, j}] {
				return false
			}
		}
	}
	return true
}

func (o gridCells) mark(r, c, rs, cs int) {
	for i := r; i < r+rs; i++ {
		for j := c; j < c+cs; j++ {
			o[[2]int{i, j}] = true
		}
	}
}

// place runs the grid item placement algorithm. Column-major auto flow is
// handled as row-major flow on the transposed grid.
func (g *gridder) place() {
	st := g.st
	transposed := st.GridAutoFlow.IsColumn()
	ncols, nrows := len(st.GridTemplateColumns), len(st.GridTemplateRows)
	if transposed {
		ncols, nrows = nrows, ncols
	}
	for _, it := range g.items {
		rp, cp := it.st.GridRow, it.st.GridColumn
		nr, nc := len(st.GridTemplateRows), len(st.GridTemplateColumns)
		var rdef, cdef bool
		it.row, it.rowSpan, rdef = resolveLines(rp, nr)
		it.col, it.colSpan, cdef = resolveLines(cp, nc)
		it.rowAuto, it.colAuto = !rdef, !cdef
		if transposed {
			it.row, it.col = it.col, it.row
			it.rowSpan, it.colSpan = it.colSpan, it.rowSpan
			it.rowAuto, it.colAuto = it.colAuto, it.rowAuto
		}
		if !it.colAuto {
			ncols = max(ncols, it.col+it.colSpan)
		} else {
			ncols = max(ncols, it.colSpan)
		}
	}
	cells := make(gridCells)
	// items with a definite position
	for _, it := range g.items {
		if !it.rowAuto && !it.colAuto {
			cells.mark(it.row, it.col, it.rowSpan, it.colSpan)
		}
	}
	// items locked to a row
	dense := st.GridAutoFlow.IsDense()
	rowCursor := make(map[int]int)
	for _, it := range g.items {
		if it.rowAuto || !it.colAuto {
			continue
		}
		c := 0
		if !dense {
			c = rowCursor[it.row]
		}
		for !cells.fits(it.row, c, it.rowSpan, it.colSpan) {
			c++
		}
		it.col = c
		cells.mark(it.row, c, it.rowSpan, it.colSpan)
		rowCursor[it.row] = c + it.colSpan
		ncols = max(ncols, c+it.colSpan)
	}
	// remaining items
	r, c := 0, 0
	for _, it := range g.items {
		if !it.rowAuto {
			continue
		}
		if dense {
			r, c = 0, 0
		}
		if !it.colAuto {
			if it.col < c {
				r++
			}
			for !cells.fits(r, it.col, it.rowSpan, it.colSpan) {
				r++
			}
			c = it.col + it.colSpan
		} else {
			for {
				if c+it.colSpan > ncols {
					r, c = r+1, 0
					continue
				}
				if cells.fits(r, c, it.rowSpan, it.colSpan) {
					break
				}
				c++
			}
			it.col = c
			c += it.colSpan
		}
		it.row = r
		cells.mark(it.row, it.col, it.rowSpan, it.colSpan)
	}
	for _, it := range g.items {
		nrows = max(nrows, it.row+it.rowSpan)
		if transposed {
			it.row, it.col = it.col, it.row
			it.rowSpan, it.colSpan = it.colSpan, it.rowSpan
			it.rowAuto, it.colAuto = it.colAuto, it.rowAuto
		}
	}
	if transposed {
		ncols, nrows = nrows, ncols
	}
	g.cols = makeTracks(st.GridTemplateColumns, st.GridAutoColumns, ncols)
	g.rows = makeTracks(st.GridTemplateRows, st.GridAutoRows, nrows)
	tracer().Debugf("grid of %d×%d tracks for %d items", ncols, nrows, len(g.items))
}

// makeTracks creates n tracks, from the explicit template and then from the
// repeated list of implicit track sizes.
func makeTracks(explicit, implicit []style.Track, n int) []*gridTrack {
	tracks := make([]*gridTrack, n)
	for i := range tracks {
		switch {
		case i < len(explicit):
			tracks[i] = &gridTrack{spec: explicit[i]}
		case len(implicit) > 0:
			tracks[i] = &gridTrack{spec: implicit[(i-len(explicit))%len(implicit)]}
		default:
			tracks[i] = &gridTrack{spec: style.AutoTrack}
		}
	}
	return tracks
}

// axisSpan returns the area of an item along an axis.
type axisSpan func(it *gridItem) (start, n int)

func columnSpan(it *gridItem) (int, int) { return it.col, it.colSpan }
func rowSpan(it *gridItem) (int, int)    { return it.row, it.rowSpan }

// sizeTracks runs the track sizing algorithm for one axis: fixed sizes
// first, then intrinsic sizes from the contributions of the items, then the
// flexible tracks take the remaining space.
func (g *gridder) sizeTracks(tracks []*gridTrack, span axisSpan, contrib func(*gridItem) sizes,
	avail, gap dimen.Dimen, stretch bool) {
	//
	gaps := gap * dimen.Dimen(max(len(tracks)-1, 0))
	for _, t := range tracks {
		t.base, t.limit = 0, dimen.Infinity
		if d, k := sizing(t.spec.Min, avail); k == sizeFixed {
			t.base = d
		}
		if d, k := sizing(t.spec.Max, avail); k == sizeFixed {
			t.limit = max(d, t.base)
		}
	}
	// items spanning a single track
	var spanning []*gridItem
	for _, it := range g.items {
		s, n := span(it)
		if n > 1 {
			spanning = append(spanning, it)
			continue
		}
		t := tracks[s]
		c := contrib(it)
		switch _, k := sizing(t.spec.Min, avail); k {
		case sizeAuto, sizeMinContent:
			t.base = max(t.base, c.min)
		case sizeMaxContent:
			t.base = max(t.base, c.max)
		}
		switch _, k := sizing(t.spec.Max, avail); k {
		case sizeMinContent:
			t.limit = growLimit(t.limit, c.min)
		case sizeMaxContent, sizeAuto:
			t.limit = growLimit(t.limit, c.max)
		}
	}
	// items spanning several tracks, smaller spans first
	sort.SliceStable(spanning, func(i, j int) bool {
		_, a := span(spanning[i])
		_, b := span(spanning[j])
		return a < b
	})
	for _, it := range spanning {
		s, n := span(it)
		covered := tracks[s : s+n]
		c := contrib(it)
		var sumBase, sumLimit dimen.Dimen
		var intrinsic []*gridTrack
		flexible := false
		for _, t := range covered {
			sumBase += t.base
			sumLimit += limitOrBase(t)
			if t.flex() > 0 {
				flexible = true
			}
		}
		for _, t := range covered {
			_, k := sizing(t.spec.Min, avail)
			if k != sizeFixed && (!flexible || t.flex() > 0) {
				intrinsic = append(intrinsic, t)
			}
		}
		if len(intrinsic) == 0 {
			continue
		}
		spaceGaps := gap * dimen.Dimen(n-1)
		if excess := c.min - spaceGaps - sumBase; excess > 0 {
			share := excess / dimen.Dimen(len(intrinsic))
			for _, t := range intrinsic {
				t.base += share
			}
			intrinsic[len(intrinsic)-1].base += excess % dimen.Dimen(len(intrinsic))
		}
		if flexible {
			continue
		}
		if excess := c.max - spaceGaps - sumLimit; excess > 0 {
			share := excess / dimen.Dimen(len(intrinsic))
			for _, t := range intrinsic {
				t.limit = limitOrBase(t) + share
			}
		}
	}
	for _, t := range tracks {
		t.limit = max(limitOrBase(t), t.base)
	}
	// maximize tracks
	if avail != dimen.Infinity {
		free := avail - gaps - sumBases(tracks)
		for free > 0 {
			var growing []*gridTrack
			for _, t := range tracks {
				if t.flex() == 0 && t.base < t.limit {
					growing = append(growing, t)
				}
			}
			if len(growing) == 0 {
				break
			}
			share := max(free/dimen.Dimen(len(growing)), 1)
			for _, t := range growing {
				d := min(share, t.limit-t.base, free)
				t.base += d
				free -= d
			}
		}
	}
	g.expandFlexible(tracks, avail, gaps)
	// stretch auto tracks
	if stretch && avail != dimen.Infinity {
		var autos []*gridTrack
		for _, t := range tracks {
			if _, k := sizing(t.spec.Max, avail); k == sizeAuto {
				autos = append(autos, t)
			}
		}
		if free := avail - gaps - sumBases(tracks); free > 0 && len(autos) > 0 {
			share := free / dimen.Dimen(len(autos))
			for _, t := range autos {
				t.base += share
			}
			autos[len(autos)-1].base += free % dimen.Dimen(len(autos))
		}
	}
}

func growLimit(limit, d dimen.Dimen) dimen.Dimen {
	if limit == dimen.Infinity {
		return d
	}
	return max(limit, d)
}

func limitOrBase(t *gridTrack) dimen.Dimen {
	if t.limit == dimen.Infinity {
		return t.base
	}
	return t.limit
}

func sumBases(tracks []*gridTrack) dimen.Dimen {
	var sum dimen.Dimen
	for _, t := range tracks {
		sum += t.base
	}
	return sum
}

// expandFlexible sizes the flexible tracks. Within a definite available
// size the size of 1fr follows from the leftover space; flexible tracks
// whose base size exceeds their share are treated as inflexible and the
// size of 1fr is found anew. For an indefinite available size 1fr is the
// largest base size per flex factor.
func (g *gridder) expandFlexible(tracks []*gridTrack, avail, gaps dimen.Dimen) {
	var flexTracks []*gridTrack
	for _, t := range tracks {
		if t.flex() > 0 {
			flexTracks = append(flexTracks, t)
		}
	}
	if len(flexTracks) == 0 {
		return
	}
	var fr float64
	if avail == dimen.Infinity {
		for _, t := range flexTracks {
			fr = max(fr, float64(t.base)/max(t.flex(), 1))
		}
	} else {
		inflexible := make(map[*gridTrack]bool)
		for {
			leftover := avail - gaps
			var sumFlex float64
			for _, t := range tracks {
				if t.flex() > 0 && !inflexible[t] {
					sumFlex += t.flex()
				} else {
					leftover -= t.base
				}
			}
			fr = float64(dimen.NonNegative(leftover)) / max(sumFlex, 1)
			again := false
			for _, t := range flexTracks {
				if !inflexible[t] && float64(t.base) > fr*t.flex() {
					inflexible[t], again = true, true
				}
			}
			if !again {
				break
			}
		}
	}
	for _, t := range flexTracks {
		t.base = max(t.base, dimen.Dimen(fr*t.flex()))
		t.limit = t.base
	}
}

// position sets the offsets of tracks, aligned within the available size.
func position(tracks []*gridTrack, avail, gap dimen.Dimen, a style.Alignment) dimen.Dimen {
	total := gap*dimen.Dimen(max(len(tracks)-1, 0)) + sumBases(tracks)
	var lead, between dimen.Dimen
	if avail != dimen.Infinity {
		lead, between = distribute(a, avail-total, len(tracks))
	}
	pos := lead
	for _, t := range tracks {
		t.pos = pos
		pos += t.base + gap + between
	}
	return total
}

// extent returns the offset and size of an item's area along an axis.
func extent(tracks []*gridTrack, start, n int) (pos, size dimen.Dimen) {
	first, last := tracks[start], tracks[start+n-1]
	return first.pos, last.pos + last.base - first.pos
}

// justifySelf returns the used inline-axis alignment of a grid item.
func (lc *Context) justifySelf(it *gridItem, container *style.Style) style.Alignment {
	a := it.st.JustifySelf
	if a == style.AlignAuto {
		a = container.JustifyItems
	}
	if a == style.AlignNormal || a == style.AlignAuto {
		if lc.tree.Box(it.box).Kind == frame.Replaced {
			return style.AlignStart
		}
		a = style.AlignStretch
	}
	return a
}

// alignOffset returns the offset of an item within its area.
func alignOffset(a style.Alignment, autoS, autoE bool, free dimen.Dimen) dimen.Dimen {
	switch {
	case (autoS || autoE) && free > 0:
		switch {
		case autoS && autoE:
			return free / 2
		case autoS:
			return free
		}
		return 0
	case a == style.AlignEnd:
		return free
	case a == style.AlignCenter:
		return free / 2
	}
	return 0
}

// layoutGrid lays out a grid container. The container is laid out as a
// whole and then broken between rows; items spanning rows join them.
func (lc *Context) layoutGrid(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	u := lc.resolveBox(req, st)
	if u.AutoWidth && req.cb.W == dimen.Infinity && !req.hasWidth {
		u.W = frame.ClampWidth(st, req.cb, lc.contentSizes(box.ID).max, u.InnerWidth())
	}
	g := lc.newGridder(box, u.W)
	availH := dimen.Infinity
	if !u.AutoHeight {
		availH = u.H
	}
	stretchCols := st.JustifyContent == style.AlignNormal || st.JustifyContent == style.AlignStretch
	stretchRows := st.AlignContent == style.AlignNormal || st.AlignContent == style.AlignStretch
	g.sizeTracks(g.cols, columnSpan, func(it *gridItem) sizes {
		return lc.outerSizes(it.box)
	}, u.W, g.colGap, stretchCols)
	position(g.cols, u.W, g.colGap, st.JustifyContent)
	// lay out the items with the width of their area
	for _, it := range g.items {
		_, w := extent(g.cols, it.col, it.colSpan)
		acb := frame.CBIndefinite(w)
		ist := it.st
		var iu frame.Used
		frame.ResolveEdges(ist, acb, &iu)
		inner := iu.InnerWidth()
		margins := frame.ResolveMargin(ist, acb, frame.Left) + frame.ResolveMargin(ist, acb, frame.Right)
		var cw dimen.Dimen
		stretched := lc.justifySelf(it, st) == style.AlignStretch &&
			!ist.Margin[frame.Left].IsAuto() && !ist.Margin[frame.Right].IsAuto()
		if sw, ok := frame.SpecifiedWidth(ist, acb, inner); ok {
			cw = frame.ClampWidth(ist, acb, sw, inner)
		} else if stretched {
			cw = frame.ClampWidth(ist, acb, w-margins-inner, inner)
		} else {
			cw = lc.shrinkToFit(it.box, acb)
		}
		it.frag = lc.layoutItem(it.box, acb, cw, 0, false)
	}
	g.sizeTracks(g.rows, rowSpan, func(it *gridItem) sizes {
		h := it.frag.Used.OuterHeight()
		return sizes{h, h}
	}, availH, g.rowGap, stretchRows)
	total := position(g.rows, availH, g.rowGap, st.AlignContent)
	if u.AutoHeight {
		u.H = frame.ClampHeight(st, req.cb, total, u.InnerHeight())
		if u.H != total {
			position(g.rows, u.H, g.rowGap, st.AlignContent)
		}
	}
	u.AutoHeight = false
	continuation(req, st, &u)
	top := place(req, &u)
	f := frame.NewFragment(box.ID, box.Kind, u)
	cx, cy := f.Used.ContentX(), f.Used.ContentY()
	frags := make([]*frame.Fragment, 0, len(g.items))
	for _, it := range g.items {
		x, w := extent(g.cols, it.col, it.colSpan)
		y, h := extent(g.rows, it.row, it.rowSpan)
		ist := it.st
		iu := &it.frag.Used
		if alignSelf(ist, st) == style.AlignStretch && ist.Height.IsAuto() &&
			!ist.Margin[frame.Top].IsAuto() && !ist.Margin[frame.Bottom].IsAuto() {
			acb := frame.CBDefinite(w, h)
			ch := frame.ClampHeight(ist, acb, h-iu.Margin[frame.Top]-iu.Margin[frame.Bottom]-iu.InnerHeight(), iu.InnerHeight())
			if ch != iu.H {
				it.frag = lc.layoutItem(it.box, acb, iu.W, ch, true)
				iu = &it.frag.Used
			}
		}
		dx := alignOffset(lc.justifySelf(it, st), ist.Margin[frame.Left].IsAuto(),
			ist.Margin[frame.Right].IsAuto(), w-iu.OuterWidth())
		dy := alignOffset(alignSelf(ist, st), ist.Margin[frame.Top].IsAuto(),
			ist.Margin[frame.Bottom].IsAuto(), h-iu.OuterHeight())
		it.frag.Translate(cx+x+dx-iu.X, cy+y+dy-iu.Y)
		f.Add(it.frag)
		frags = append(frags, it.frag)
	}
	for _, c := range box.Children {
		if !lc.tree.Box(c).IsInFlow() {
			lc.hold(f, c, cx, cy)
		}
	}
	f.Baseline = f.Used.BorderBoxHeight()
	for _, it := range g.items {
		if it.row == 0 {
			f.Baseline = it.frag.Used.BorderTop() + it.frag.Baseline - f.Used.BorderTop()
			break
		}
	}
	return lc.sliceBands(req, f, frags, top)
}

// gridSizes returns the intrinsic widths of a grid container's content:
// the sums of the column sizes under a min-content and a max-content
// constraint.
func (lc *Context) gridSizes(id frame.BoxID) sizes {
	g := lc.newGridder(lc.tree.Box(id), dimen.Infinity)
	measure := func(useMax bool) dimen.Dimen {
		g.sizeTracks(g.cols, columnSpan, func(it *gridItem) sizes {
			o := lc.outerSizes(it.box)
			if useMax {
				return sizes{o.max, o.max}
			}
			return sizes{o.min, o.min}
		}, dimen.Infinity, g.colGap, false)
		return sumBases(g.cols) + g.colGap*dimen.Dimen(max(len(g.cols)-1, 0))
	}
	return sizes{measure(false), measure(true)}
}
