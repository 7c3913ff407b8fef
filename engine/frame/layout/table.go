package layout

import (
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// tablePart tells where a row group is placed.
type tablePart uint8

const (
	bodyPart tablePart = iota
	headerPart
	footerPart
)

// tableModel is the grid of a table box: its captions, columns, row groups,
// rows and cells. Rows and cells which are not wrapped into a row group or
// row in the box tree are collected into anonymous groups and rows.
type tableModel struct {
	lc        *Context
	box       *frame.Box
	captions  []frame.BoxID
	colGroups []frame.BoxID
	cols      []frame.BoxID // per column, NoBox where no column box exists
	groups    []*rowGroup   // in layout order: header, bodies, footer
	rows      []*tableRow   // in layout order
	cells     []*tableCell
	ncols     int
	collapsed bool
	outer     [4]dimen.Dimen // border widths of the table box in collapsed mode
}

type rowGroup struct {
	box  frame.BoxID // NoBox for anonymous groups
	part tablePart
	rows []*tableRow
	anon *tableRow // open anonymous row
}

type tableRow struct {
	box     frame.BoxID // NoBox for anonymous rows
	group   *rowGroup
	boxes   []frame.BoxID // cell boxes in source order
	cells   []*tableCell  // cells starting in this row
	h       dimen.Dimen
	spanned bool // a cell of an earlier row spans into this row
}

type tableCell struct {
	box              frame.BoxID
	row, col         int
	rowspan, colspan int
	border           [4]dimen.Dimen // used border widths in collapsed mode
	frag             *frame.Fragment
}

func partOf(st *style.Style) tablePart {
	switch {
	case st.Display.Contains(style.TableHeaderMode):
		return headerPart
	case st.Display.Contains(style.TableFooterMode):
		return footerPart
	}
	return bodyPart
}

// buildTable sets up the grid of a table box.
func (lc *Context) buildTable(box *frame.Box) *tableModel {
	m := &tableModel{lc: lc, box: box, collapsed: box.Style.BorderCollapse == style.BorderCollapsed}
	var header, footer *rowGroup
	var bodies []*rowGroup
	var anon *rowGroup
	for _, c := range box.Children {
		cbox := lc.tree.Box(c)
		switch cbox.Kind {
		case frame.Caption:
			m.captions = append(m.captions, c)
			continue
		case frame.ColumnGroup:
			m.colGroups = append(m.colGroups, c)
			if len(cbox.Children) == 0 {
				m.addColumns(c, cbox.Style.ColSpan)
			}
			for _, col := range cbox.Children {
				m.addColumns(col, lc.tree.Style(col).ColSpan)
			}
			continue
		case frame.Column:
			m.addColumns(c, cbox.Style.ColSpan)
			continue
		case frame.RowGroup:
			g := &rowGroup{box: c, part: partOf(cbox.Style)}
			for _, r := range cbox.Children {
				m.addToGroup(g, r)
			}
			switch {
			case g.part == headerPart && header == nil:
				header = g
			case g.part == footerPart && footer == nil:
				footer = g
			default:
				g.part = bodyPart
				bodies = append(bodies, g)
			}
			anon = nil
			continue
		}
		if !cbox.IsInFlow() {
			continue
		}
		if anon == nil {
			anon = &rowGroup{box: frame.NoBox}
			bodies = append(bodies, anon)
		}
		m.addToGroup(anon, c)
	}
	if header != nil {
		m.groups = append(m.groups, header)
	}
	m.groups = append(m.groups, bodies...)
	if footer != nil {
		m.groups = append(m.groups, footer)
	}
	for _, g := range m.groups {
		m.rows = append(m.rows, g.rows...)
	}
	m.placeCells()
	if m.collapsed {
		m.collapseBorders()
	}
	return m
}

func (m *tableModel) addColumns(col frame.BoxID, span int) {
	for i := 0; i < max(span, 1); i++ {
		m.cols = append(m.cols, col)
	}
}

// addToGroup adds a row, or a cell wrapped into an anonymous row, to a group.
func (m *tableModel) addToGroup(g *rowGroup, id frame.BoxID) {
	b := m.lc.tree.Box(id)
	if b.Kind == frame.Row {
		g.anon = nil
		row := &tableRow{box: id, group: g}
		for _, c := range b.Children {
			if m.lc.tree.Box(c).IsInFlow() {
				row.boxes = append(row.boxes, c)
			}
		}
		g.rows = append(g.rows, row)
		return
	}
	if g.anon == nil {
		g.anon = &tableRow{box: frame.NoBox, group: g}
		g.rows = append(g.rows, g.anon)
	}
	g.anon.boxes = append(g.anon.boxes, id)
}

// placeCells assigns grid slots to cells. Row spans do not reach beyond the
// end of their row group.
func (m *tableModel) placeCells() {
	var occ [][]bool
	taken := func(r, c int) bool {
		return r < len(occ) && c < len(occ[r]) && occ[r][c]
	}
	take := func(r, c int) {
		for len(occ) <= r {
			occ = append(occ, nil)
		}
		for len(occ[r]) <= c {
			occ[r] = append(occ[r], false)
		}
		occ[r][c] = true
	}
	groupEnd := make(map[*rowGroup]int)
	n := 0
	for _, g := range m.groups {
		n += len(g.rows)
		groupEnd[g] = n
	}
	for r, row := range m.rows {
		col := 0
		for _, id := range row.boxes {
			st := m.lc.tree.Style(id)
			for taken(r, col) {
				col++
			}
			cell := &tableCell{
				box:     id,
				row:     r,
				col:     col,
				rowspan: min(max(st.RowSpan, 1), groupEnd[row.group]-r),
				colspan: max(st.ColSpan, 1),
			}
			for rr := r; rr < r+cell.rowspan; rr++ {
				for cc := col; cc < col+cell.colspan; cc++ {
					take(rr, cc)
				}
				if rr > r {
					m.rows[rr].spanned = true
				}
			}
			row.cells = append(row.cells, cell)
			m.cells = append(m.cells, cell)
			col += cell.colspan
			m.ncols = max(m.ncols, col)
		}
	}
	m.ncols = max(m.ncols, len(m.cols))
}

func (m *tableModel) colBox(c int) frame.BoxID {
	if c < len(m.cols) {
		return m.cols[c]
	}
	return frame.NoBox
}

func (m *tableModel) bodyRange() (from, to int) {
	for _, g := range m.groups {
		switch g.part {
		case headerPart:
			from += len(g.rows)
		case footerPart:
			return from, len(m.rows) - len(g.rows)
		}
	}
	return from, len(m.rows)
}

func (m *tableModel) spacing(cb frame.ContainingBlock) (hs, vs dimen.Dimen) {
	if m.collapsed {
		return 0, 0
	}
	st := m.box.Style
	hs, _ = frame.ResolveLength(st.BorderSpacing[0], cb.W, false)
	vs, _ = frame.ResolveLength(st.BorderSpacing[1], cb.W, false)
	return dimen.NonNegative(hs), dimen.NonNegative(vs)
}

// --- Collapsing borders ----------------------------------------------------

// Origins of border candidates, by priority.
const (
	fromTable = iota
	fromColumn
	fromGroup
	fromRow
	fromCell
)

type borderCand struct {
	w      dimen.Dimen
	style  style.BorderStyle
	origin int
}

func borderOf(st *style.Style, dir, origin int) borderCand {
	w, _ := frame.ResolveLength(st.BorderWidth[dir], 0, false)
	if !st.BorderStyle[dir].IsVisible() {
		w = 0
	}
	return borderCand{w: dimen.NonNegative(w), style: st.BorderStyle[dir], origin: origin}
}

// stronger resolves a conflict between two borders. `hidden` suppresses
// every other border and `none` loses against everything. Of two visible
// borders the one with the stronger style wins, then the wider one, then the
// one of the more specific box (cell over row over row group over column
// over table).
func stronger(a, b borderCand) borderCand {
	switch {
	case a.style == style.BorderHidden:
		return a
	case b.style == style.BorderHidden:
		return b
	case a.style == style.BorderNone || a.w == 0:
		return b
	case b.style == style.BorderNone || b.w == 0:
		return a
	case a.style != b.style:
		if b.style > a.style {
			return b
		}
		return a
	case a.w != b.w:
		if b.w > a.w {
			return b
		}
		return a
	case b.origin > a.origin:
		return b
	}
	return a
}

// collapseBorders resolves the border conflicts of every cell edge. Each
// cell takes half of the winning border, the table box takes the outer
// halves.
func (m *tableModel) collapseBorders() {
	tree := m.lc.tree
	slots := make(map[[2]int]*tableCell)
	for _, c := range m.cells {
		for r := c.row; r < c.row+c.rowspan; r++ {
			for k := c.col; k < c.col+c.colspan; k++ {
				slots[[2]int{r, k}] = c
			}
		}
	}
	tst := m.box.Style
	add := func(w *borderCand, id frame.BoxID, dir, origin int) {
		if id != frame.NoBox {
			*w = stronger(*w, borderOf(tree.Style(id), dir, origin))
		}
	}
	neighbour := func(w *borderCand, r, c, dir int) {
		if n := slots[[2]int{r, c}]; n != nil {
			*w = stronger(*w, borderOf(tree.Style(n.box), dir, fromCell))
		}
	}
	lastRow, lastCol := len(m.rows)-1, m.ncols-1
	for _, c := range m.cells {
		st := tree.Style(c.box)
		row, lrow := m.rows[c.row], m.rows[c.row+c.rowspan-1]
		var w [4]borderCand
		for dir := frame.Top; dir <= frame.Left; dir++ {
			w[dir] = borderOf(st, dir, fromCell)
		}
		// top
		neighbour(&w[frame.Top], c.row-1, c.col, frame.Bottom)
		add(&w[frame.Top], row.box, frame.Top, fromRow)
		if row.group.rows[0] == row {
			add(&w[frame.Top], row.group.box, frame.Top, fromGroup)
		}
		if c.row == 0 {
			add(&w[frame.Top], m.colBox(c.col), frame.Top, fromColumn)
			w[frame.Top] = stronger(w[frame.Top], borderOf(tst, frame.Top, fromTable))
		}
		// bottom
		neighbour(&w[frame.Bottom], c.row+c.rowspan, c.col, frame.Top)
		add(&w[frame.Bottom], lrow.box, frame.Bottom, fromRow)
		if g := lrow.group; g.rows[len(g.rows)-1] == lrow {
			add(&w[frame.Bottom], g.box, frame.Bottom, fromGroup)
		}
		if c.row+c.rowspan-1 == lastRow {
			add(&w[frame.Bottom], m.colBox(c.col), frame.Bottom, fromColumn)
			w[frame.Bottom] = stronger(w[frame.Bottom], borderOf(tst, frame.Bottom, fromTable))
		}
		// left
		neighbour(&w[frame.Left], c.row, c.col-1, frame.Right)
		add(&w[frame.Left], m.colBox(c.col), frame.Left, fromColumn)
		if c.col == 0 {
			add(&w[frame.Left], row.box, frame.Left, fromRow)
			add(&w[frame.Left], row.group.box, frame.Left, fromGroup)
			w[frame.Left] = stronger(w[frame.Left], borderOf(tst, frame.Left, fromTable))
		}
		// right
		neighbour(&w[frame.Right], c.row, c.col+c.colspan, frame.Left)
		add(&w[frame.Right], m.colBox(c.col+c.colspan-1), frame.Right, fromColumn)
		if c.col+c.colspan-1 == lastCol {
			add(&w[frame.Right], row.box, frame.Right, fromRow)
			add(&w[frame.Right], row.group.box, frame.Right, fromGroup)
			w[frame.Right] = stronger(w[frame.Right], borderOf(tst, frame.Right, fromTable))
		}
		c.border[frame.Top] = w[frame.Top].w / 2
		c.border[frame.Left] = w[frame.Left].w / 2
		c.border[frame.Bottom] = w[frame.Bottom].w - w[frame.Bottom].w/2
		c.border[frame.Right] = w[frame.Right].w - w[frame.Right].w/2
		if c.row == 0 {
			m.outer[frame.Top] = max(m.outer[frame.Top], w[frame.Top].w-c.border[frame.Top])
		}
		if c.row+c.rowspan-1 == lastRow {
			m.outer[frame.Bottom] = max(m.outer[frame.Bottom], w[frame.Bottom].w-c.border[frame.Bottom])
		}
		if c.col == 0 {
			m.outer[frame.Left] = max(m.outer[frame.Left], w[frame.Left].w-c.border[frame.Left])
		}
		if c.col+c.colspan-1 == lastCol {
			m.outer[frame.Right] = max(m.outer[frame.Right], w[frame.Right].w-c.border[frame.Right])
		}
	}
}

// --- Column widths ---------------------------------------------------------

// cellEdges returns the horizontal padding and border of a cell.
func (m *tableModel) cellEdges(c *tableCell, cb frame.ContainingBlock) dimen.Dimen {
	var u frame.Used
	frame.ResolveEdges(m.lc.tree.Style(c.box), cb, &u)
	if m.collapsed {
		u.Border = c.border
	}
	return u.InnerWidth()
}

// cellSizes returns the intrinsic widths of a cell's border box. A
// specified width raises both.
func (m *tableModel) cellSizes(c *tableCell) sizes {
	st := m.lc.tree.Style(c.box)
	edges := m.cellEdges(c, indefinite)
	s := m.lc.contentSizes(c.box)
	if w, ok := frame.SpecifiedWidth(st, indefinite, edges); ok {
		s.min = max(s.min, w)
		s.max = max(s.max, w)
	}
	return sizes{s.min + edges, s.max + edges}
}

// columnSizes calculates the min-content and max-content widths of every
// column. Cells spanning several columns distribute their excess evenly.
func (m *tableModel) columnSizes(hs dimen.Dimen) []sizes {
	cs := make([]sizes, m.ncols)
	for c, col := range m.cols {
		if col == frame.NoBox {
			continue
		}
		if w, ok := frame.SpecifiedWidth(m.lc.tree.Style(col), indefinite, 0); ok {
			cs[c] = sizes{w, w}
		}
	}
	var spanning []*tableCell
	for _, c := range m.cells {
		if c.colspan > 1 {
			spanning = append(spanning, c)
			continue
		}
		cs[c.col] = cs[c.col].union(m.cellSizes(c))
	}
	sort.SliceStable(spanning, func(i, j int) bool {
		return spanning[i].colspan < spanning[j].colspan
	})
	for _, c := range spanning {
		s := m.cellSizes(c)
		span := cs[c.col : c.col+c.colspan]
		gaps := hs * dimen.Dimen(c.colspan-1)
		var sum sizes
		for _, x := range span {
			sum = sum.add(x)
		}
		n := dimen.Dimen(len(span))
		if excess := s.min - gaps - sum.min; excess > 0 {
			for i := range span {
				span[i].min += excess / n
			}
			span[len(span)-1].min += excess % n
		}
		if excess := s.max - gaps - sum.max; excess > 0 {
			for i := range span {
				span[i].max += excess / n
			}
			span[len(span)-1].max += excess % n
		}
	}
	for i := range cs {
		cs[i].max = max(cs[i].max, cs[i].min)
	}
	return cs
}

// autoWidths distributes the width avail over columns with intrinsic widths
// cs. Columns never get less than their min-content width. Space beyond the
// max-content widths is distributed, in proportion to them, only if the
// width of the table is definite.
func autoWidths(cs []sizes, avail dimen.Dimen, definite bool) []dimen.Dimen {
	w := make([]dimen.Dimen, len(cs))
	var sum sizes
	for _, s := range cs {
		sum = sum.add(s)
	}
	switch {
	case avail >= sum.max:
		extra := avail - sum.max
		var given dimen.Dimen
		for i, s := range cs {
			w[i] = s.max
			if definite && extra > 0 {
				var share dimen.Dimen
				if sum.max > 0 {
					share = dimen.MulDiv(extra, int64(s.max), int64(sum.max))
				} else {
					share = extra / dimen.Dimen(len(cs))
				}
				w[i] += share
				given += share
			}
		}
		if definite && extra > 0 && len(w) > 0 {
			w[len(w)-1] += extra - given
		}
	case avail > sum.min:
		for i, s := range cs {
			w[i] = s.min + dimen.MulDiv(s.max-s.min, int64(avail-sum.min), int64(sum.max-sum.min))
		}
	default:
		for i, s := range cs {
			w[i] = s.min
		}
	}
	return w
}

// fixedWidths calculates column widths for the fixed table layout: from
// column boxes, then from the cells of the first row. Columns without a
// width share the remaining space equally.
func (m *tableModel) fixedWidths(avail, hs dimen.Dimen) []dimen.Dimen {
	w := make([]dimen.Dimen, m.ncols)
	set := make([]bool, m.ncols)
	for c, col := range m.cols {
		if col == frame.NoBox {
			continue
		}
		if v, ok := frame.ResolveLength(m.lc.tree.Style(col).Width, avail, true); ok {
			w[c], set[c] = dimen.NonNegative(v), true
		}
	}
	if len(m.rows) > 0 {
		cb := frame.CBDefinite(avail, 0)
		for _, c := range m.rows[0].cells {
			st := m.lc.tree.Style(c.box)
			edges := m.cellEdges(c, cb)
			cw, ok := frame.SpecifiedWidth(st, cb, edges)
			if !ok {
				continue
			}
			total := cw + edges - hs*dimen.Dimen(c.colspan-1)
			for k := c.col; k < c.col+c.colspan; k++ {
				if !set[k] {
					w[k], set[k] = dimen.NonNegative(total/dimen.Dimen(c.colspan)), true
				}
			}
		}
	}
	rest, open := avail, 0
	for c := range w {
		if set[c] {
			rest -= w[c]
		} else {
			open++
		}
	}
	if open > 0 {
		rest = dimen.NonNegative(rest)
		share, last := rest/dimen.Dimen(open), -1
		for c := range w {
			if !set[c] {
				w[c], last = share, c
			}
		}
		w[last] += rest - share*dimen.Dimen(open)
	}
	return w
}

// tableSizes returns the intrinsic widths of a table box's content.
func (lc *Context) tableSizes(id frame.BoxID) sizes {
	m := lc.buildTable(lc.tree.Box(id))
	hs, _ := m.spacing(indefinite)
	var s sizes
	for _, c := range m.columnSizes(hs) {
		s = s.add(c)
	}
	if m.ncols > 0 {
		sp := hs * dimen.Dimen(m.ncols+1)
		s = sizes{s.min + sp, s.max + sp}
	}
	for _, c := range m.captions {
		s = s.union(lc.outerSizes(c))
	}
	return s
}

// --- Table layout ----------------------------------------------------------

// layoutTable lays out a table box. Captions, row groups and rows are
// children of the table fragment; rows are monolithic and the table breaks
// between rows, never between rows joined by a spanning cell. The header
// group is repeated on every continuation, the footer group on every
// fragment but the last (flagged as Repeated).
//
// Resume markers of tables count rows in layout order: the single step
// {Box: table, Child: r} continues with body row r.
func (lc *Context) layoutTable(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	m := lc.buildTable(box)
	continued := len(req.resume) > 0
	hs, vs := m.spacing(req.cb)
	// width of the table
	var edges frame.Used
	frame.ResolveEdges(st, req.cb, &edges)
	if m.collapsed {
		edges.Border, edges.Padding = m.outer, [4]dimen.Dimen{}
	}
	inner := edges.InnerWidth()
	var sp dimen.Dimen
	if m.ncols > 0 {
		sp = hs * dimen.Dimen(m.ncols+1)
	}
	cs := m.columnSizes(hs)
	var sum sizes
	for _, c := range cs {
		sum = sum.add(c)
	}
	specW, definite := frame.SpecifiedWidth(st, req.cb, inner)
	fixed := st.TableLayout == style.TableLayoutFixed && definite
	var w dimen.Dimen
	switch {
	case req.hasWidth:
		w, definite = req.width, true
	case fixed:
		w = specW
	case definite:
		w = max(specW, sum.min+sp)
	case req.cb.W == dimen.Infinity:
		w = sum.max + sp
	default:
		avail := req.cb.W - frame.ResolveMargin(st, req.cb, frame.Left) -
			frame.ResolveMargin(st, req.cb, frame.Right) - inner
		w = frame.ShrinkToFit(sum.min+sp, sum.max+sp, avail)
	}
	if !req.hasWidth {
		w = frame.ClampWidth(st, req.cb, w, inner)
	}
	var widths []dimen.Dimen
	if fixed {
		widths = m.fixedWidths(w-sp, hs)
	} else {
		widths = autoWidths(cs, w-sp, definite)
	}
	// box of the table
	u := frame.ResolveWithWidth(st, req.cb, w)
	u.Border, u.Padding = edges.Border, edges.Padding
	frame.ResolveVertical(st, req.cb, &u)
	if !req.hasWidth && req.cb.W != dimen.Infinity {
		free := req.cb.W - u.BorderBoxWidth()
		if st.Margin[frame.Left].IsAuto() && st.Margin[frame.Right].IsAuto() && free > 0 {
			u.Margin[frame.Left], u.Margin[frame.Right] = free/2, free-free/2
		}
	}
	if continued {
		u.Margin[frame.Top] = 0
		if st.BoxDecorationBreak == style.DecorationSlice {
			u.Border[frame.Top], u.Padding[frame.Top] = 0, 0
		}
	}
	u.X = req.x
	top := place(req, &u)
	f := frame.NewFragment(box.ID, box.Kind, u)
	f.ContinuedBefore = continued
	cx, y := f.Used.ContentX(), f.Used.ContentY()
	// column positions
	colX := make([]dimen.Dimen, m.ncols+1)
	colX[0] = cx + hs
	for c := 0; c < m.ncols; c++ {
		colX[c+1] = colX[c] + widths[c] + hs
	}
	m.layoutCells(widths, hs, vs, w)
	if !continued {
		y = m.placeCaptions(f, style.CaptionTop, cx, y, w)
		m.placeColumns(f, colX, y)
	}
	if len(m.rows) > 0 {
		y += vs
	}
	// rows
	bfrom, bto := m.bodyRange()
	start := bfrom
	if head, ok := req.resume.Head(); ok {
		start = min(max(head.Child, bfrom), bto)
	}
	var footH dimen.Dimen
	for r := bto; r < len(m.rows); r++ {
		footH += m.rows[r].h + vs
	}
	bottomEdges := u.Padding[frame.Bottom] + u.Border[frame.Bottom]
	end, forced := start, style.BreakAuto
	ypos := y
	for r := 0; r < bfrom; r++ {
		ypos += m.rows[r].h + vs
	}
	for r := start; r < bto; r++ {
		row := m.rows[r]
		if r > start {
			brk := joinBreaks(m.rowBreak(r-1, false), m.rowBreak(r, true), req.inColumn)
			if brk.IsForced(req.inColumn) && req.limited() {
				forced = brk
				break
			}
		}
		if req.limited() && ypos+row.h+footH+bottomEdges > req.limit {
			b := r
			for b > start && m.rows[b].spanned {
				b--
			}
			if b > start {
				end = b
				break
			}
			if !req.empty {
				tracer().Debugf("table %v does not fit", box)
				return noFit(style.BreakAuto)
			}
		}
		ypos += row.h + vs
		end = r + 1
	}
	broken := end < bto
	// place the rows
	y = m.placeRows(f, 0, bfrom, colX, y, vs, continued)
	y = m.placeRows(f, start, end, colX, y, vs, false)
	y = m.placeRows(f, bto, len(m.rows), colX, y, vs, broken)
	if !broken {
		y = m.placeCaptions(f, style.CaptionBottom, cx, y, w)
	}
	uf := &f.Used
	content := dimen.NonNegative(y - uf.ContentY())
	if uf.AutoHeight || content > uf.H {
		uf.H = content
	}
	res := result{frag: f, top: top}
	if broken {
		f.ContinuedAfter = true
		f.Resume = frame.Resume{{Box: box.ID, Child: end}}
		uf.Margin[frame.Bottom] = 0
		if st.BoxDecorationBreak == style.DecorationSlice {
			uf.Border[frame.Bottom], uf.Padding[frame.Bottom] = 0, 0
		}
		res.resume, res.forced = f.Resume, forced
	} else {
		res.margins = marginOf(uf.Margin[frame.Bottom])
	}
	res.bottom = top + uf.BorderBoxHeight()
	f.Baseline = firstBaseline(f)
	return res
}

// rowBreak returns the break value before (or after) a row.
func (m *tableModel) rowBreak(r int, before bool) style.Break {
	row := m.rows[r]
	if row.box == frame.NoBox {
		return style.BreakAuto
	}
	if before {
		return m.lc.tree.Style(row.box).BreakBefore
	}
	return m.lc.tree.Style(row.box).BreakAfter
}

// layoutCells lays out the content of every cell at the origin and
// calculates the row heights. A cell spanning rows adds its excess height
// to the last of its rows.
func (m *tableModel) layoutCells(widths []dimen.Dimen, hs, vs, w dimen.Dimen) {
	cb := frame.CBIndefinite(w)
	for _, c := range m.cells {
		cw := hs * dimen.Dimen(c.colspan-1)
		for k := c.col; k < c.col+c.colspan && k < len(widths); k++ {
			cw += widths[k]
		}
		req := atOrigin(c.box, cb).fixWidth(cw - m.cellEdges(c, cb))
		if m.collapsed {
			req.borders = &c.border
		}
		c.frag = m.lc.layout(req).frag
		if c.frag == nil {
			c.frag = frame.NewFragment(c.box, frame.Cell, frame.Used{})
		}
		c.frag.Used.Margin = [4]dimen.Dimen{}
	}
	for _, row := range m.rows {
		if row.box != frame.NoBox {
			if h, ok := frame.ResolveLength(m.lc.tree.Style(row.box).Height, 0, false); ok {
				row.h = dimen.NonNegative(h)
			}
		}
		for _, c := range row.cells {
			if c.rowspan == 1 {
				row.h = max(row.h, c.frag.Used.BorderBoxHeight())
			}
		}
	}
	for _, c := range m.cells {
		if c.rowspan == 1 {
			continue
		}
		span := vs * dimen.Dimen(c.rowspan-1)
		for r := c.row; r < c.row+c.rowspan; r++ {
			span += m.rows[r].h
		}
		if excess := c.frag.Used.BorderBoxHeight() - span; excess > 0 {
			m.rows[c.row+c.rowspan-1].h += excess
		}
	}
}

// placeRows places rows [from, to) at y and returns the position below the
// last row's spacing. Row groups get a fragment for the rows placed.
func (m *tableModel) placeRows(f *frame.Fragment, from, to int, colX []dimen.Dimen,
	y, vs dimen.Dimen, repeated bool) dimen.Dimen {
	//
	if from >= to {
		return y
	}
	x0 := colX[0]
	gw := colX[len(colX)-1] - x0
	var gfrag *frame.Fragment
	var group *rowGroup
	target := f
	for r := from; r < to; r++ {
		row := m.rows[r]
		if row.group != group {
			group, gfrag, target = row.group, nil, f
			if group.box != frame.NoBox {
				gfrag = frame.NewFragment(group.box, frame.RowGroup, frame.Used{X: x0, Y: y, W: gw})
				gfrag.Repeated = repeated
				gfrag.ContinuedBefore = !repeated && group.rows[0] != row
				f.Add(gfrag)
				target = gfrag
			}
		}
		parent := target
		if row.box != frame.NoBox {
			rf := frame.NewFragment(row.box, frame.Row, frame.Used{X: x0, Y: y, W: gw, H: row.h})
			rf.Repeated = repeated && gfrag == nil
			target.Add(rf)
			parent = rf
		}
		for _, c := range row.cells {
			h := vs * dimen.Dimen(c.rowspan-1)
			for k := c.row; k < c.row+c.rowspan && k < len(m.rows); k++ {
				h += m.rows[k].h
			}
			m.placeCell(c, parent, colX[c.col], y, h)
		}
		y += row.h + vs
		if gfrag != nil {
			gfrag.Used.H = y - vs - gfrag.Used.Y
			gfrag.ContinuedAfter = !repeated && r == to-1 && group.rows[len(group.rows)-1] != row
		}
	}
	return y
}

// placeCell stretches a cell to the height of its rows, aligns its content
// vertically and moves it into place.
func (m *tableModel) placeCell(c *tableCell, parent *frame.Fragment, x, y, h dimen.Dimen) {
	cf := c.frag
	u := &cf.Used
	natural := u.BorderBoxHeight()
	var shift dimen.Dimen
	switch m.lc.tree.Style(c.box).VerticalAlign {
	case style.VAlignMiddle:
		shift = (h - natural) / 2
	case style.VAlignBottom:
		shift = h - natural
	}
	if shift > 0 {
		for _, ch := range cf.Children {
			ch.Translate(0, shift)
		}
	}
	u.H = dimen.NonNegative(h - u.Border[frame.Top] - u.Border[frame.Bottom] -
		u.Padding[frame.Top] - u.Padding[frame.Bottom])
	cf.Translate(x-u.X, y-u.Y)
	parent.Add(cf)
}

// placeCaptions lays out the captions on one side of the table.
func (m *tableModel) placeCaptions(f *frame.Fragment, side style.CaptionSide, x, y, w dimen.Dimen) dimen.Dimen {
	for _, c := range m.captions {
		if m.lc.tree.Style(c).CaptionSide != side {
			continue
		}
		req := &request{box: c, cb: frame.CBIndefinite(w), x: x, y: y, limit: dimen.Infinity, empty: true}
		res := m.lc.layout(req)
		if res.frag == nil {
			continue
		}
		f.Add(res.frag)
		y = res.bottom + res.margins.solve()
	}
	return y
}

// placeColumns adds empty fragments for column groups and columns.
func (m *tableModel) placeColumns(f *frame.Fragment, colX []dimen.Dimen, y dimen.Dimen) {
	for _, g := range m.colGroups {
		f.Add(frame.NewFragment(g, frame.ColumnGroup, frame.Used{X: colX[0], Y: y}))
	}
	seen := make(map[frame.BoxID]bool)
	for c, col := range m.cols {
		if col == frame.NoBox || seen[col] || m.lc.tree.Box(col).Kind != frame.Column {
			continue
		}
		seen[col] = true
		f.Add(frame.NewFragment(col, frame.Column, frame.Used{X: colX[c], Y: y}))
	}
}
