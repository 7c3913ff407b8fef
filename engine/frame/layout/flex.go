package layout

import (
	"math"
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// flexItem is an in-flow child of a flex container. Sizes along the main
// axis are content-box sizes; edges are margins, borders and paddings
// along the main axis.
type flexItem struct {
	box     frame.BoxID
	st      *style.Style
	base    dimen.Dimen // flex base size
	hypo    dimen.Dimen // hypothetical main size
	minMain dimen.Dimen
	maxMain dimen.Dimen // dimen.Infinity if unconstrained
	main    dimen.Dimen // target main size
	edges   dimen.Dimen
	cross   dimen.Dimen // cross size given to the item, content box
	frozen  bool
	viol    dimen.Dimen
	frag    *frame.Fragment
}

type flexLine struct {
	items []*flexItem
	cross dimen.Dimen // outer cross size of the line
	base  dimen.Dimen // baseline, from the cross-start edge of the line
	pos   dimen.Dimen
}

// flexer holds the state of laying out a single flex container.
type flexer struct {
	lc        *Context
	st        *style.Style
	row       bool
	reverse   bool
	icb       frame.ContainingBlock // containing block of the items
	mainSize  dimen.Dimen           // dimen.Infinity if indefinite
	crossSize dimen.Dimen           // dimen.Infinity if indefinite
	mainGap   dimen.Dimen
	crossGap  dimen.Dimen
	items     []*flexItem
	lines     []*flexLine
}

// resolveGap resolves `row-gap` or `column-gap`; `normal` is zero.
func resolveGap(v style.Value, base dimen.Dimen) dimen.Dimen {
	if v.IsAuto() {
		return 0
	}
	g, _ := frame.ResolveLength(v, base, base != dimen.Infinity)
	return dimen.NonNegative(g)
}

// alignSelf returns the used cross-axis alignment of an item. `normal`
// behaves as `stretch` in flex and grid layout.
func alignSelf(item, container *style.Style) style.Alignment {
	a := item.AlignSelf
	if a == style.AlignAuto {
		a = container.AlignItems
	}
	if a == style.AlignNormal || a == style.AlignAuto {
		a = style.AlignStretch
	}
	return a
}

// layoutFlex lays out a flex container. The container is laid out as a
// whole and then broken between flex lines, or between the items of a
// column container (see sliceBands).
//
// “The contents of a flex container consist of zero or more flex items:
// each in-flow child of a flex container becomes a flex item.”
func (lc *Context) layoutFlex(req *request) result {
	box := lc.tree.Box(req.box)
	st := box.Style
	u := lc.resolveBox(req, st)
	if u.AutoWidth && req.cb.W == dimen.Infinity && !req.hasWidth {
		u.W = frame.ClampWidth(st, req.cb, lc.contentSizes(box.ID).max, u.InnerWidth())
	}
	fx := &flexer{
		lc:      lc,
		st:      st,
		row:     !st.FlexDirection.IsColumn(),
		reverse: st.FlexDirection.IsReverse(),
		icb:     contentCB(&u),
	}
	if fx.row {
		fx.mainSize, fx.crossSize = u.W, dimen.Infinity
		if !u.AutoHeight {
			fx.crossSize = u.H
		}
		fx.mainGap, fx.crossGap = resolveGap(st.ColumnGap, u.W), resolveGap(st.RowGap, u.W)
	} else {
		fx.mainSize, fx.crossSize = dimen.Infinity, u.W
		if !u.AutoHeight {
			fx.mainSize = u.H
		}
		fx.mainGap, fx.crossGap = resolveGap(st.RowGap, u.W), resolveGap(st.ColumnGap, u.W)
	}
	var outOfFlow []frame.BoxID
	for _, c := range box.Children {
		if !lc.tree.Box(c).IsInFlow() {
			outOfFlow = append(outOfFlow, c)
			continue
		}
		fx.items = append(fx.items, &flexItem{box: c, st: lc.tree.Style(c)})
	}
	sort.SliceStable(fx.items, func(i, j int) bool {
		return fx.items[i].st.Order < fx.items[j].st.Order
	})
	for _, it := range fx.items {
		fx.baseSize(it)
	}
	fx.collectLines()
	var used dimen.Dimen // main size taken by the longest line
	for _, line := range fx.lines {
		used = max(used, fx.resolveFlexible(line))
	}
	if fx.mainSize == dimen.Infinity { // column container with auto height
		u.H = frame.ClampHeight(st, req.cb, used, u.InnerHeight())
		fx.mainSize = u.H
	}
	fx.crossSizes()
	if fx.row && u.AutoHeight {
		u.H = frame.ClampHeight(st, req.cb, fx.linesCross(), u.InnerHeight())
		fx.crossSize = u.H
		if len(fx.lines) == 1 {
			fx.lines[0].cross = u.H
		}
	}
	fx.alignContent()
	fx.stretch()
	// position the items
	u.AutoHeight = false
	continuation(req, st, &u)
	top := place(req, &u)
	f := frame.NewFragment(box.ID, box.Kind, u)
	cx, cy := f.Used.ContentX(), f.Used.ContentY()
	for _, line := range fx.lines {
		fx.justify(line, func(it *flexItem, mainPos, crossPos dimen.Dimen) {
			x, y := cx+mainPos, cy+crossPos
			if !fx.row {
				x, y = cx+crossPos, cy+mainPos
			}
			it.frag.Translate(x-it.frag.Used.X, y-it.frag.Used.Y)
		})
	}
	frags := make([]*frame.Fragment, len(fx.items))
	for i, it := range fx.items {
		f.Add(it.frag)
		frags[i] = it.frag
	}
	for _, c := range outOfFlow {
		lc.hold(f, c, cx, cy)
	}
	f.Baseline = f.Used.BorderBoxHeight()
	if len(fx.lines) > 0 && len(fx.lines[0].items) > 0 {
		first := fx.lines[0].items[0].frag
		f.Baseline = first.Used.BorderTop() + first.Baseline - f.Used.BorderTop()
	}
	return lc.sliceBands(req, f, frags, top)
}

// baseSize determines the flex base size and the hypothetical main size of
// an item, together with its min and max main sizes.
func (fx *flexer) baseSize(it *flexItem) {
	lc, st, cb := fx.lc, it.st, fx.icb
	var u frame.Used
	frame.ResolveEdges(st, cb, &u)
	frame.ResolveVertical(st, cb, &u)
	ml, mr := frame.ResolveMargin(st, cb, frame.Left), frame.ResolveMargin(st, cb, frame.Right)
	var inner dimen.Dimen
	if fx.row {
		inner = u.InnerWidth()
		it.edges = inner + ml + mr
	} else {
		inner = u.InnerHeight()
		it.edges = inner + u.Margin[frame.Top] + u.Margin[frame.Bottom]
		it.cross = fx.crossHint(it, u.InnerWidth(), ml+mr)
	}
	mainProp, minProp, maxProp := st.Width, st.MinWidth, st.MaxWidth
	if !fx.row {
		mainProp, minProp, maxProp = st.Height, st.MinHeight, st.MaxHeight
	}
	definite := fx.mainSize != dimen.Infinity
	size := func(v style.Value) (dimen.Dimen, bool) {
		d, ok := frame.ResolveLength(v, fx.mainSize, definite)
		if !ok {
			return 0, false
		}
		if st.BoxSizing == style.BorderBox {
			d -= inner
		}
		return dimen.NonNegative(d), true
	}
	switch b, ok := size(st.FlexBasis); {
	case ok:
		it.base = b
	default:
		if b, ok := size(mainProp); ok && !st.FlexBasis.IsIntrinsic() {
			it.base = b
		} else {
			it.base = fx.contentMain(it)
		}
	}
	it.maxMain = dimen.Infinity
	if m, ok := size(maxProp); ok {
		it.maxMain = m
	}
	if m, ok := size(minProp); ok {
		it.minMain = m
	} else if fx.row && st.Overflow == style.OverflowVisible {
		// automatic minimum size: the min-content size, capped by a
		// specified size
		auto := lc.contentSizes(it.box).min
		if s, ok := size(mainProp); ok {
			auto = min(auto, s)
		}
		it.minMain = min(auto, it.maxMain)
	}
	it.hypo = clampMain(it.base, it.minMain, it.maxMain)
}

func clampMain(d, lo, hi dimen.Dimen) dimen.Dimen {
	return dimen.NonNegative(max(min(d, hi), lo))
}

// crossHint returns the content width of an item of a column container.
// Items to be stretched take the width of a single line.
func (fx *flexer) crossHint(it *flexItem, inner, margins dimen.Dimen) dimen.Dimen {
	st := it.st
	if w, ok := frame.SpecifiedWidth(st, fx.icb, inner); ok {
		return frame.ClampWidth(st, fx.icb, w, inner)
	}
	stretched := alignSelf(st, fx.st) == style.AlignStretch &&
		!st.Margin[frame.Left].IsAuto() && !st.Margin[frame.Right].IsAuto()
	if stretched && fx.st.FlexWrap == style.NoWrap && fx.crossSize != dimen.Infinity {
		return fx.clampCross(it, fx.crossSize-inner-margins)
	}
	return fx.lc.shrinkToFit(it.box, fx.icb)
}

// contentMain returns the main size of an item's content.
func (fx *flexer) contentMain(it *flexItem) dimen.Dimen {
	if fx.row {
		return fx.lc.contentSizes(it.box).max
	}
	f := fx.lc.layoutItem(it.box, fx.icb, it.cross, 0, false)
	return f.Used.H
}

// layoutItem lays out an item at the origin, with a fixed content width
// and an optional fixed content height.
func (lc *Context) layoutItem(id frame.BoxID, cb frame.ContainingBlock, w, h dimen.Dimen, hasH bool) *frame.Fragment {
	req := atOrigin(id, cb).fixWidth(w)
	if hasH {
		req.fixHeight(h)
	}
	res := lc.layout(req)
	if res.frag == nil {
		return frame.NewFragment(id, lc.tree.Box(id).Kind, frame.Used{})
	}
	return res.frag
}

// collectLines breaks the items into flex lines. Single-line containers and
// containers with an indefinite main size put all items on one line.
func (fx *flexer) collectLines() {
	line := &flexLine{}
	var sum dimen.Dimen
	wrap := fx.st.FlexWrap != style.NoWrap && fx.mainSize != dimen.Infinity
	for _, it := range fx.items {
		outer := it.hypo + it.edges
		if wrap && len(line.items) > 0 && sum+fx.mainGap+outer > fx.mainSize {
			fx.lines = append(fx.lines, line)
			line, sum = &flexLine{}, 0
		}
		if len(line.items) > 0 {
			sum += fx.mainGap
		}
		sum += outer
		line.items = append(line.items, it)
	}
	if len(line.items) > 0 || len(fx.lines) == 0 {
		fx.lines = append(fx.lines, line)
	}
}

// resolveFlexible resolves the flexible lengths of the items of a line and
// returns the outer main size of the line.
//
// Items which violate their min or max size are frozen at the clamped size
// and the free space is distributed anew among the remaining items, until
// every item is frozen.
func (fx *flexer) resolveFlexible(line *flexLine) dimen.Dimen {
	items := line.items
	gaps := fx.mainGap * dimen.Dimen(max(len(items)-1, 0))
	if fx.mainSize == dimen.Infinity {
		outer := gaps
		for _, it := range items {
			it.main = it.hypo
			outer += it.hypo + it.edges
		}
		return outer
	}
	avail := fx.mainSize - gaps
	var sumHypo dimen.Dimen
	for _, it := range items {
		sumHypo += it.hypo + it.edges
	}
	grow := sumHypo < avail
	factor := func(it *flexItem) float64 {
		if grow {
			return it.st.FlexGrow
		}
		return it.st.FlexShrink
	}
	for _, it := range items {
		it.frozen, it.main = false, it.base
		if factor(it) == 0 || (grow && it.base > it.hypo) || (!grow && it.base < it.hypo) {
			it.frozen, it.main = true, it.hypo
		}
	}
	free := func() dimen.Dimen {
		rest := avail
		for _, it := range items {
			if it.frozen {
				rest -= it.main + it.edges
			} else {
				rest -= it.base + it.edges
			}
		}
		return rest
	}
	initial := free()
	for {
		var unfrozen []*flexItem
		var sumF, sumScaled float64
		for _, it := range items {
			if !it.frozen {
				unfrozen = append(unfrozen, it)
				sumF += factor(it)
				sumScaled += factor(it) * float64(it.base)
			}
		}
		if len(unfrozen) == 0 {
			break
		}
		remaining := float64(free())
		if sumF < 1 {
			if x := float64(initial) * sumF; math.Abs(x) < math.Abs(remaining) {
				remaining = x
			}
		}
		var total dimen.Dimen
		for _, it := range unfrozen {
			target := float64(it.base)
			switch {
			case remaining == 0:
			case grow:
				target += remaining * factor(it) / sumF
			case sumScaled > 0:
				target += remaining * factor(it) * float64(it.base) / sumScaled
			}
			t := dimen.Dimen(math.Round(max(target, 0)))
			it.main = clampMain(t, it.minMain, it.maxMain)
			it.viol = it.main - t
			total += it.viol
		}
		for _, it := range unfrozen {
			switch {
			case total == 0:
				it.frozen = true
			case total > 0 && it.viol > 0:
				it.frozen = true
			case total < 0 && it.viol < 0:
				it.frozen = true
			}
		}
		tracer().Debugf("flex line: free space %.0f, violation %v", remaining, total)
	}
	outer := gaps
	for _, it := range items {
		outer += it.main + it.edges
	}
	return outer
}

func (fx *flexer) clampCross(it *flexItem, c dimen.Dimen) dimen.Dimen {
	var u frame.Used
	frame.ResolveEdges(it.st, fx.icb, &u)
	if fx.row {
		return frame.ClampHeight(it.st, fx.icb, c, u.InnerHeight())
	}
	return frame.ClampWidth(it.st, fx.icb, c, u.InnerWidth())
}

// crossSizes lays out every item with its main size and determines the
// cross size and the baseline of every line.
func (fx *flexer) crossSizes() {
	for _, line := range fx.lines {
		var above, below, outer dimen.Dimen
		for _, it := range line.items {
			if fx.row {
				it.frag = fx.lc.layoutItem(it.box, fx.icb, it.main, 0, false)
			} else {
				it.frag = fx.lc.layoutItem(it.box, fx.icb, it.cross, it.main, true)
			}
			c := fx.outerCross(it.frag)
			if fx.row && alignSelf(it.st, fx.st) == style.AlignBaseline {
				b := it.frag.Used.Margin[frame.Top] + it.frag.Baseline
				above, below = max(above, b), max(below, c-b)
				continue
			}
			outer = max(outer, c)
		}
		line.cross, line.base = max(outer, above+below), above
	}
	if len(fx.lines) == 1 && fx.st.FlexWrap == style.NoWrap && fx.crossSize != dimen.Infinity {
		fx.lines[0].cross = fx.crossSize
	}
}

func (fx *flexer) outerCross(f *frame.Fragment) dimen.Dimen {
	if fx.row {
		return f.Used.OuterHeight()
	}
	return f.Used.OuterWidth()
}

func (fx *flexer) outerMain(f *frame.Fragment) dimen.Dimen {
	if fx.row {
		return f.Used.OuterWidth()
	}
	return f.Used.OuterHeight()
}

// linesCross returns the sum of the cross sizes of all lines.
func (fx *flexer) linesCross() dimen.Dimen {
	sum := fx.crossGap * dimen.Dimen(max(len(fx.lines)-1, 0))
	for _, l := range fx.lines {
		sum += l.cross
	}
	return sum
}

// distribute returns the offset of the first of n subjects and the extra
// space between subjects for a distributed alignment of free space.
func distribute(a style.Alignment, free dimen.Dimen, n int) (lead, between dimen.Dimen) {
	if free < 0 {
		switch a {
		case style.AlignSpaceBetween:
			a = style.AlignStart
		case style.AlignSpaceAround, style.AlignSpaceEvenly:
			a = style.AlignCenter
		}
	}
	switch a {
	case style.AlignEnd:
		return free, 0
	case style.AlignCenter:
		return free / 2, 0
	case style.AlignSpaceBetween:
		if n > 1 {
			return 0, free / dimen.Dimen(n-1)
		}
	case style.AlignSpaceAround:
		if n > 0 {
			return free / dimen.Dimen(2*n), free / dimen.Dimen(n)
		}
	case style.AlignSpaceEvenly:
		return free / dimen.Dimen(n+1), free / dimen.Dimen(n+1)
	}
	return 0, 0
}

// alignContent positions the lines along the cross axis.
func (fx *flexer) alignContent() {
	free := dimen.Dimen(0)
	if fx.crossSize != dimen.Infinity {
		free = fx.crossSize - fx.linesCross()
	}
	a := fx.st.AlignContent
	if (a == style.AlignNormal || a == style.AlignStretch || a == style.AlignAuto) &&
		free > 0 && len(fx.lines) > 0 {
		n := dimen.Dimen(len(fx.lines))
		for i, l := range fx.lines {
			l.cross += free / n
			if i == len(fx.lines)-1 {
				l.cross += free % n
			}
		}
		free = 0
	}
	lead, between := distribute(a, free, len(fx.lines))
	pos := lead
	for _, l := range fx.lines {
		l.pos = pos
		pos += l.cross + fx.crossGap + between
	}
	if fx.st.FlexWrap == style.WrapReverse && fx.crossSize != dimen.Infinity {
		for _, l := range fx.lines {
			l.pos = fx.crossSize - l.pos - l.cross
		}
	}
}

// stretch lays out again the items which stretch to the cross size of their
// line.
func (fx *flexer) stretch() {
	for _, line := range fx.lines {
		for _, it := range line.items {
			st := it.st
			if alignSelf(st, fx.st) != style.AlignStretch {
				continue
			}
			u := &it.frag.Used
			if fx.row {
				if !st.Height.IsAuto() || st.Margin[frame.Top].IsAuto() || st.Margin[frame.Bottom].IsAuto() {
					continue
				}
				h := fx.clampCross(it, line.cross-u.Margin[frame.Top]-u.Margin[frame.Bottom]-u.InnerHeight())
				if h != u.H {
					it.frag = fx.lc.layoutItem(it.box, fx.icb, it.main, h, true)
				}
				continue
			}
			if !st.Width.IsAuto() || st.Margin[frame.Left].IsAuto() || st.Margin[frame.Right].IsAuto() {
				continue
			}
			w := fx.clampCross(it, line.cross-u.Margin[frame.Left]-u.Margin[frame.Right]-u.InnerWidth())
			if w != u.W {
				it.frag = fx.lc.layoutItem(it.box, fx.icb, w, it.main, true)
			}
		}
	}
}

// justify distributes the free space of a line along the main axis and
// aligns each item within the line along the cross axis. Auto margins
// absorb free space before justify-content does.
func (fx *flexer) justify(line *flexLine, put func(it *flexItem, mainPos, crossPos dimen.Dimen)) {
	startM, endM := frame.Left, frame.Right
	crossStart, crossEnd := frame.Top, frame.Bottom
	if !fx.row {
		startM, endM, crossStart, crossEnd = frame.Top, frame.Bottom, frame.Left, frame.Right
	}
	free := fx.mainSize - fx.mainGap*dimen.Dimen(max(len(line.items)-1, 0))
	autos := 0
	for _, it := range line.items {
		free -= fx.outerMain(it.frag)
		if it.st.Margin[startM].IsAuto() {
			autos++
		}
		if it.st.Margin[endM].IsAuto() {
			autos++
		}
	}
	var lead, between, share dimen.Dimen
	if autos > 0 && free > 0 {
		share = free / dimen.Dimen(autos)
	} else {
		lead, between = distribute(fx.st.JustifyContent, free, len(line.items))
	}
	pos := lead
	for _, it := range line.items {
		u := &it.frag.Used
		if share > 0 {
			if it.st.Margin[startM].IsAuto() {
				u.Margin[startM] += share
			}
			if it.st.Margin[endM].IsAuto() {
				u.Margin[endM] += share
			}
		}
		outer := fx.outerMain(it.frag)
		mainPos := pos
		if fx.reverse {
			mainPos = fx.mainSize - pos - outer
		}
		pos += outer + fx.mainGap + between
		// cross axis
		cfree := line.cross - fx.outerCross(it.frag)
		var off dimen.Dimen
		autoS, autoE := it.st.Margin[crossStart].IsAuto(), it.st.Margin[crossEnd].IsAuto()
		switch a := alignSelf(it.st, fx.st); {
		case (autoS || autoE) && cfree > 0:
			switch {
			case autoS && autoE:
				off = cfree / 2
			case autoS:
				off = cfree
			}
		case a == style.AlignEnd:
			off = cfree
		case a == style.AlignCenter:
			off = cfree / 2
		case a == style.AlignBaseline && fx.row:
			off = line.base - u.Margin[frame.Top] - it.frag.Baseline
		}
		if fx.st.FlexWrap == style.WrapReverse {
			off = cfree - off
		}
		put(it, mainPos, line.pos+off)
	}
}

// flexSizes returns the intrinsic widths of a flex container's content.
func (lc *Context) flexSizes(id frame.BoxID) sizes {
	box := lc.tree.Box(id)
	st := box.Style
	var s sizes
	n := 0
	for _, c := range box.Children {
		if !lc.tree.Box(c).IsInFlow() {
			continue
		}
		o := lc.outerSizes(c)
		if st.FlexDirection.IsColumn() {
			s = s.union(o)
			continue
		}
		if st.FlexWrap == style.NoWrap {
			s.min += o.min
		} else {
			s.min = max(s.min, o.min)
		}
		s.max += o.max
		n++
	}
	if n > 1 {
		gap := resolveGap(st.ColumnGap, dimen.Infinity) * dimen.Dimen(n-1)
		s.max += gap
		if st.FlexWrap == style.NoWrap {
			s.min += gap
		}
	}
	return s
}
