package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/frame/khipu/linebreak"
	"github.com/npillmayer/folio/engine/style"
)

// layoutRun lays out the inline-level children kids[i:j] of a flow as a
// sequence of line boxes, starting at text position from. If the run is
// complete, layoutRun returns true. Otherwise the flow ends, either with a
// resume position inside the run or before it.
func (fl *flow) layoutRun(i, j, from int) (flowEnd, bool) {
	lc := fl.lc
	st := fl.box.Style
	atomics := make(map[frame.BoxID]*frame.Fragment)
	kh := lc.encoder(fl.cb.W, atomics).Encode(fl.kids[i:j])
	if from > kh.TextLength() {
		from = kh.TextLength()
	}
	lb := &lineBuilder{
		fl:      fl,
		kh:      kh,
		atomics: atomics,
		run:     i,
		done:    make(map[int]bool),
	}
	pl := placement{child: i, frags: len(fl.frag.Children)}
	first := fl.req.empty && !fl.any // run starts the fragmentainer
	var indent dimen.Dimen
	if fl.indent && from == 0 {
		indent, _ = frame.ResolveLength(st.TextIndent, fl.cb.W, fl.cb.W != dimen.Infinity)
	}
	lh := lc.lineHeight(st)
	pos := from
	y := fl.y + fl.strut.solve()
	for kh.KnotAt(pos) < kh.Length() {
		if lc.aborted() {
			break
		}
		mark := lineMark{frags: len(fl.frag.Children), offset: pos}
		lb.leadingAnchors(pos, y)
		l, ly, x0, x1 := fl.breakLine(kh, pos, y, indent, lh)
		line := lb.build(l, pos, ly, x0, x1, indent)
		if line != nil {
			if len(pl.lines) == 0 {
				fl.resolveStrut()
			}
			if fl.req.limited() && line.Used.Y+line.Used.H > fl.req.limit && !(first && len(pl.lines) == 0) {
				fl.frag.Children = fl.frag.Children[:mark.frags]
				return fl.breakLines(&pl, mark, kh, first), false
			}
			fl.frag.Add(line)
			pl.lines = append(pl.lines, mark)
			y = line.Used.Y + line.Used.H
			indent = 0
			lb.trailingAnchors(line.Used.Y, y)
		} else {
			lb.trailingAnchors(ly, ly)
		}
		if l.Last || l.To <= pos {
			break
		}
		pos = l.To
	}
	if len(pl.lines) > 0 {
		fl.y, fl.strut = y, collapse{}
		fl.any, fl.indent = true, false
	}
	fl.after = style.BreakAuto
	fl.placed = append(fl.placed, pl)
	return flowEnd{}, true
}

// breakLines ends a flow inside or before an inline run whose next line
// does not fit. The break point honours orphans and widows, if possible.
func (fl *flow) breakLines(pl *placement, mark lineMark, kh *khipu.Khipu, first bool) flowEnd {
	st := fl.box.Style
	n := len(pl.lines)
	b := n
	if n > 0 && !fl.req.relax {
		orphans, widows := fl.lc.orphans(st), fl.lc.widows(st)
		rest := countLines(kh, mark.offset, fl.right-fl.left, widows)
		for b > 0 && (n-b)+rest < widows {
			b--
		}
		if b < orphans {
			b = 0
		}
		if b == 0 && first {
			tracer().Infof("cannot honour orphans/widows at the top of a fragmentainer")
			b = n
		}
	}
	if b == 0 {
		fl.frag.Children = fl.frag.Children[:pl.frags]
		if !fl.any {
			return flowEnd{noFit: true}
		}
		return fl.breakBefore(pl.child, style.BreakAuto)
	}
	if b < n {
		mark = pl.lines[b]
		fl.frag.Children = fl.frag.Children[:mark.frags]
		pl.lines = pl.lines[:b]
	}
	fl.placed = append(fl.placed, *pl)
	fl.any = true
	tracer().Debugf("break inside inline run of %v after %d lines", fl.box, b)
	return flowEnd{resume: frame.Resume{{Box: fl.box.ID, Child: pl.child, Offset: mark.offset}}}
}

// countLines counts the lines from text position pos, up to limit.
func countLines(kh *khipu.Khipu, pos int, w dimen.Dimen, limit int) int {
	n := 0
	for n < limit && kh.KnotAt(pos) < kh.Length() {
		l := linebreak.FirstFit(kh, pos, w)
		n++
		if l.Last || l.To <= pos {
			break
		}
		pos = l.To
	}
	return n
}

// breakLine breaks the next line at vertical position y. If the line does
// not fit beside the floats at y, it is moved down to the first band where
// it fits.
func (fl *flow) breakLine(kh *khipu.Khipu, pos int, y, indent, lh dimen.Dimen) (linebreak.Line, dimen.Dimen, dimen.Dimen, dimen.Dimen) {
	space := fl.bfc.space
	x0, x1 := space.Available(y, lh, fl.left, fl.right)
	l := linebreak.FirstFit(kh, pos, x1-x0-indent)
	narrowed := x0 > fl.left || x1 < fl.right
	if narrowed && l.Width > x1-x0-indent {
		ny, nx0, nx1 := space.FindBand(y, l.Width+indent, lh, fl.left, fl.right)
		if ny > y {
			y, x0, x1 = ny, nx0, nx1
			l = linebreak.FirstFit(kh, pos, x1-x0-indent)
		}
	}
	return l, y, x0, x1
}

// --- Line boxes ------------------------------------------------------------

// lineBuilder turns lines of a khipu into line fragments.
type lineBuilder struct {
	fl      *flow
	kh      *khipu.Khipu
	atomics map[frame.BoxID]*frame.Fragment
	run     int           // index of the run's first child in the flow
	open    []frame.BoxID // inline boxes open at the start of the next line
	next    int           // first knot not yet seen
	done    map[int]bool  // anchor knots which have been handled
	pending []anchored    // anchors of the current line
}

// anchored is an out-of-flow box anchored in a line.
type anchored struct {
	box frame.BoxID
	x   dimen.Dimen
}

// lineItem is an inline-level fragment on a line, aligned vertically once
// the line is complete.
type lineItem struct {
	frag         *frame.Fragment
	atomic       bool
	shift        dimen.Dimen // baseline shift, positive downwards
	raise        dimen.Dimen // distance from the item's baseline up to its Used.Y
	above, below dimen.Dimen // layout bounds around the item's baseline
	valign       style.VerticalAlign
}

// inlineCtx is an inline box open on the line under construction.
type inlineCtx struct {
	id       frame.BoxID
	frag     *frame.Fragment
	st       *style.Style
	a, d     dimen.Dimen // font metrics
	shift    dimen.Dimen // baseline shift of its content
	fontsize dimen.Dimen
}

// leadingAnchors places the out-of-flow boxes anchored before the first
// content of the line starting at pos. Floats among them narrow that line.
func (lb *lineBuilder) leadingAnchors(pos int, y dimen.Dimen) {
	kh := lb.kh
	for k := kh.KnotAt(pos); k < kh.Length(); k++ {
		kn := kh.At(k)
		if kn.Type == khipu.KTTextBox || kn.Type == khipu.KTBox {
			break
		}
		if kn.Type == khipu.KTAnchor && !lb.done[k] {
			lb.done[k] = true
			lb.fl.anchor(kn.Box, lb.fl.left, y)
		}
	}
}

// trailingAnchors places the out-of-flow boxes anchored inside the line
// just built. Floats go below the line.
func (lb *lineBuilder) trailingAnchors(top, bottom dimen.Dimen) {
	for _, a := range lb.pending {
		if lb.fl.lc.tree.Style(a.box).IsFloating() {
			lb.fl.anchor(a.box, a.x, bottom)
		} else {
			lb.fl.anchor(a.box, a.x, top)
		}
	}
	lb.pending = lb.pending[:0]
}

// anchor places an out-of-flow box at its static position.
func (fl *flow) anchor(id frame.BoxID, x, y dimen.Dimen) {
	st := fl.lc.tree.Style(id)
	switch {
	case st.IsFloating():
		fl.placeFloat(id, y)
	case st.IsFootnote():
		fl.placeFootnote(id, x, y)
	default:
		fl.placeAbsolute(id, x, y)
	}
}

// build creates the fragment for a line, or nil if the line has no content.
func (lb *lineBuilder) build(l linebreak.Line, pos int, y, x0, x1, indent dimen.Dimen) *frame.Fragment {
	fl, kh := lb.fl, lb.kh
	lc := fl.lc
	st := fl.box.Style
	for k := lb.next; k < l.Start; k++ { // knots skipped between lines
		lb.track(kh.At(k))
	}
	if l.End > lb.next {
		lb.next = l.End
	}
	line := frame.NewFragment(fl.box.ID, frame.Line, frame.Used{X: x0, Y: y, W: x1 - x0})
	line.LineStart = frame.ResumeStep{Box: fl.box.ID, Child: lb.run, Offset: pos}
	//
	extra := x1 - x0 - indent - l.Width
	justify := st.TextAlign == style.TextAlignJustify && !l.Last && !l.Forced
	pen := x0 + indent
	switch st.TextAlign {
	case style.TextAlignEnd:
		pen += dimen.NonNegative(extra)
	case style.TextAlignCenter:
		pen += dimen.NonNegative(extra) / 2
	}
	ca, cd := lc.fontMetrics(st)
	root := inlineCtx{frag: line, st: st, a: ca, d: cd, fontsize: st.FontSize}
	var stack []*inlineCtx
	parent := func() *inlineCtx {
		if len(stack) > 0 {
			return stack[len(stack)-1]
		}
		return &root
	}
	var items []lineItem
	for _, id := range lb.open {
		ic := lb.openInline(id, pen, parent(), true)
		stack = append(stack, ic)
		items = append(items, lb.inlineItem(ic))
	}
	last := lastContent(kh, l)
	hyphen := -1
	if l.Hyphen {
		for k := l.End - 1; k >= l.Start; k-- {
			if kh.At(k).Type == khipu.KTDiscretionary {
				hyphen = k
				break
			}
		}
	}
	content := false
	var cur *frame.Fragment // text fragment to extend
	curRun, curEnd := -1, 0
	for k := l.Start; k < l.End; k++ {
		kn := kh.At(k)
		switch kn.Type {
		case khipu.KTOpen:
			cur = nil
			ic := lb.openInline(kn.Box, pen, parent(), false)
			stack = append(stack, ic)
			items = append(items, lb.inlineItem(ic))
			pen += kn.Width
			content = content || kn.Width > 0
		case khipu.KTClose:
			cur = nil
			if n := len(stack); n > 0 && stack[n-1].id == kn.Box {
				f := stack[n-1].frag
				f.Used.W = dimen.NonNegative(pen - f.Used.ContentX())
				stack = stack[:n-1]
			}
			pen += kn.Width
			content = content || kn.Width > 0
		case khipu.KTAnchor:
			if !lb.done[k] {
				lb.done[k] = true
				lb.pending = append(lb.pending, anchored{box: kn.Box, x: pen})
			}
		case khipu.KTGlue, khipu.KTKern:
			if k > last {
				continue
			}
			w := kn.Width
			if justify {
				w += glueAdjust(kn, extra, l)
			}
			if cur != nil && kn.Run == curRun && kn.Start == curEnd {
				cur.Used.W += w
				cur.Text.End += kn.End - kn.Start
				curEnd = kn.End
			} else {
				cur = nil
			}
			pen += w
		case khipu.KTDiscretionary:
			if k == hyphen {
				if cur != nil {
					cur.Text.Hyphen = true
					cur.Used.W += kn.Width
				}
				pen += kn.Width
			}
		case khipu.KTTextBox:
			s, e := max(kn.Start, l.From), min(kn.End, l.To)
			if e <= s {
				continue
			}
			content = true
			w := linebreak.KnotWidth(kh, k, l.From, l.To)
			if cur != nil && kn.Run == curRun && s == curEnd {
				cur.Used.W += w
				cur.Text.End += e - s
			} else {
				run := kh.Runs()[kn.Run]
				cur = frame.NewFragment(run.Box, frame.Text, frame.Used{X: pen, W: w})
				cur.Text = &frame.TextSlice{Start: s - run.Start, End: e - run.Start}
				p := parent()
				p.frag.Add(cur)
				items = append(items, lb.textItem(cur, run.Box, p))
				curRun = kn.Run
			}
			curEnd = e
			pen += w
		case khipu.KTBox:
			cur = nil
			f := lb.atomics[kn.Box]
			if f == nil {
				continue
			}
			content = true
			f.Translate(pen-f.Used.X, 0)
			p := parent()
			p.frag.Add(f)
			items = append(items, lb.atomicItem(f, p))
			pen += kn.Width
		}
	}
	lb.open = lb.open[:0]
	for _, ic := range stack { // boxes continuing on the next line
		f := ic.frag
		if ic.st.BoxDecorationBreak == style.DecorationSlice {
			f.Used.Margin[frame.Right], f.Used.Border[frame.Right], f.Used.Padding[frame.Right] = 0, 0, 0
		}
		f.Used.W = dimen.NonNegative(pen - f.Used.ContentX())
		f.ContinuedAfter = true
		lb.open = append(lb.open, ic.id)
	}
	if !content {
		return nil
	}
	lb.alignVertically(line, &root, items)
	return line
}

// track keeps the stack of open inline boxes up to date for knots which are
// not part of any line.
func (lb *lineBuilder) track(kn khipu.Knot) {
	switch kn.Type {
	case khipu.KTOpen:
		lb.open = append(lb.open, kn.Box)
	case khipu.KTClose:
		if n := len(lb.open); n > 0 && lb.open[n-1] == kn.Box {
			lb.open = lb.open[:n-1]
		}
	}
}

// lastContent returns the index of the last knot of a line which is not
// trailing white space.
func lastContent(kh *khipu.Khipu, l linebreak.Line) int {
	for k := l.End - 1; k >= l.Start; k-- {
		switch kh.At(k).Type {
		case khipu.KTTextBox, khipu.KTBox, khipu.KTOpen, khipu.KTClose:
			return k
		}
	}
	return l.Start - 1
}

// glueAdjust returns the share of a justified line's extra width for a
// glue knot.
func glueAdjust(kn khipu.Knot, extra dimen.Dimen, l linebreak.Line) dimen.Dimen {
	switch {
	case extra > 0 && l.Stretch > 0:
		return dimen.MulDiv(extra, int64(kn.Stretch), int64(l.Stretch))
	case extra < 0 && l.Shrink > 0:
		return dimen.MulDiv(dimen.Max(extra, -l.Shrink), int64(kn.Shrink), int64(l.Shrink))
	}
	return 0
}

// openInline creates the fragment of an inline box on the current line.
// Continued boxes lose their start edges if decorations are sliced.
func (lb *lineBuilder) openInline(id frame.BoxID, pen dimen.Dimen, parent *inlineCtx, continued bool) *inlineCtx {
	lc := lb.fl.lc
	st := lc.tree.Style(id)
	var u frame.Used
	base := lb.fl.cb.W
	frame.ResolveEdges(st, frame.CBIndefinite(base), &u)
	u.Margin[frame.Left], _ = frame.ResolveLength(st.Margin[frame.Left], base, base != dimen.Infinity)
	u.Margin[frame.Right], _ = frame.ResolveLength(st.Margin[frame.Right], base, base != dimen.Infinity)
	u.Margin[frame.Top], u.Margin[frame.Bottom] = 0, 0
	if continued && st.BoxDecorationBreak == style.DecorationSlice {
		u.Margin[frame.Left], u.Border[frame.Left], u.Padding[frame.Left] = 0, 0, 0
	}
	u.X = pen
	f := frame.NewFragment(id, frame.Inline, u)
	f.ContinuedBefore = continued
	parent.frag.Add(f)
	a, d := lc.fontMetrics(st)
	ic := &inlineCtx{id: id, frag: f, st: st, a: a, d: d, fontsize: st.FontSize}
	ic.shift = parent.shift + lb.shiftOf(st, a, d, parent)
	return ic
}

// shiftOf returns the baseline shift of an inline-level box with ascent a
// and descent d against the baseline of its parent.
func (lb *lineBuilder) shiftOf(st *style.Style, a, d dimen.Dimen, parent *inlineCtx) dimen.Dimen {
	switch st.VerticalAlign {
	case style.VAlignSub:
		return parent.fontsize / 5
	case style.VAlignSuper:
		return -parent.fontsize / 3
	case style.VAlignTextTop:
		return a - parent.a
	case style.VAlignTextBottom:
		return parent.d - d
	case style.VAlignMiddle:
		return (a-d)/2 - parent.fontsize/4
	case style.VAlignLength:
		v, _ := frame.ResolveLength(st.VerticalAlignLength, lb.fl.lc.lineHeight(st), true)
		return -v
	}
	return 0
}

// halfLeading returns the layout bounds of a box's strut.
func (lb *lineBuilder) halfLeading(st *style.Style, a, d dimen.Dimen) (above, below dimen.Dimen) {
	lead := lb.fl.lc.lineHeight(st) - a - d
	above = a + lead/2
	return above, lead - lead/2 + d
}

func (lb *lineBuilder) inlineItem(ic *inlineCtx) lineItem {
	above, below := lb.halfLeading(ic.st, ic.a, ic.d)
	u := &ic.frag.Used
	u.H = ic.a + ic.d
	ic.frag.Baseline = u.Border[frame.Top] + u.Padding[frame.Top] + ic.a
	return lineItem{
		frag:   ic.frag,
		shift:  ic.shift,
		raise:  ic.a + u.Border[frame.Top] + u.Padding[frame.Top],
		above:  above,
		below:  below,
		valign: style.VAlignBaseline,
	}
}

func (lb *lineBuilder) textItem(f *frame.Fragment, box frame.BoxID, parent *inlineCtx) lineItem {
	st := lb.fl.lc.tree.Style(box)
	a, d := lb.fl.lc.fontMetrics(st)
	above, below := lb.halfLeading(st, a, d)
	f.Used.H, f.Baseline = a+d, a
	return lineItem{frag: f, shift: parent.shift, raise: a, above: above, below: below}
}

func (lb *lineBuilder) atomicItem(f *frame.Fragment, parent *inlineCtx) lineItem {
	st := lb.fl.lc.tree.Style(f.Box)
	b := atomicBaseline(f)
	h := f.Used.OuterHeight()
	it := lineItem{frag: f, atomic: true, raise: b, above: b, below: h - b, valign: st.VerticalAlign}
	if st.VerticalAlign != style.VAlignTop && st.VerticalAlign != style.VAlignBottom {
		it.shift = parent.shift + lb.shiftOf(st, b, h-b, parent)
	}
	return it
}

// alignVertically calculates the height and baseline of a line from its
// items and moves the items into place.
//
// “The line box height is the distance between the uppermost box top and
// the lowermost box bottom.” Boxes aligned to the top or bottom of the line
// box are aligned last.
func (lb *lineBuilder) alignVertically(line *frame.Fragment, root *inlineCtx, items []lineItem) {
	above, below := lb.halfLeading(root.st, root.a, root.d)
	for _, it := range items {
		if it.valign == style.VAlignTop || it.valign == style.VAlignBottom {
			continue
		}
		above = dimen.Max(above, it.above-it.shift)
		below = dimen.Max(below, it.below+it.shift)
	}
	h := above + below
	for _, it := range items {
		if it.valign == style.VAlignTop || it.valign == style.VAlignBottom {
			h = dimen.Max(h, it.above+it.below)
		}
	}
	y := line.Used.Y
	baseline := y + above
	for _, it := range items {
		var b dimen.Dimen
		switch it.valign {
		case style.VAlignTop:
			b = y + it.above
		case style.VAlignBottom:
			b = y + h - it.below
		default:
			b = baseline + it.shift
		}
		if it.atomic {
			it.frag.Translate(0, b-it.raise-it.frag.Used.Y)
		} else {
			it.frag.Used.Y = b - it.raise
		}
	}
	line.Used.H = h
	line.Baseline = above
}

// --- Atomic inlines --------------------------------------------------------

// layoutAtomic lays out an atomic inline at the origin, with its
// shrink-to-fit width for a containing block of width base.
func (lc *Context) layoutAtomic(id frame.BoxID, base dimen.Dimen) *frame.Fragment {
	return lc.layoutShrunk(id, frame.CBIndefinite(base))
}

// atomicBaseline returns the baseline of an atomic inline, measured from
// the top of its margin box: the baseline of its last line, or the bottom
// margin edge if there is none.
func atomicBaseline(f *frame.Fragment) dimen.Dimen {
	if f.Kind == frame.Replaced {
		return f.Used.OuterHeight()
	}
	var last *frame.Fragment
	f.Walk(func(c *frame.Fragment) bool {
		if c.Kind == frame.Line {
			last = c
			return false
		}
		return true
	})
	if last == nil {
		return f.Used.OuterHeight()
	}
	return last.Used.Y + last.Baseline - f.Used.Y
}
