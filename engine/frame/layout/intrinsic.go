package layout

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/frame/khipu/linebreak"
)

// sizes are the intrinsic widths of a box: its min-content and max-content
// width.
type sizes struct {
	min, max dimen.Dimen
}

func (s sizes) add(o sizes) sizes {
	return sizes{min: s.min + o.min, max: s.max + o.max}
}

func (s sizes) union(o sizes) sizes {
	return sizes{min: dimen.Max(s.min, o.min), max: dimen.Max(s.max, o.max)}
}

// indefinite is the containing block for intrinsic sizing. Percentages are
// not resolvable against it.
var indefinite = frame.CBIndefinite(dimen.Infinity)

// ContentSizes returns the min-content and max-content width of the content
// box of a box.
func (lc *Context) ContentSizes(id frame.BoxID) (minContent, maxContent dimen.Dimen) {
	s := lc.contentSizes(id)
	return s.min, s.max
}

// contentSizes returns the intrinsic widths of a box's content box. Results
// are cached per box: they do not depend on the containing block.
func (lc *Context) contentSizes(id frame.BoxID) sizes {
	if s, ok := lc.sizes[id]; ok {
		return s
	}
	var s sizes
	switch ContextFor(lc.tree, id) {
	case FCReplaced:
		w, _ := lc.replacedSize(id, indefinite)
		s = sizes{w, w}
	case FCTable:
		s = lc.tableSizes(id)
	case FCFlex:
		s = lc.flexSizes(id)
	case FCGrid:
		s = lc.gridSizes(id)
	case FCMultiColumn:
		s = lc.columnSizes(id)
	default:
		s = lc.flowSizes(id)
	}
	if s.max < s.min {
		s.max = s.min
	}
	lc.sizes[id] = s
	return s
}

// outerSizes returns the contribution of a box to the intrinsic widths of
// its parent: the widths of its margin box.
func (lc *Context) outerSizes(id frame.BoxID) sizes {
	box := lc.tree.Box(id)
	st := box.Style
	var u frame.Used
	frame.ResolveEdges(st, indefinite, &u)
	inner := u.InnerWidth()
	edges := inner + frame.ResolveMargin(st, indefinite, frame.Left) +
		frame.ResolveMargin(st, indefinite, frame.Right)
	var s sizes
	if w, ok := frame.SpecifiedWidth(st, indefinite, inner); ok && box.Kind != frame.Replaced {
		s = sizes{w, w}
	} else {
		s = lc.contentSizes(id)
	}
	s.min = frame.ClampWidth(st, indefinite, s.min, inner)
	s.max = frame.ClampWidth(st, indefinite, s.max, inner)
	return sizes{s.min + edges, s.max + edges}
}

// flowSizes returns the intrinsic widths of a block container: the largest
// contribution of a block-level child or of a run of inline content.
func (lc *Context) flowSizes(id frame.BoxID) sizes {
	box := lc.tree.Box(id)
	kids := box.Children
	if box.Kind == frame.Text {
		kids = []frame.BoxID{id}
	}
	fl := &flow{lc: lc, box: box, kids: kids}
	var s sizes
	for i := 0; i < len(kids); {
		if j := fl.runEnd(i); j > i {
			s = s.union(lc.runSizes(kids[i:j]))
			i = j
			continue
		}
		c := lc.tree.Box(kids[i])
		if c.IsInFlow() || c.Style.IsFloating() {
			s = s.union(lc.outerSizes(c.ID))
		}
		i++
	}
	return s
}

// runSizes returns the intrinsic widths of a run of inline content. The run
// is encoded twice, with atomic inlines at their min-content and at their
// max-content widths.
func (lc *Context) runSizes(boxes []frame.BoxID) sizes {
	enc := func(max bool) *khipu.Khipu {
		e := &khipu.Encoder{
			Tree:    lc.tree,
			Measure: lc.measure,
			Base:    dimen.Infinity,
			Atomic: func(id frame.BoxID) (w, h, baseline dimen.Dimen) {
				s := lc.outerSizes(id)
				if max {
					return s.max, 0, 0
				}
				return s.min, 0, 0
			},
		}
		return e.Encode(boxes)
	}
	return sizes{
		min: linebreak.MinContent(enc(false)),
		max: linebreak.MaxContent(enc(true)),
	}
}
