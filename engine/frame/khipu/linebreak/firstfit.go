/*
Package linebreak breaks khipus into lines.

The breaker is a first-fit breaker: it fills a line with knots as long as
they fit and breaks at the last opportunity seen. If a line does not
contain any opportunity, the breaker falls back to emergency breaks
between grapheme clusters. Every line consumes at least one cluster of
text, so breaking a khipu always terminates.

Lines are addressed by positions in the khipu text. A line may start and
end in the middle of a text knot.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package linebreak

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame/khipu"
)

// tracer traces with key 'folio.khipu'.
func tracer() tracing.Trace {
	return tracing.Select("folio.khipu")
}

// Line is the result of breaking a single line.
type Line struct {
	Start, End int         // knots [Start, End) of the khipu; first and last may be partial
	From, To   int         // text positions [From, To)
	Width      dimen.Dimen // natural width, without trailing glue
	Stretch    dimen.Dimen // total stretchability of inner glue
	Shrink     dimen.Dimen // total shrinkability of inner glue
	Hyphen     bool        // line ends at a discretionary and shows a hyphen
	Forced     bool        // line ends at a forced break
	Emergency  bool        // line has been broken without an opportunity
	Last       bool        // line ends at the end of the khipu
}

func (l Line) String() string {
	flags := ""
	switch {
	case l.Forced:
		flags = " forced"
	case l.Hyphen:
		flags = " hyphen"
	case l.Emergency:
		flags = " emergency"
	case l.Last:
		flags = " last"
	}
	return fmt.Sprintf("line[%d,%d)@[%d,%d) w=%v%s", l.Start, l.End, l.From, l.To, l.Width, flags)
}

// KnotWidth returns the width of knot i of a khipu, counting only the part
// of a text knot within the text positions [from, to).
func KnotWidth(kh *khipu.Khipu, i int, from, to int) dimen.Dimen {
	k := kh.At(i)
	if k.Type != khipu.KTTextBox || k.Run < 0 || (from <= k.Start && to >= k.End) {
		if k.Type == khipu.KTDiscretionary {
			return 0 // hyphen width counts at the end of a line only
		}
		return k.Width
	}
	run := kh.Runs()[k.Run]
	s, e := k.Start, k.End
	if from > s {
		s = from
	}
	if to < e {
		e = to
	}
	return run.Measurement.WidthOf(s-run.Start, e-run.Start)
}

// linestate accumulates the widths of a line under construction.
type linestate struct {
	w, stretch, shrink      dimen.Dimen
	trail, trailSt, trailSh dimen.Dimen // trailing glue
}

func (ls *linestate) addGlue(k khipu.Knot) {
	ls.w += k.Width
	ls.stretch += k.Stretch
	ls.shrink += k.Shrink
	ls.trail += k.Width
	ls.trailSt += k.Stretch
	ls.trailSh += k.Shrink
}

func (ls *linestate) addBox(w dimen.Dimen) {
	ls.w += w
	ls.trail, ls.trailSt, ls.trailSh = 0, 0, 0
}

func (ls *linestate) line(l Line) Line {
	l.Width = ls.w - ls.trail
	l.Stretch = ls.stretch - ls.trailSt
	l.Shrink = ls.shrink - ls.trailSh
	return l
}

// FirstFit breaks the next line from text position from, for a line of
// width avail. Discardable knots at the start of the line are skipped.
//
// The returned line always makes progress: To > From, unless the line is
// the last one. A line may be wider than avail if a single cluster does
// not fit.
func FirstFit(kh *khipu.Khipu, from int, avail dimen.Dimen) Line {
	n := kh.Length()
	i := kh.KnotAt(from)
	for i < n && kh.At(i).IsDiscardable() && !kh.At(i).IsForced() {
		i++
	}
	line := Line{Start: i, From: from}
	if i < n && kh.At(i).Start > from {
		line.From = kh.At(i).Start
	}
	var ls linestate
	var best Line
	found := false
	for j := i; j < n; j++ {
		k := kh.At(j)
		switch k.Type {
		case khipu.KTGlue:
			ls.addGlue(k)
			continue
		case khipu.KTPenalty, khipu.KTDiscretionary:
			if k.IsForced() {
				l := ls.line(line)
				l.End, l.To, l.Forced = j+1, k.End, true
				return absorbClosing(kh, l)
			}
			if !k.IsBreak() || k.End <= line.From {
				continue
			}
			l := ls.line(line)
			l.End, l.To = j+1, k.End
			if k.Type == khipu.KTDiscretionary {
				l.Width += k.Width
				l.Hyphen = true
			}
			if l.Width <= avail {
				best, found = l, true
			} else if found {
				return absorbClosing(kh, best)
			}
			continue
		case khipu.KTAnchor:
			continue
		}
		kw := KnotWidth(kh, j, line.From, kh.TextLength())
		if ls.w+kw <= avail {
			ls.addBox(kw)
			continue
		}
		// knot j overflows the line
		if found {
			tracer().Debugf("break at opportunity: %v", best)
			return absorbClosing(kh, best)
		}
		return emergency(kh, line, &ls, j, avail)
	}
	l := ls.line(line)
	l.End, l.To, l.Last = n, kh.TextLength(), true
	return l
}

// absorbClosing extends a line over closing inline knots directly
// following its end. They belong to the line's last inline box.
func absorbClosing(kh *khipu.Khipu, l Line) Line {
	for l.End < kh.Length() && kh.At(l.End).Type == khipu.KTClose {
		l.Width += kh.At(l.End).Width
		l.End++
	}
	if l.End >= kh.Length() && l.To >= kh.TextLength() {
		l.Last = true
	}
	return l
}

// emergency breaks a line without an opportunity, at knot j which does not
// fit into the line. It takes the longest prefix of clusters of j which fits.
// If there is none, the line is broken before j, if that makes progress.
// Otherwise the line takes a single cluster (or knot) and overflows.
func emergency(kh *khipu.Khipu, line Line, ls *linestate, j int, avail dimen.Dimen) Line {
	k := kh.At(j)
	start := k.Start
	if start < line.From {
		start = line.From
	}
	line.Emergency = true
	if k.Type == khipu.KTTextBox && k.Run >= 0 {
		run := kh.Runs()[k.Run]
		m := run.Measurement
		fit, first := -1, -1
		for _, c := range m.Clusters {
			pos := run.Start + c.Offset
			if pos <= start {
				continue
			}
			if pos > k.End {
				break
			}
			if first < 0 {
				first = pos
			}
			if ls.w+m.WidthOf(start-run.Start, pos-run.Start) <= avail {
				fit = pos
			} else {
				break
			}
		}
		if first < 0 || first > k.End {
			first = k.End
		}
		if fit > start {
			ls.addBox(m.WidthOf(start-run.Start, fit-run.Start))
			l := ls.line(line)
			l.End, l.To = j+1, fit
			tracer().Debugf("emergency break inside knot %d: %v", j, l)
			return l
		}
		if start > line.From {
			return breakBefore(kh, line, ls, j, start)
		}
		// single cluster
		ls.addBox(m.WidthOf(start-run.Start, first-run.Start))
		l := ls.line(line)
		l.End, l.To = j+1, first
		if first >= k.End && j+1 >= kh.Length() {
			l.Last = true
		}
		return l
	}
	if start > line.From {
		return breakBefore(kh, line, ls, j, start)
	}
	ls.addBox(k.Width)
	l := ls.line(line)
	l.End, l.To = j+1, k.End
	return absorbClosing(kh, l)
}

// breakBefore ends a line before knot j at text position pos. Opening
// knots at the end of the line move to the next line.
func breakBefore(kh *khipu.Khipu, line Line, ls *linestate, j int, pos int) Line {
	l := ls.line(line)
	l.End, l.To = j, pos
	for l.End-1 > l.Start && kh.At(l.End-1).Type == khipu.KTOpen {
		l.End--
		l.Width -= kh.At(l.End).Width
	}
	return l
}
