package layout

import (
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// band is a horizontal stripe of the items of a flex or grid container. No
// item crosses the top or bottom edge of a band, so a band moves to the
// next fragmentainer as a whole. Flex lines of row containers, items of
// column containers and grid rows (joined by spanning items) form bands.
type band struct {
	top, bottom dimen.Dimen // margin edges of the items
	items       []*frame.Fragment
}

// bandsOf groups item fragments into bands, top to bottom.
func bandsOf(items []*frame.Fragment) []*band {
	sorted := make([]*frame.Fragment, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Used.Y < sorted[j].Used.Y
	})
	var bands []*band
	for _, f := range sorted {
		top, bottom := f.Used.Y, f.Used.Y+f.Used.OuterHeight()
		if n := len(bands); n > 0 && top < bands[n-1].bottom {
			b := bands[n-1]
			b.items = append(b.items, f)
			b.bottom = max(b.bottom, bottom)
			continue
		}
		bands = append(bands, &band{top: top, bottom: bottom, items: []*frame.Fragment{f}})
	}
	return bands
}

// continuation drops the top edges of a container which continues a
// fragment of an earlier fragmentainer. It has to be called before the
// container is placed.
func continuation(req *request, st *style.Style, u *frame.Used) bool {
	if len(req.resume) == 0 {
		return false
	}
	u.Margin[frame.Top] = 0
	if st.BoxDecorationBreak == style.DecorationSlice {
		u.Border[frame.Top], u.Padding[frame.Top] = 0, 0
	}
	return true
}

// sliceBands fragments a flex or grid container between the bands of its
// items. f is the fragment of the container with every item laid out, as if
// unfragmented. The head of the request's resume marker holds the number of
// bands set in earlier fragmentainers; the resume marker of a broken
// fragment counts the bands set so far.
//
// Items themselves are monolithic. Out-of-flow placeholders stay with the
// first fragment of the container.
func (lc *Context) sliceBands(req *request, f *frame.Fragment, items []*frame.Fragment, top dimen.Dimen) result {
	st := lc.tree.Style(f.Box)
	u := &f.Used
	bands := bandsOf(items)
	skip := 0
	if head, ok := req.resume.Head(); ok {
		skip = min(head.Child, len(bands))
		f.ContinuedBefore = true
	}
	rest := bands[skip:]
	if skip > 0 {
		off := u.H
		if len(rest) > 0 {
			off = rest[0].top - u.ContentY()
		}
		for _, b := range rest {
			for _, it := range b.items {
				it.Translate(0, -off)
			}
			b.top, b.bottom = b.top-off, b.bottom-off
		}
		u.H = dimen.NonNegative(u.H - off)
		lc.keepBands(f, rest, false)
	}
	k, forced := len(rest), style.BreakAuto
	if req.limited() && len(rest) > 0 {
		k, forced = lc.bandBreak(req, rest)
		if k == 0 {
			if !req.empty {
				return noFit(style.BreakAuto)
			}
			tracer().Infof("band of %v overflows an empty fragmentainer", lc.tree.Box(f.Box))
			k = 1
		}
	}
	var res result
	if k < len(rest) {
		lc.keepBands(f, rest[:k], skip == 0)
		f.ContinuedAfter = true
		f.Resume = frame.Resume{{Box: f.Box, Child: skip + k}}
		u.Margin[frame.Bottom] = 0
		if st.BoxDecorationBreak == style.DecorationSlice {
			u.Border[frame.Bottom], u.Padding[frame.Bottom] = 0, 0
		}
		contentTop := u.ContentY()
		u.H = max(dimen.NonNegative(req.limit-contentTop-u.Border[frame.Bottom]-u.Padding[frame.Bottom]),
			rest[k-1].bottom-contentTop)
		tracer().Debugf("%v breaks before band %d", lc.tree.Box(f.Box), skip+k)
		res = result{frag: f, resume: f.Resume, top: top, bottom: u.BorderBottom(), forced: forced}
	} else {
		res = finish(f)
		res.top = top
	}
	if f.ContinuedBefore {
		f.Baseline = u.BorderBoxHeight()
		if len(rest) > 0 && len(rest[0].items) > 0 {
			first := rest[0].items[0]
			f.Baseline = first.Used.BorderTop() + first.Baseline - u.BorderTop()
		}
	}
	return res
}

// keepBands removes every item fragment which is not part of one of the
// bands from a container fragment. Other children are placeholders of
// out-of-flow boxes; they are kept if placeholders is set.
func (lc *Context) keepBands(f *frame.Fragment, bands []*band, placeholders bool) {
	items := make(map[*frame.Fragment]bool)
	for _, b := range bands {
		for _, it := range b.items {
			items[it] = true
		}
	}
	kept := f.Children[:0]
	for _, c := range f.Children {
		switch {
		case items[c]:
		case (c.Kind == frame.Absolute || c.Placeholder) && placeholders:
		default:
			delete(lc.held, c)
			continue
		}
		kept = append(kept, c)
	}
	f.Children = kept
}

// bandBreak returns the number of bands which go into the current
// fragmentainer, together with a forced break ending them. Breaks between
// bands honour forced breaks and break avoidance of the items on either
// side. A result of zero tells that the container does not fit.
func (lc *Context) bandBreak(req *request, rest []*band) (int, style.Break) {
	inColumn := req.inColumn
	fit := 0
	for i, b := range rest {
		if i > 0 {
			if brk := lc.betweenBands(rest[i-1], b, inColumn); brk.IsForced(inColumn) {
				return i, brk
			}
		}
		if b.bottom > req.limit {
			break
		}
		fit = i + 1
	}
	if fit == len(rest) || fit == 0 || req.relax {
		return fit, style.BreakAuto
	}
	for k := fit; k >= 1; k-- {
		if !lc.betweenBands(rest[k-1], rest[k], inColumn).IsAvoid(inColumn) {
			return k, style.BreakAuto
		}
	}
	if req.empty {
		return fit, style.BreakAuto
	}
	return 0, style.BreakAuto
}

// betweenBands joins the break values of the items meeting at the break
// point between two bands.
func (lc *Context) betweenBands(prev, next *band, inColumn bool) style.Break {
	brk := style.BreakAuto
	for _, f := range prev.items {
		brk = joinBreaks(brk, lc.tree.Style(f.Box).BreakAfter, inColumn)
	}
	for _, f := range next.items {
		brk = joinBreaks(brk, lc.tree.Style(f.Box).BreakBefore, inColumn)
	}
	return brk
}
