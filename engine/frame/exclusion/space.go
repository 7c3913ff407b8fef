/*
Package exclusion tracks floats within a block formatting context.

A float reserves a rectangle (its margin box) which inline content of the
same block formatting context flows around. Exclusion spaces are immutable:
Add returns a new space and leaves the receiver untouched. Layout may
therefore keep the space as it was before any child and go back to it
when it retries a page break at an earlier position.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package exclusion

import (
	"sort"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// tracer traces with key 'folio.frame'.
func tracer() tracing.Trace {
	return tracing.Select("folio.frame")
}

// Side tells on which side a float has been placed.
type Side uint8

const (
	LeftSide Side = iota
	RightSide
)

// Exclusion is a rectangle reserved by a float.
type Exclusion struct {
	Rect dimen.Rect
	Side Side
}

// Space is an immutable set of exclusions. The nil space is empty.
type Space struct {
	exclusions []Exclusion
	ceiling    dimen.Dimen // floats may not be placed above earlier floats
}

// IsEmpty is true if there are no exclusions.
func (s *Space) IsEmpty() bool {
	return s == nil || len(s.exclusions) == 0
}

// Len returns the number of exclusions.
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exclusions)
}

// Add returns a new space with an exclusion added.
func (s *Space) Add(e Exclusion) *Space {
	var n int
	var ceiling dimen.Dimen
	if s != nil {
		n, ceiling = len(s.exclusions), s.ceiling
	}
	excl := make([]Exclusion, n, n+1)
	if s != nil {
		copy(excl, s.exclusions)
	}
	excl = append(excl, e)
	return &Space{exclusions: excl, ceiling: dimen.Max(ceiling, e.Rect.TopL.Y)}
}

// Available returns the horizontal interval [x0, x1) available for content
// within [left, right) for the vertical band [y, y+h). A band of zero
// height is tested at y.
func (s *Space) Available(y, h, left, right dimen.Dimen) (x0, x1 dimen.Dimen) {
	x0, x1 = left, right
	if s == nil {
		return
	}
	if h <= 0 {
		h = 1
	}
	for _, e := range s.exclusions {
		if e.Rect.BotR.Y <= y || e.Rect.TopL.Y >= y+h || e.Rect.IsEmpty() {
			continue
		}
		if e.Side == LeftSide {
			x0 = dimen.Max(x0, e.Rect.BotR.X)
		} else {
			x1 = dimen.Min(x1, e.Rect.TopL.X)
		}
	}
	if x1 < x0 {
		x1 = x0
	}
	return
}

// nextEdge returns the smallest bottom edge of an exclusion below y, or
// false if there is none.
func (s *Space) nextEdge(y dimen.Dimen) (dimen.Dimen, bool) {
	found, next := false, dimen.Dimen(0)
	for _, e := range s.exclusions {
		b := e.Rect.BotR.Y
		if b > y && (!found || b < next) {
			found, next = true, b
		}
	}
	return next, found
}

// FindBand returns the highest y ≥ y0 at which a band of width w and height h
// fits between left and right, together with the available interval at
// that position. If it fits nowhere, the position below all exclusions is
// returned. The search visits every exclusion edge at most once.
func (s *Space) FindBand(y0, w, h, left, right dimen.Dimen) (y, x0, x1 dimen.Dimen) {
	y = y0
	for i := 0; i <= s.Len(); i++ {
		x0, x1 = s.Available(y, h, left, right)
		if x1-x0 >= w {
			return
		}
		next, ok := s.nextEdge(y)
		if !ok {
			break
		}
		y = next
	}
	x0, x1 = s.Available(y, h, left, right)
	return
}

// Place finds the position for a float with margin box size sz, starting at
// y0 (the current line or block position), within [left, right). The float
// is placed at the highest position at which it does not overlap previous
// floats and which is not above the top of any earlier float. Place returns
// the top left corner of the float's margin box and the new space.
func (s *Space) Place(side Side, sz dimen.Size, y0, left, right dimen.Dimen) (dimen.Point, *Space) {
	if s != nil && s.ceiling > y0 {
		y0 = s.ceiling
	}
	w := dimen.Min(sz.W, right-left) // too wide floats are placed where nothing else is
	y, x0, x1 := s.FindBand(y0, w, sz.H, left, right)
	x := x0
	if side == RightSide {
		x = x1 - sz.W
	}
	pos := dimen.Point{X: x, Y: y}
	tracer().Debugf("float placed at %v,%v (%v×%v)", x, y, sz.W, sz.H)
	return pos, s.Add(Exclusion{Rect: dimen.RectAt(x, y, sz), Side: side})
}

// ClearY returns the y-position below all floats which a box with the given
// clear value has to clear.
func (s *Space) ClearY(clear style.Clear, y dimen.Dimen) dimen.Dimen {
	if s == nil || clear == style.ClearNone {
		return y
	}
	for _, e := range s.exclusions {
		if clear == style.ClearBoth || (clear == style.ClearLeft && e.Side == LeftSide) ||
			(clear == style.ClearRight && e.Side == RightSide) {
			y = dimen.Max(y, e.Rect.BotR.Y)
		}
	}
	return y
}

// Bottom returns the lowest bottom edge of all exclusions, or 0 for an empty
// space.
func (s *Space) Bottom() dimen.Dimen {
	var b dimen.Dimen
	if s == nil {
		return b
	}
	for _, e := range s.exclusions {
		b = dimen.Max(b, e.Rect.BotR.Y)
	}
	return b
}

// Translate returns a space with every exclusion moved by (dx, dy).
func (s *Space) Translate(dx, dy dimen.Dimen) *Space {
	if s.IsEmpty() {
		return s
	}
	excl := make([]Exclusion, len(s.exclusions))
	for i, e := range s.exclusions {
		excl[i] = Exclusion{Rect: e.Rect.Translate(dx, dy), Side: e.Side}
	}
	return &Space{exclusions: excl, ceiling: s.ceiling + dy}
}

// Exclusions returns the exclusions in the order of their top edges.
func (s *Space) Exclusions() []Exclusion {
	if s == nil {
		return nil
	}
	excl := make([]Exclusion, len(s.exclusions))
	copy(excl, s.exclusions)
	sort.SliceStable(excl, func(i, j int) bool {
		return excl[i].Rect.TopL.Y < excl[j].Rect.TopL.Y
	})
	return excl
}
