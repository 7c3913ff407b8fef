// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a fixed-point dimension type.
// Values are in scaled big points: 65536 scaled points make one big point,
// which is 1/72 inch (the PDF unit) and is identical to a CSS "px".
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = BP / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // CSS pixel, identical to BP
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Infinity is the largest possible dimension. It is used as a marker for
// unbounded extents and must never take part in arithmetic.
const Infinity Dimen = math.MaxInt32

// Some common paper sizes
var (
	DINA4    = Size{W: 210 * MM, H: 297 * MM}
	DINA5    = Size{W: 148 * MM, H: 210 * MM}
	USLetter = Size{W: 216 * MM, H: 279 * MM}
	USLegal  = Size{W: 216 * MM, H: 357 * MM}
)

func (d Dimen) String() string {
	if d == Infinity {
		return "∞"
	}
	return fmt.Sprintf("%dsp", int32(d))
}

// Points returns a dimension in big (PDF) points.
func (d Dimen) Points() float64 {
	return float64(d) / float64(BP)
}

// FromPoints converts a value in big points to a dimension, rounding to the
// nearest scaled point and saturating at ±Infinity.
func FromPoints(p float64) Dimen {
	return clamp64(int64(math.Round(p * float64(BP))))
}

// IsInfinite is true for Infinity and for values that have been derived from
// it by saturating arithmetic.
func (d Dimen) IsInfinite() bool {
	return d >= Infinity || d <= -Infinity
}

// Add adds two dimensions, saturating at ±Infinity.
func Add(a, b Dimen) Dimen {
	if a == Infinity || b == Infinity {
		return Infinity
	}
	return clamp64(int64(a) + int64(b))
}

// MulDiv computes d*num/den with a 64-bit intermediate result. A zero
// denominator yields zero.
func MulDiv(d Dimen, num, den int64) Dimen {
	if den == 0 {
		return 0
	}
	return clamp64(int64(d) * num / den)
}

// Scale multiplies a dimension by a floating point factor.
func Scale(d Dimen, f float64) Dimen {
	if math.IsNaN(f) {
		return 0
	}
	return clamp64(int64(math.Round(float64(d) * f)))
}

func clamp64(n int64) Dimen {
	if n >= int64(Infinity) {
		return Infinity
	}
	if n <= -int64(Infinity) {
		return -Infinity
	}
	return Dimen(n)
}

// NonNegative clamps negative dimensions to zero.
func NonNegative(d Dimen) Dimen {
	if d < 0 {
		return 0
	}
	return d
}

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts d to [lo…hi]. If lo is greater than hi, lo wins.
func Clamp(d, lo, hi Dimen) Dimen {
	if d > hi {
		d = hi
	}
	if d < lo {
		d = lo
	}
	return d
}

// --- Geometry --------------------------------------------------------------

// Point is a point on a page.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p Point) Shift(vector Point) Point {
	return Point{X: p.X + vector.X, Y: p.Y + vector.Y}
}

// Size is the extent of a rectangle.
type Size struct {
	W, H Dimen
}

// Rect is a rectangle (on a page).
type Rect struct {
	TopL, BotR Point
}

// RectAt creates a rectangle from its top-left corner and its size.
func RectAt(x, y Dimen, sz Size) Rect {
	return Rect{TopL: Point{x, y}, BotR: Point{x + sz.W, y + sz.H}}
}

// Width returns the width of a rectangle, i.e. the difference between x-coordinates
// of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between y-coordinates
// of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// Size returns the extent of r.
func (r Rect) Size() Size {
	return Size{W: r.Width(), H: r.Height()}
}

// IsEmpty is true if r has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Translate moves a rectangle by (dx, dy).
func (r Rect) Translate(dx, dy Dimen) Rect {
	r.TopL.X += dx
	r.TopL.Y += dy
	r.BotR.X += dx
	r.BotR.Y += dy
	return r
}

// Overlaps is true if r and s share some area.
func (r Rect) Overlaps(s Rect) bool {
	return r.TopL.X < s.BotR.X && s.TopL.X < r.BotR.X &&
		r.TopL.Y < s.BotR.Y && s.TopL.Y < r.BotR.Y
}

// Contains is true if s lies completely inside r.
func (r Rect) Contains(s Rect) bool {
	return s.TopL.X >= r.TopL.X && s.BotR.X <= r.BotR.X &&
		s.TopL.Y >= r.TopL.Y && s.BotR.Y <= r.BotR.Y
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f,%.2f)-(%.2f,%.2f)", r.TopL.X.Points(), r.TopL.Y.Points(),
		r.BotR.X.Points(), r.BotR.Y.Points())
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?[0-9]*\.?[0-9]+)(%|[a-zA-Z]{2})?$`)

// ErrFormat is returned for malformed dimension strings.
var ErrFormat = errors.New("format error parsing dimension")

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit.
// If a percentage value is given (`80%`), the second return value will be true
// and the dimension holds the percentage number in scaled points
// (i.e. 80% ⇒ 80*BP).
//
//     12px
//     0.5in
//     -3mm
//
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 2 {
		return 0, false, ErrFormat
	}
	scale := SP
	ispcnt := false
	if len(d) > 2 {
		switch d[2] {
		case "pt", "PT":
			scale = PT
		case "mm", "MM":
			scale = MM
		case "bp", "px", "BP", "PX":
			scale = BP
		case "cm", "CM":
			scale = CM
		case "in", "IN":
			scale = IN
		case "sp", "SP":
			scale = SP
		case "":
			if d[1] != "0" {
				scale = BP // unit-less numbers are pixels
			}
		case "%":
			scale, ispcnt = BP, true
		default:
			return 0, false, ErrFormat
		}
	}
	f, err := strconv.ParseFloat(d[1], 64)
	if err != nil {
		return 0, false, ErrFormat
	}
	return clamp64(int64(math.Round(f * float64(scale)))), ispcnt, nil
}
