// Package percent implements a fixed-point type for percentage values.
package percent

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/folio/core/dimen"
)

// Percent is a fixed-point percentage with a resolution of 1/1000 percent.
// 100% is represented as 100000. Percentages may be negative or exceed 100%
// (CSS allows both for some properties).
type Percent int32

// Hundred is 100%.
const Hundred Percent = 100000

const scale = 1000

// FromInt creates a percentage from a whole number.
func FromInt(n int) Percent {
	return Percent(n * scale)
}

// FromFloat creates a percentage from a floating point number, rounding to
// the resolution of Percent. NaN yields 0%.
func FromFloat(f float64) Percent {
	switch {
	case math.IsNaN(f):
		return Percent(0)
	case f >= math.MaxInt32/scale:
		return Percent(math.MaxInt32)
	case f <= math.MinInt32/scale:
		return Percent(math.MinInt32)
	}
	return Percent(math.Round(f * scale))
}

// FromString parses a string like `12.5%`. The percent sign is optional.
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return FromFloat(f), nil
}

// Of applies a percentage to a dimension.
func (p Percent) Of(d dimen.Dimen) dimen.Dimen {
	return dimen.MulDiv(d, int64(p), int64(Hundred))
}

// Float returns p as a floating point number (12.5% ⇒ 12.5).
func (p Percent) Float() float64 {
	return float64(p) / scale
}

func (p Percent) String() string {
	return strconv.FormatFloat(p.Float(), 'f', -1, 64) + "%"
}
