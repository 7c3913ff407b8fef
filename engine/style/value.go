package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/percent"
)

// Unit tells how a Value has to be interpreted.
type Unit uint8

// Units of values. UnitNone is the zero value and denotes an unset value.
const (
	UnitNone       Unit = iota // unset
	UnitAbsolute               // fixed length
	UnitPercent                // percentage of a reference length
	UnitAuto                   // `auto` (or `normal` for line-height)
	UnitMinContent             // `min-content`
	UnitMaxContent             // `max-content`
	UnitFitContent             // `fit-content`
	UnitFr                     // flexible grid fraction
	UnitKeywordNone            // CSS keyword `none`, e.g. for max-width
)

// Value is an option type for CSS dimensions which have not yet been
// resolved to used values.
type Value struct {
	d    dimen.Dimen
	p    percent.Percent
	unit Unit
}

// Abs creates an absolute length.
func Abs(d dimen.Dimen) Value {
	return Value{d: d, unit: UnitAbsolute}
}

// Px creates an absolute length in CSS pixels.
func Px(n float64) Value {
	return Value{d: dimen.FromPoints(n), unit: UnitAbsolute}
}

// Pct creates a percentage value.
func Pct(p float64) Value {
	return Value{p: percent.FromFloat(p), unit: UnitPercent}
}

// Fr creates a flexible grid track factor.
func Fr(f float64) Value {
	return Value{d: dimen.FromPoints(f), unit: UnitFr}
}

// Pre-defined keyword values.
var (
	Unset      = Value{}
	Auto       = Value{unit: UnitAuto}
	None       = Value{unit: UnitKeywordNone}
	MinContent = Value{unit: UnitMinContent}
	MaxContent = Value{unit: UnitMaxContent}
	FitContent = Value{unit: UnitFitContent}
	Zero       = Value{unit: UnitAbsolute}
)

// Unit returns the unit of v.
func (v Value) Unit() Unit {
	return v.unit
}

// Unwrap returns the absolute length of v; zero for non-absolute values.
func (v Value) Unwrap() dimen.Dimen {
	if v.unit != UnitAbsolute {
		return 0
	}
	return v.d
}

// Percent returns the percentage of v; zero for non-percentage values.
func (v Value) Percent() percent.Percent {
	if v.unit != UnitPercent {
		return 0
	}
	return v.p
}

// Flex returns the fr factor of a flexible value.
func (v Value) Flex() float64 {
	if v.unit != UnitFr {
		return 0
	}
	return v.d.Points()
}

// IsNone returns true if v is unset.
func (v Value) IsNone() bool { return v.unit == UnitNone }

// IsAuto returns true for `auto`.
func (v Value) IsAuto() bool { return v.unit == UnitAuto }

// IsAbsolute returns true if v represents a fixed length.
func (v Value) IsAbsolute() bool { return v.unit == UnitAbsolute }

// IsPercent returns true if v represents a percentage.
func (v Value) IsPercent() bool { return v.unit == UnitPercent }

// IsFlex returns true if v is an fr value.
func (v Value) IsFlex() bool { return v.unit == UnitFr }

// IsKeywordNone returns true for the CSS keyword `none`.
func (v Value) IsKeywordNone() bool { return v.unit == UnitKeywordNone }

// IsIntrinsic returns true for content-dependent keywords.
func (v Value) IsIntrinsic() bool {
	return v.unit == UnitMinContent || v.unit == UnitMaxContent || v.unit == UnitFitContent
}

// IsDefinite returns true if v can be resolved without knowledge of content,
// given a definite reference length.
func (v Value) IsDefinite() bool {
	return v.unit == UnitAbsolute || v.unit == UnitPercent
}

// Resolve resolves v against a reference length. The boolean return value is
// false if v cannot be resolved: keywords, or a percentage against an
// indefinite reference (signalled by ref == dimen.Infinity).
func (v Value) Resolve(ref dimen.Dimen) (dimen.Dimen, bool) {
	switch v.unit {
	case UnitAbsolute:
		return v.d, true
	case UnitPercent:
		if ref == dimen.Infinity {
			return 0, false
		}
		return v.p.Of(ref), true
	}
	return 0, false
}

// ResolveOr resolves v against ref and returns a fallback if it is not
// resolvable.
func (v Value) ResolveOr(ref, fallback dimen.Dimen) dimen.Dimen {
	if d, ok := v.Resolve(ref); ok {
		return d
	}
	return fallback
}

func (v Value) String() string {
	switch v.unit {
	case UnitNone:
		return "Value.None"
	case UnitAbsolute:
		return strconv.FormatFloat(v.d.Points(), 'f', -1, 64) + "px"
	case UnitPercent:
		return v.p.String()
	case UnitAuto:
		return "auto"
	case UnitMinContent:
		return "min-content"
	case UnitMaxContent:
		return "max-content"
	case UnitFitContent:
		return "fit-content"
	case UnitFr:
		return strconv.FormatFloat(v.d.Points(), 'f', -1, 64) + "fr"
	case UnitKeywordNone:
		return "none"
	}
	return fmt.Sprintf("Value(%d,%d)", v.unit, v.d)
}

// ErrIllegalValue is returned for values which are not valid for a property.
var ErrIllegalValue = errors.New("illegal property value")

// ParseValue parses a string to return a value. Valid values are
//
//     15px
//     80%
//     auto
//     1fr
//     min-content
//
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return Unset, ErrIllegalValue
	case "auto", "normal":
		return Auto, nil
	case "none":
		return None, nil
	case "min-content":
		return MinContent, nil
	case "max-content":
		return MaxContent, nil
	case "fit-content":
		return FitContent, nil
	}
	if strings.HasSuffix(s, "fr") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "fr"), 64)
		if err != nil || f < 0 {
			return Unset, fmt.Errorf("%w: %q", ErrIllegalValue, s)
		}
		return Fr(f), nil
	}
	d, ispcnt, err := dimen.ParseDimen(s)
	if err != nil {
		return Unset, fmt.Errorf("%w: %q", ErrIllegalValue, s)
	}
	if ispcnt {
		return Value{p: percent.FromFloat(d.Points()), unit: UnitPercent}, nil
	}
	return Abs(d), nil
}
