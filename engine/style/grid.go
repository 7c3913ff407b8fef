package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Track is a grid track sizing function. A plain size is represented with
// Min == Max, `minmax(a, b)` with Min = a and Max = b.
//
// Following CSS, `auto` as a single track size is `minmax(auto, auto)` and a
// flexible `1fr` is `minmax(auto, 1fr)`.
type Track struct {
	Min, Max Value
}

// FixedTrack creates a track of fixed size.
func FixedTrack(v Value) Track {
	return Track{Min: v, Max: v}
}

// FlexTrack creates a track with flex factor f.
func FlexTrack(f float64) Track {
	return Track{Min: Auto, Max: Fr(f)}
}

// AutoTrack is a track sized by its content.
var AutoTrack = Track{Min: Auto, Max: Auto}

// IsFlexible is true if the track's maximum is an fr value.
func (t Track) IsFlexible() bool {
	return t.Max.IsFlex()
}

func (t Track) String() string {
	if t.Min == t.Max {
		return t.Min.String()
	}
	return fmt.Sprintf("minmax(%s,%s)", t.Min, t.Max)
}

// ParseTracks parses a track list as used in `grid-template-columns`, e.g.
//
//     100px 1fr minmax(50px, 2fr) repeat(3, auto)
//
// Line names and `auto-fill` are not supported.
func ParseTracks(s string) ([]Track, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return nil, nil
	}
	var tracks []Track
	for _, tok := range splitFunctional(s) {
		switch {
		case strings.HasPrefix(tok, "repeat("):
			args := strings.SplitN(unwrapFunc(tok, "repeat"), ",", 2)
			if len(args) != 2 {
				return nil, fmt.Errorf("%w: %q", ErrIllegalValue, tok)
			}
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: repeat count in %q", ErrIllegalValue, tok)
			}
			inner, err := ParseTracks(args[1])
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				tracks = append(tracks, inner...)
			}
		default:
			t, err := parseTrack(tok)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, t)
		}
	}
	return tracks, nil
}

func parseTrack(tok string) (Track, error) {
	if strings.HasPrefix(tok, "minmax(") {
		args := strings.Split(unwrapFunc(tok, "minmax"), ",")
		if len(args) != 2 {
			return Track{}, fmt.Errorf("%w: %q", ErrIllegalValue, tok)
		}
		min, err := ParseValue(args[0])
		if err != nil {
			return Track{}, err
		}
		max, err := ParseValue(args[1])
		if err != nil {
			return Track{}, err
		}
		if min.IsFlex() { // flexible minimum is invalid
			return Track{}, fmt.Errorf("%w: %q", ErrIllegalValue, tok)
		}
		return Track{Min: min, Max: max}, nil
	}
	v, err := ParseValue(tok)
	if err != nil {
		return Track{}, err
	}
	if v.IsFlex() {
		return Track{Min: Auto, Max: v}, nil
	}
	return FixedTrack(v), nil
}

// splitFunctional splits at white space outside of parentheses.
func splitFunctional(s string) []string {
	var toks []string
	depth, start := 0, -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case (r == ' ' || r == '\t') && depth == 0:
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

func unwrapFunc(tok, name string) string {
	return strings.TrimSuffix(strings.TrimPrefix(tok, name+"("), ")")
}

// GridLine is one end of a grid item placement. Line numbers start at 1;
// negative numbers count from the end of the explicit grid. A zero line
// without span is `auto`.
type GridLine struct {
	Line int
	Span int
}

// IsAuto is true for an automatic line.
func (l GridLine) IsAuto() bool {
	return l.Line == 0 && l.Span == 0
}

// GridPlacement is the placement of a grid item along one axis, as given by
// `grid-column` or `grid-row`.
type GridPlacement struct {
	Start, End GridLine
}

// IsAuto is true if the item is placed by the auto-placement algorithm.
func (p GridPlacement) IsAuto() bool {
	return p.Start.Line == 0 && p.End.Line == 0
}

// ParsePlacement parses values like `2`, `1 / 3`, `span 2`, `2 / span 3`
// or `auto`.
func ParsePlacement(s string) (GridPlacement, error) {
	var p GridPlacement
	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		return p, fmt.Errorf("%w: %q", ErrIllegalValue, s)
	}
	var err error
	if p.Start, err = parseGridLine(parts[0]); err != nil {
		return p, err
	}
	if len(parts) == 2 {
		if p.End, err = parseGridLine(parts[1]); err != nil {
			return p, err
		}
	}
	return p, nil
}

func parseGridLine(s string) (GridLine, error) {
	fields := strings.Fields(strings.ToLower(s))
	switch len(fields) {
	case 1:
		if fields[0] == "auto" {
			return GridLine{}, nil
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n == 0 {
			return GridLine{}, fmt.Errorf("%w: grid line %q", ErrIllegalValue, s)
		}
		return GridLine{Line: n}, nil
	case 2:
		if fields[0] != "span" {
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			break
		}
		return GridLine{Span: n}, nil
	}
	return GridLine{}, fmt.Errorf("%w: grid line %q", ErrIllegalValue, s)
}
