package text

import (
	"fmt"
	"sort"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// BreakRank classifies a break opportunity. Lower ranks are stronger.
type BreakRank uint8

// Break ranks, from strongest to weakest.
const (
	BreakForced     BreakRank = iota // mandatory break, e.g. a preserved newline
	BreakSoftHyphen                  // soft hyphen or hyphenation point, inserts a hyphen
	BreakSpace                       // after a space or other UAX#14 opportunity
	BreakEmergency                   // grapheme boundary, used only if nothing else fits
)

func (r BreakRank) String() string {
	switch r {
	case BreakForced:
		return "forced"
	case BreakSoftHyphen:
		return "hyphen"
	case BreakSpace:
		return "space"
	case BreakEmergency:
		return "emergency"
	}
	return fmt.Sprintf("rank(%d)", r)
}

// Break is a break opportunity at a byte offset into a run. A break at
// offset n breaks between run[:n] and run[n:].
type Break struct {
	Offset int
	Rank   BreakRank
}

// Cluster is a grapheme cluster of a run, starting at byte offset Offset.
type Cluster struct {
	Offset int
	Width  dimen.Dimen
	Space  bool // white space, eligible for stretching and for hanging at line end
}

// Measurement is the result of measuring a run of text.
type Measurement struct {
	Width       dimen.Dimen
	Ascent      dimen.Dimen // of the font, above the baseline
	Descent     dimen.Dimen // of the font, below the baseline
	Clusters    []Cluster   // in logical order
	Breaks      []Break     // sorted by offset, at most one per offset
	HyphenWidth dimen.Dimen // width of an inserted hyphen
}

// WidthOf returns the width of the byte range [from, to) of the run. Offsets
// inside a cluster count the cluster to the range it starts in.
func (m *Measurement) WidthOf(from, to int) dimen.Dimen {
	if from >= to || len(m.Clusters) == 0 {
		return 0
	}
	i := sort.Search(len(m.Clusters), func(i int) bool {
		return m.Clusters[i].Offset >= from
	})
	var w dimen.Dimen
	for ; i < len(m.Clusters) && m.Clusters[i].Offset < to; i++ {
		w += m.Clusters[i].Width
	}
	return w
}

// BreakAt returns the break opportunity at offset, if any.
func (m *Measurement) BreakAt(offset int) (Break, bool) {
	i := sort.Search(len(m.Breaks), func(i int) bool {
		return m.Breaks[i].Offset >= offset
	})
	if i < len(m.Breaks) && m.Breaks[i].Offset == offset {
		return m.Breaks[i], true
	}
	return Break{}, false
}

// AddBreak inserts a break opportunity, keeping Breaks sorted. If there
// already is an opportunity at the same offset, the stronger rank wins.
func (m *Measurement) AddBreak(b Break) {
	i := sort.Search(len(m.Breaks), func(i int) bool {
		return m.Breaks[i].Offset >= b.Offset
	})
	if i < len(m.Breaks) && m.Breaks[i].Offset == b.Offset {
		if b.Rank < m.Breaks[i].Rank {
			m.Breaks[i].Rank = b.Rank
		}
		return
	}
	m.Breaks = append(m.Breaks, Break{})
	copy(m.Breaks[i+1:], m.Breaks[i:])
	m.Breaks[i] = b
}

// Oracle measures runs of text.
//
// run is the text of a single inline box after white-space processing. The
// style carries font size, language, white-space and hyphenation settings.
// avail is the width available on the current line (informational; oracles
// are free to ignore it and measurements may be cached independently of it).
type Oracle interface {
	Measure(run string, st *style.Style, avail dimen.Dimen) (Measurement, error)
}

// Intrinsic holds the natural dimensions of a replaced resource. Any of
// them may be missing.
type Intrinsic struct {
	Width, Height       dimen.Dimen
	HasWidth, HasHeight bool
	Ratio               float64 // width / height, 0 if none
}

// IntrinsicOracle reports the natural size of replaced content.
type IntrinsicOracle interface {
	Intrinsic(resource string) (Intrinsic, bool)
}

// Sizes is an IntrinsicOracle backed by a map, suitable for callers which
// know the dimensions of their resources in advance.
type Sizes map[string]Intrinsic

// Intrinsic is part of interface IntrinsicOracle.
func (s Sizes) Intrinsic(resource string) (Intrinsic, bool) {
	in, ok := s[resource]
	return in, ok
}

// Size returns a complete Intrinsic for a width and a height.
func Size(w, h dimen.Dimen) Intrinsic {
	in := Intrinsic{Width: w, Height: h, HasWidth: true, HasHeight: true}
	if h > 0 {
		in.Ratio = float64(w) / float64(h)
	}
	return in
}
