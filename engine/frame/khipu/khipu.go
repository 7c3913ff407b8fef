/*
Package khipu encodes the content of an inline formatting context as a
string of knots.

A khipu is the input for line breaking. Text runs are split into text boxes
at break opportunities; spaces become glue; break opportunities become
penalties (or discretionaries, if breaking inserts a hyphen). Inline boxes
contribute open and close knots carrying their left and right margin,
border and padding. Atomic inlines (inline blocks, replaced elements) are
opaque boxes, and out-of-flow boxes anchored in the text are zero-width
anchors.

Every knot covers a byte range of the khipu's text, which is the
concatenation of the white-space processed text of all runs. Atomic boxes
occupy the three bytes of U+FFFC. Positions in a khipu are byte offsets into
that text; they are the unit of progress for line breaking and the offsets
stored in resume markers.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package khipu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/cords"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/text"
)

// tracer traces with key 'folio.khipu'.
func tracer() tracing.Trace {
	return tracing.Select("folio.khipu")
}

// KnotType is the type of a knot.
type KnotType uint8

// Knot types
const (
	KTTextBox       KnotType = iota // text between break opportunities
	KTGlue                          // collapsible white space
	KTKern                          // fixed space
	KTPenalty                       // break opportunity
	KTDiscretionary                 // break opportunity inserting a hyphen
	KTBox                           // atomic inline
	KTOpen                          // start of an inline box
	KTClose                         // end of an inline box
	KTAnchor                        // position of an out-of-flow box
)

func (t KnotType) String() string {
	switch t {
	case KTTextBox:
		return "text"
	case KTGlue:
		return "glue"
	case KTKern:
		return "kern"
	case KTPenalty:
		return "penalty"
	case KTDiscretionary:
		return "discretionary"
	case KTBox:
		return "box"
	case KTOpen:
		return "open"
	case KTClose:
		return "close"
	case KTAnchor:
		return "anchor"
	}
	return "?"
}

// Penalty values for break ranks, in the tradition of TeX.
const (
	ForcedBreak     = -10000
	SpaceBreak      = 0
	HyphenBreak     = 50
	InfinitePenalty = 10000
)

// Knot is an item of a khipu. Which fields are meaningful depends on the
// type of the knot.
type Knot struct {
	Type    KnotType
	Width   dimen.Dimen // natural width; for discretionaries the width of the hyphen
	Stretch dimen.Dimen // glue only
	Shrink  dimen.Dimen // glue only
	Penalty int         // penalties and discretionaries
	Ascent  dimen.Dimen // text boxes and atomic boxes
	Descent dimen.Dimen
	Box     frame.BoxID // text box, inline box, atomic box or anchored box
	Run     int         // index of the text run for text boxes and glue, else -1
	Start   int         // byte range of the knot in the khipu text
	End     int
}

// NewKnot creates a knot of a given type without content.
func NewKnot(t KnotType) Knot {
	return Knot{Type: t, Box: frame.NoBox, Run: -1}
}

// NewGlue creates a glue knot.
func NewGlue(w, stretch, shrink dimen.Dimen) Knot {
	k := NewKnot(KTGlue)
	k.Width, k.Stretch, k.Shrink = w, stretch, shrink
	return k
}

// Penalty creates a penalty knot.
func Penalty(p int) Knot {
	k := NewKnot(KTPenalty)
	k.Penalty = p
	return k
}

// IsBreak is true for knots at which a line may be broken.
func (k Knot) IsBreak() bool {
	return (k.Type == KTPenalty || k.Type == KTDiscretionary) && k.Penalty < InfinitePenalty
}

// IsForced is true for knots which force a line break.
func (k Knot) IsForced() bool {
	return k.Type == KTPenalty && k.Penalty <= ForcedBreak
}

// IsDiscardable is true for knots which vanish at the start of a line.
func (k Knot) IsDiscardable() bool {
	switch k.Type {
	case KTGlue, KTKern, KTPenalty, KTDiscretionary:
		return true
	}
	return false
}

func (k Knot) String() string {
	switch k.Type {
	case KTPenalty, KTDiscretionary:
		return fmt.Sprintf("[%s %d @%d]", k.Type, k.Penalty, k.Start)
	case KTOpen, KTClose, KTAnchor, KTBox:
		return fmt.Sprintf("[%s #%d %v]", k.Type, k.Box, k.Width)
	}
	return fmt.Sprintf("[%s %d:%d %v]", k.Type, k.Start, k.End, k.Width)
}

// Run is a text run of a khipu: the processed text of a text box together
// with its measurement.
type Run struct {
	Box         frame.BoxID
	Start       int    // offset of the run in the khipu text
	Text        string // text after white-space processing
	Measurement text.Measurement
}

// Khipu is a string of knots.
type Khipu struct {
	knots  []Knot
	runs   []Run
	leaves []leaf
	text   cords.Cord // built on demand from leaves
	tlen   int
}

// NewKhipu creates an empty khipu.
func NewKhipu() *Khipu {
	return &Khipu{}
}

// Length returns the number of knots.
func (kh *Khipu) Length() int {
	if kh == nil {
		return 0
	}
	return len(kh.knots)
}

// TextLength returns the length of the khipu text in bytes. It is the
// position at the end of the khipu.
func (kh *Khipu) TextLength() int {
	if kh == nil {
		return 0
	}
	return kh.tlen
}

// At returns the knot at index i.
func (kh *Khipu) At(i int) Knot {
	return kh.knots[i]
}

// Runs returns the text runs of the khipu.
func (kh *Khipu) Runs() []Run {
	return kh.runs
}

// AppendKnot appends a knot. If the knot has no position, it is positioned
// at the end of the khipu.
func (kh *Khipu) AppendKnot(k Knot) *Khipu {
	if k.Start == 0 && k.End == 0 {
		k.Start, k.End = kh.tlen, kh.tlen
	}
	kh.knots = append(kh.knots, k)
	return kh
}

// AppendKhipu appends the knots of another khipu. Positions and run indices
// of the appended knots are shifted.
func (kh *Khipu) AppendKhipu(other *Khipu) *Khipu {
	if other == nil {
		return kh
	}
	shift, runshift := kh.tlen, len(kh.runs)
	for _, k := range other.knots {
		k.Start += shift
		k.End += shift
		if k.Run >= 0 {
			k.Run += runshift
		}
		kh.knots = append(kh.knots, k)
	}
	for _, r := range other.runs {
		r.Start += shift
		kh.runs = append(kh.runs, r)
	}
	kh.leaves = append(kh.leaves, other.leaves...)
	kh.text = cords.Cord{}
	kh.tlen += other.tlen
	return kh
}

// appendText adds text to the khipu text and returns its start position.
func (kh *Khipu) appendText(box frame.BoxID, s string) int {
	start := kh.tlen
	if s == "" {
		return start
	}
	kh.leaves = append(kh.leaves, leaf{box: box, content: s})
	kh.text = cords.Cord{}
	kh.tlen += len(s)
	return start
}

// Cord returns the khipu text as a cord. Every leaf of the cord belongs to a
// single box.
func (kh *Khipu) Cord() cords.Cord {
	if kh.text.IsVoid() && len(kh.leaves) > 0 {
		b := cords.NewBuilder()
		for _, l := range kh.leaves {
			b.Append(l)
		}
		kh.text = b.Cord()
	}
	return kh.text
}

// Text returns the text covered by the knots [from, to).
func (kh *Khipu) Text(from, to int) string {
	if from >= to || from >= len(kh.knots) {
		return ""
	}
	if to > len(kh.knots) {
		to = len(kh.knots)
	}
	return kh.TextRange(kh.knots[from].Start, kh.knots[to-1].End)
}

// TextRange returns the khipu text between two positions.
func (kh *Khipu) TextRange(start, end int) string {
	if start >= end || kh.Cord().IsVoid() {
		return ""
	}
	var b strings.Builder
	_ = kh.Cord().EachLeaf(func(l cords.Leaf, pos uint64) error {
		lstart, lend := int(pos), int(pos+l.Weight())
		if lend <= start || lstart >= end {
			return nil
		}
		s := l.String()
		from, to := 0, len(s)
		if start > lstart {
			from = start - lstart
		}
		if end < lend {
			to = end - lstart
		}
		b.WriteString(s[from:to])
		return nil
	})
	return b.String()
}

// KnotAt returns the index of the first knot which is not completed at
// position pos: the first knot ending after pos, or starting at pos unless
// it is a closing or discardable zero-width knot. Returns Length() if pos
// is at the end.
func (kh *Khipu) KnotAt(pos int) int {
	i := sort.Search(len(kh.knots), func(i int) bool {
		return kh.knots[i].End >= pos
	})
	for ; i < len(kh.knots); i++ {
		k := kh.knots[i]
		if k.End > pos {
			return i
		}
		if k.Start == pos && k.End == pos && (k.Type == KTOpen || k.Type == KTAnchor) {
			return i
		}
	}
	return i
}

func (kh *Khipu) String() string {
	var b strings.Builder
	for _, k := range kh.knots {
		b.WriteString(k.String())
	}
	return b.String()
}

// Cursor iterates over the knots of a khipu.
type Cursor struct {
	kh  *Khipu
	pos int
}

// NewCursor creates a cursor positioned before the first knot.
func NewCursor(kh *Khipu) *Cursor {
	return &Cursor{kh: kh, pos: -1}
}

// Next advances the cursor. It returns false at the end of the khipu.
func (c *Cursor) Next() bool {
	if c.pos+1 >= c.kh.Length() {
		return false
	}
	c.pos++
	return true
}

// Knot returns the current knot.
func (c *Cursor) Knot() Knot {
	return c.kh.knots[c.pos]
}

// Index returns the index of the current knot.
func (c *Cursor) Index() int {
	return c.pos
}

// --- Leafs of the khipu text -----------------------------------------------

// leaf is the leaf type of the cord holding the khipu text. Every leaf
// remembers the box its text belongs to.
type leaf struct {
	box     frame.BoxID
	content string
}

// Weight is part of interface cords.Leaf.
func (l leaf) Weight() uint64 {
	return uint64(len(l.content))
}

// String is part of interface cords.Leaf.
func (l leaf) String() string {
	return l.content
}

// Split is part of interface cords.Leaf.
func (l leaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	return leaf{box: l.box, content: l.content[:i]}, leaf{box: l.box, content: l.content[i:]}
}

// Substring is part of interface cords.Leaf.
func (l leaf) Substring(i, j uint64) []byte {
	return []byte(l.content)[i:j]
}

var _ cords.Leaf = leaf{}

// BoxAt returns the box the text at position pos belongs to.
func (kh *Khipu) BoxAt(pos int) frame.BoxID {
	box := frame.NoBox
	if kh.Cord().IsVoid() {
		return box
	}
	_ = kh.Cord().EachLeaf(func(l cords.Leaf, p uint64) error {
		if int(p) <= pos && pos < int(p+l.Weight()) {
			box = l.(leaf).box
		}
		return nil
	})
	return box
}
