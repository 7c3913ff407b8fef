package frame

import (
	"fmt"
	"strings"
)

// ResumeStep is one level of a resume marker. Child is the index of the
// child (of Box) to continue with. Offset is a byte position inside the text
// of an inline formatting context starting at that child; it is zero for
// block-level content.
type ResumeStep struct {
	Box    BoxID
	Child  int
	Offset int
}

// Resume is a continuation marker: a flat path of indices from the
// fragmentation root down to the first content which has not yet been laid
// out. A nil marker denotes the start of the content.
//
// A missing level is equivalent to the start of that level, i.e., to a step
// {Child: 0, Offset: 0}. Markers are plain values; they never refer to
// fragments.
type Resume []ResumeStep

// Append returns a copy of r extended by a step.
func (r Resume) Append(step ResumeStep) Resume {
	c := make(Resume, len(r), len(r)+1)
	copy(c, r)
	return append(c, step)
}

// Prepend returns a new marker with step at the top level and r below it.
func (r Resume) Prepend(step ResumeStep) Resume {
	c := make(Resume, 0, len(r)+1)
	c = append(c, step)
	return append(c, r...)
}

// Head returns the top level step of r, or the zero step for the start
// marker.
func (r Resume) Head() (ResumeStep, bool) {
	if len(r) == 0 {
		return ResumeStep{}, false
	}
	return r[0], true
}

// Tail returns r without its top level step.
func (r Resume) Tail() Resume {
	if len(r) <= 1 {
		return nil
	}
	return r[1:]
}

// Compare compares two markers for the same fragmentation root in document
// order. It returns -1 if r is before s, 0 if both denote the same position
// and +1 if r is after s.
func (r Resume) Compare(s Resume) int {
	n := len(r)
	if len(s) > n {
		n = len(s)
	}
	for i := 0; i < n; i++ {
		var a, b ResumeStep
		if i < len(r) {
			a = r[i]
		}
		if i < len(s) {
			b = s[i]
		}
		switch {
		case a.Child < b.Child:
			return -1
		case a.Child > b.Child:
			return 1
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
	}
	return 0
}

// Less is true if r denotes a position before s.
func (r Resume) Less(s Resume) bool {
	return r.Compare(s) < 0
}

// IsStart is true if r denotes the start of the content.
func (r Resume) IsStart() bool {
	return r.Compare(nil) == 0
}

func (r Resume) String() string {
	if len(r) == 0 {
		return "resume{start}"
	}
	var b strings.Builder
	b.WriteString("resume{")
	for i, s := range r {
		if i > 0 {
			b.WriteString(" ")
		}
		if s.Offset > 0 {
			fmt.Fprintf(&b, "%d:%d@%d", s.Box, s.Child, s.Offset)
		} else {
			fmt.Fprintf(&b, "%d:%d", s.Box, s.Child)
		}
	}
	b.WriteString("}")
	return b.String()
}
