package frame

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/npillmayer/folio/core/dimen"
)

// Fragment is a positioned and sized (slice of a) box. Fragments refer to
// their box by index. A box which is split across fragmentation containers
// produces more than one fragment, flagged as continued before and/or after.
type Fragment struct {
	Box             BoxID
	Kind            Kind
	Used            Used
	Children        []*Fragment
	Text            *TextSlice  // for text runs inside a line
	Baseline        dimen.Dimen // offset of the first baseline from the top of the border box
	ContinuedBefore bool        // box started on an earlier fragmentation container
	ContinuedAfter  bool        // box continues on a later fragmentation container
	Repeated        bool        // repeated table header or footer row group
	Placeholder     bool        // position of a footnote call; the body is laid out elsewhere
	Resume          Resume      // marker for the remainder if ContinuedAfter
	LineStart       ResumeStep  // for lines: inline run (Child) and text position (Offset) of the line
}

// TextSlice is the part of a text box's run which is set on a line.
// Start and End are byte offsets into the run.
type TextSlice struct {
	Start, End int
	Hyphen     bool // line ends with an inserted hyphen
}

// NewFragment creates a fragment for a box.
func NewFragment(box BoxID, kind Kind, u Used) *Fragment {
	return &Fragment{Box: box, Kind: kind, Used: u}
}

// Add appends a child fragment.
func (f *Fragment) Add(child *Fragment) {
	if child != nil {
		f.Children = append(f.Children, child)
	}
}

// Translate moves a fragment and all of its descendants.
func (f *Fragment) Translate(dx, dy dimen.Dimen) {
	if dx == 0 && dy == 0 {
		return
	}
	f.Walk(func(fr *Fragment) bool {
		fr.Used.X += dx
		fr.Used.Y += dy
		return true
	})
}

// Walk visits f and its descendants in document order, using an explicit
// work list. If visit returns false, the children of a fragment are skipped.
func (f *Fragment) Walk(visit func(*Fragment) bool) {
	if f == nil {
		return
	}
	stack := arraystack.New()
	stack.Push(f)
	for !stack.Empty() {
		v, _ := stack.Pop()
		fr := v.(*Fragment)
		if !visit(fr) {
			continue
		}
		for i := len(fr.Children) - 1; i >= 0; i-- {
			stack.Push(fr.Children[i])
		}
	}
}

// Find returns the first fragment for a box within f, or nil.
func (f *Fragment) Find(box BoxID) *Fragment {
	var found *Fragment
	f.Walk(func(fr *Fragment) bool {
		if found != nil {
			return false
		}
		if fr.Box == box && fr.Kind != Line {
			found = fr
			return false
		}
		return true
	})
	return found
}

// ChildBoxes returns the box indices of the direct children of f, skipping
// repeated fragments and line boxes (lines are descended into).
func (f *Fragment) ChildBoxes() []BoxID {
	var ids []BoxID
	for _, c := range f.Children {
		if c.Repeated {
			continue
		}
		if c.Kind == Line {
			ids = append(ids, c.ChildBoxes()...)
			continue
		}
		ids = append(ids, c.Box)
	}
	return ids
}

// Bottom returns the y-coordinate of the bottom margin edge.
func (f *Fragment) Bottom() dimen.Dimen {
	return f.Used.Y + f.Used.OuterHeight()
}

func (f *Fragment) String() string {
	if f == nil {
		return "<nil fragment>"
	}
	flags := ""
	if f.ContinuedBefore {
		flags += "<"
	}
	if f.ContinuedAfter {
		flags += ">"
	}
	if f.Repeated {
		flags += "*"
	}
	r := f.Used.BorderBox()
	return fmt.Sprintf("%s#%d%s[%v,%v %v×%v]", f.Kind, f.Box, flags,
		r.TopL.X, r.TopL.Y, r.Width(), r.Height())
}
