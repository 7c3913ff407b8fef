package frame

/*
BSD License

Copyright (c) 2017–2021, Norbert Pillmayer

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
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/npillmayer/folio/engine/style"
)

// BoxID addresses a box within a tree.
type BoxID int32

// NoBox is the invalid box index.
const NoBox BoxID = -1

// Box is a node of the box tree. Boxes are created by a tree builder and are
// immutable during layout.
type Box struct {
	ID        BoxID
	Kind      Kind
	Style     *style.Style
	Parent    BoxID
	Index     int // position within the parent's children
	Children  []BoxID
	Text      string // text run, for boxes of kind Text
	Resource  string // resource identifier, for boxes of kind Replaced
	Anonymous bool   // generated box without a source element
	Name      string // name of the source element, for diagnostics
}

// IsInFlow is true for boxes which take part in the normal flow of their
// parent.
func (b *Box) IsInFlow() bool {
	switch b.Kind {
	case Float, Absolute, Footnote:
		return false
	}
	return true
}

func (b *Box) String() string {
	if b == nil {
		return "<nil box>"
	}
	name := b.Name
	if b.Anonymous {
		name = "anon"
	}
	return fmt.Sprintf("%s#%d(%s)", b.Kind, b.ID, name)
}

// ---------------------------------------------------------------------------

// Tree is an arena of boxes. Box indices are stable for the lifetime of a
// tree. The first box added becomes the root.
type Tree struct {
	boxes []Box
}

// ErrInvalidTree is returned for structurally broken box trees.
var ErrInvalidTree = errors.New("invalid box tree")

// NewTree creates an empty box tree.
func NewTree() *Tree {
	return &Tree{boxes: make([]Box, 0, 64)}
}

// Root returns the index of the root box, or NoBox for an empty tree.
func (t *Tree) Root() BoxID {
	if t == nil || len(t.boxes) == 0 {
		return NoBox
	}
	return 0
}

// Len returns the number of boxes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.boxes)
}

// Box returns the box for an index. It panics for an invalid index.
func (t *Tree) Box(id BoxID) *Box {
	return &t.boxes[id]
}

// Style is a shortcut for t.Box(id).Style.
func (t *Tree) Style(id BoxID) *style.Style {
	return t.boxes[id].Style
}

// Children returns the child indices of a box.
func (t *Tree) Children(id BoxID) []BoxID {
	return t.boxes[id].Children
}

// Add adds a box as the last child of parent and returns its index. If
// parent is NoBox, the box is added as the root. The kind of the box is
// derived from its style (see KindOf). A nil style is replaced by an initial
// style inherited from the parent.
func (t *Tree) Add(parent BoxID, st *style.Style, name string) BoxID {
	var pst *style.Style
	if parent != NoBox {
		pst = t.boxes[parent].Style
	}
	if st == nil {
		st = style.Inherit(pst)
	}
	return t.AddKind(parent, KindOf(st, pst), st, name)
}

// AddKind adds a box with an explicit kind.
func (t *Tree) AddKind(parent BoxID, kind Kind, st *style.Style, name string) BoxID {
	if parent == NoBox && len(t.boxes) > 0 {
		panic("box tree already has a root")
	}
	if st == nil {
		var pst *style.Style
		if parent != NoBox {
			pst = t.boxes[parent].Style
		}
		st = style.Inherit(pst)
	}
	id := BoxID(len(t.boxes))
	t.boxes = append(t.boxes, Box{
		ID:     id,
		Kind:   kind,
		Style:  st,
		Parent: parent,
		Name:   name,
	})
	if parent != NoBox {
		t.boxes[id].Index = len(t.boxes[parent].Children)
		t.boxes[parent].Children = append(t.boxes[parent].Children, id)
	}
	return id
}

// AddText adds a text run. Text directly inside flex or grid containers is
// wrapped into an anonymous item box.
func (t *Tree) AddText(parent BoxID, text string) BoxID {
	pst := t.boxes[parent].Style
	if pst.Display.Contains(style.FlexMode) || pst.Display.Contains(style.GridMode) {
		wrapst := style.Inherit(pst)
		wrapst.Display = style.BlockMode | style.FlowMode
		parent = t.AddKind(parent, KindOf(wrapst, pst), wrapst, "")
		t.boxes[parent].Anonymous = true
		pst = wrapst
	}
	st := style.Inherit(pst)
	id := t.AddKind(parent, Text, st, "#text")
	t.boxes[id].Text = text
	return id
}

// AddReplaced adds a replaced box (e.g., an image) for a resource.
func (t *Tree) AddReplaced(parent BoxID, st *style.Style, resource string) BoxID {
	id := t.Add(parent, st, "replaced")
	b := &t.boxes[id]
	if b.Kind == BlockContainer || b.Kind == Inline {
		b.Kind = Replaced
	}
	b.Resource = resource
	return id
}

// AddAnonymous adds an anonymous box of a given kind.
func (t *Tree) AddAnonymous(parent BoxID, kind Kind, st *style.Style) BoxID {
	id := t.AddKind(parent, kind, st, "")
	t.boxes[id].Anonymous = true
	return id
}

// Walk visits every box of the tree in document order (pre-order), using an
// explicit work list. If f returns false, the children of a box are skipped.
func (t *Tree) Walk(from BoxID, f func(b *Box) bool) {
	if t.Len() == 0 || from == NoBox {
		return
	}
	stack := arraystack.New()
	stack.Push(from)
	for !stack.Empty() {
		v, _ := stack.Pop()
		b := &t.boxes[v.(BoxID)]
		if !f(b) {
			continue
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack.Push(b.Children[i])
		}
	}
}

// Validate checks the structural invariants of a tree: every box but the
// root has exactly one owning parent, which lists it as a child exactly once,
// and every box is reachable from the root.
func (t *Tree) Validate() error {
	if t.Len() == 0 {
		return fmt.Errorf("%w: empty tree", ErrInvalidTree)
	}
	seen := make([]bool, len(t.boxes))
	var err error
	t.Walk(t.Root(), func(b *Box) bool {
		if seen[b.ID] {
			err = fmt.Errorf("%w: box %d has more than one parent", ErrInvalidTree, b.ID)
			return false
		}
		seen[b.ID] = true
		if b.Style == nil {
			err = fmt.Errorf("%w: box %d has no style", ErrInvalidTree, b.ID)
		}
		for _, c := range b.Children {
			if c <= NoBox || int(c) >= len(t.boxes) {
				err = fmt.Errorf("%w: box %d has invalid child %d", ErrInvalidTree, b.ID, c)
				return false
			}
			if t.boxes[c].Parent != b.ID {
				err = fmt.Errorf("%w: box %d does not point to parent %d", ErrInvalidTree, c, b.ID)
			}
		}
		return err == nil
	})
	if err != nil {
		return err
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: box %d is unreachable", ErrInvalidTree, i)
		}
	}
	tracer().Debugf("box tree of %d boxes is valid", len(t.boxes))
	return nil
}

// InFlowChildren returns the children of a box which take part in normal
// flow.
func (t *Tree) InFlowChildren(id BoxID) []BoxID {
	var ch []BoxID
	for _, c := range t.boxes[id].Children {
		if t.boxes[c].IsInFlow() {
			ch = append(ch, c)
		}
	}
	return ch
}

// TextContent returns the concatenated text of all text boxes below id.
func (t *Tree) TextContent(id BoxID) string {
	var s []byte
	t.Walk(id, func(b *Box) bool {
		if b.Kind == Text {
			s = append(s, b.Text...)
		}
		return true
	})
	return string(s)
}
