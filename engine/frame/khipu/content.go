package khipu

import (
	"strings"

	"github.com/npillmayer/folio/engine/frame"
)

// ContentText returns the text content of a box after white-space
// processing, as used for `content()` values of string-set and for
// bookmark labels. Text of block-level descendants is separated by a
// single space.
func ContentText(tree *frame.Tree, id frame.BoxID) string {
	kh := NewKhipu()
	collapsed := true
	tree.Walk(id, func(b *frame.Box) bool {
		switch {
		case b.Kind == frame.Text:
			s, space := PrepareText(b.Text, b.Style.WhiteSpace, collapsed)
			if s != "" {
				kh.appendText(b.ID, s)
				collapsed = space
			}
		case b.ID != id && b.Kind != frame.Inline && !collapsed:
			kh.appendText(b.ID, " ")
			collapsed = true
		}
		return true
	})
	s := kh.TextRange(0, kh.TextLength())
	if collapsed {
		s = strings.TrimSuffix(s, " ")
	}
	return s
}
