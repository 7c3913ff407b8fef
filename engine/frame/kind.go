package frame

import "github.com/npillmayer/folio/engine/style"

// Kind is the closed set of box kinds.
type Kind uint8

// Box kinds. Line, Page and MarginBox are generated by layout and will not
// occur in an input tree.
const (
	BlockContainer Kind = iota
	Inline
	Line
	TableWrapper
	Table
	RowGroup
	Row
	Cell
	Column
	ColumnGroup
	Caption
	FlexContainer
	FlexItem
	GridContainer
	GridItem
	Float
	Absolute
	Page
	MarginBox
	Replaced
	Text
	Footnote
	MultiColumn
	KindCount // number of kinds; not a kind
)

var kindNames = [KindCount]string{
	"block", "inline", "line", "table-wrapper", "table", "row-group", "row", "cell",
	"column", "column-group", "caption", "flex", "flex-item", "grid", "grid-item",
	"float", "absolute", "page", "margin-box", "replaced", "text", "footnote",
	"multicolumn",
}

func (k Kind) String() string {
	if k >= KindCount {
		return "kind?"
	}
	return kindNames[k]
}

// IsTablePart is true for kinds which occur inside table boxes only.
func (k Kind) IsTablePart() bool {
	switch k {
	case RowGroup, Row, Cell, Column, ColumnGroup, Caption:
		return true
	}
	return false
}

// IsInlineLevel is true for kinds which take part in an inline formatting
// context.
func (k Kind) IsInlineLevel() bool {
	return k == Inline || k == Text
}

// KindOf derives the kind of a box from its style and the style of its
// parent (which may be nil). Positioning takes precedence over display, the
// parent's display decides about flex and grid items, and the box's own
// display decides for everything else.
func KindOf(st *style.Style, parent *style.Style) Kind {
	switch {
	case st.Position.IsOutOfFlow():
		return Absolute
	case st.IsFootnote():
		return Footnote
	case parent != nil && parent.Display.Contains(style.FlexMode):
		return FlexItem
	case parent != nil && parent.Display.Contains(style.GridMode):
		return GridItem
	case st.IsFloating():
		return Float
	}
	d := st.Display
	switch {
	case d.Contains(style.TableRowGroupMode), d.Contains(style.TableHeaderMode),
		d.Contains(style.TableFooterMode):
		return RowGroup
	case d.Contains(style.TableRowMode):
		return Row
	case d.Contains(style.TableCellMode):
		return Cell
	case d.Contains(style.TableColumnMode):
		return Column
	case d.Contains(style.TableColGroupMode):
		return ColumnGroup
	case d.Contains(style.TableCaptionMode):
		return Caption
	case d.IsInlineLevel():
		return Inline
	case d.Contains(style.TableMode):
		return Table
	case d.Contains(style.FlexMode):
		return FlexContainer
	case d.Contains(style.GridMode):
		return GridContainer
	case st.IsMultiColumn():
		return MultiColumn
	}
	return BlockContainer
}
