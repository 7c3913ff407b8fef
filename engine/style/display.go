package style

import (
	"bytes"
	"strings"
)

// DisplayMode is a type for CSS property "display".
// It combines an outer display type (how a box takes part in its parent's
// formatting context) and an inner display type (which formatting context it
// establishes for its children).
type DisplayMode uint32

// Flags for box context and display mode (outer and inner).
const (
	NoMode             DisplayMode = 0          // unset or error condition
	DisplayNone        DisplayMode = 0x00000001 // CSS outer display = none
	FlowMode           DisplayMode = 0x00000002 // CSS inner display = flow
	BlockMode          DisplayMode = 0x00000004 // CSS outer display = block
	InlineMode         DisplayMode = 0x00000008 // CSS outer display = inline
	ListItemMode       DisplayMode = 0x00000010 // CSS list-item display
	FlowRoot           DisplayMode = 0x00000020 // CSS inner display = flow-root
	FlexMode           DisplayMode = 0x00000040 // CSS inner display = flex
	GridMode           DisplayMode = 0x00000080 // CSS inner display = grid
	TableMode          DisplayMode = 0x00000100 // CSS inner display = table
	ContentsMode       DisplayMode = 0x00000200 // CSS contents display mode
	TableRowGroupMode  DisplayMode = 0x00000400 // table-row-group
	TableHeaderMode    DisplayMode = 0x00000800 // table-header-group
	TableFooterMode    DisplayMode = 0x00001000 // table-footer-group
	TableRowMode       DisplayMode = 0x00002000 // table-row
	TableCellMode      DisplayMode = 0x00004000 // table-cell
	TableColumnMode    DisplayMode = 0x00008000 // table-column
	TableColGroupMode  DisplayMode = 0x00010000 // table-column-group
	TableCaptionMode   DisplayMode = 0x00020000 // table-caption
	tableInternalModes DisplayMode = TableRowGroupMode | TableHeaderMode | TableFooterMode |
		TableRowMode | TableCellMode | TableColumnMode | TableColGroupMode | TableCaptionMode
)

var allDisplayModes = []DisplayMode{
	DisplayNone, FlowMode, BlockMode, InlineMode, ListItemMode, FlowRoot, FlexMode,
	GridMode, TableMode, ContentsMode, TableRowGroupMode, TableHeaderMode, TableFooterMode,
	TableRowMode, TableCellMode, TableColumnMode, TableColGroupMode, TableCaptionMode,
}

var displayModeNames = map[DisplayMode]string{
	DisplayNone: "none", FlowMode: "flow", BlockMode: "block", InlineMode: "inline",
	ListItemMode: "list-item", FlowRoot: "flow-root", FlexMode: "flex", GridMode: "grid",
	TableMode: "table", ContentsMode: "contents", TableRowGroupMode: "table-row-group",
	TableHeaderMode: "table-header-group", TableFooterMode: "table-footer-group",
	TableRowMode: "table-row", TableCellMode: "table-cell", TableColumnMode: "table-column",
	TableColGroupMode: "table-column-group", TableCaptionMode: "table-caption",
}

// Set sets a given atomic mode within this display mode.
func (disp *DisplayMode) Set(d DisplayMode) {
	*disp = (*disp) | d
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// IsBlockLevel is true for boxes taking part in a block formatting context.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp.Contains(BlockMode) || disp.Contains(ListItemMode)
}

// IsInlineLevel is true for boxes taking part in an inline formatting context.
func (disp DisplayMode) IsInlineLevel() bool {
	return disp.Contains(InlineMode)
}

// IsTableInternal is true for rows, cells, columns, groups and captions.
func (disp DisplayMode) IsTableInternal() bool {
	return disp&tableInternalModes > 0
}

// IsAtomicInline is true for inline-level boxes establishing a new formatting
// context (inline-block, inline-flex, inline-grid, inline-table).
func (disp DisplayMode) IsAtomicInline() bool {
	return disp.Contains(InlineMode) && (disp.Contains(FlowRoot) || disp.Contains(FlexMode) ||
		disp.Contains(GridMode) || disp.Contains(TableMode))
}

func (disp DisplayMode) String() string {
	if disp == NoMode {
		return "NoMode"
	}
	var b bytes.Buffer
	first := true
	for _, m := range allDisplayModes {
		if disp.Contains(m) {
			if !first {
				b.WriteString(" ")
			}
			first = false
			b.WriteString(displayModeNames[m])
		}
	}
	return b.String()
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	if disp.Contains(FlexMode) {
		return "▤"
	} else if disp.Contains(GridMode) {
		return "◰"
	} else if disp.Contains(TableMode) || disp.IsTableInternal() {
		return "▥"
	} else if disp.Contains(ListItemMode) {
		return "▣"
	} else if disp.Contains(BlockMode) {
		return "▩"
	} else if disp.Contains(InlineMode) {
		return "►"
	} else if disp == FlowMode {
		return "▧"
	}
	return "?"
}

// ParseDisplay maps a CSS display keyword (one- or two-value syntax) to a
// display mode.
func ParseDisplay(s string) (DisplayMode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "none":
		return DisplayNone, nil
	case "contents":
		return ContentsMode, nil
	case "block", "block flow":
		return BlockMode | FlowMode, nil
	case "flow-root", "block flow-root":
		return BlockMode | FlowRoot, nil
	case "inline", "inline flow":
		return InlineMode | FlowMode, nil
	case "inline-block", "inline flow-root":
		return InlineMode | FlowRoot, nil
	case "list-item":
		return BlockMode | FlowMode | ListItemMode, nil
	case "flex", "block flex":
		return BlockMode | FlexMode, nil
	case "inline-flex", "inline flex":
		return InlineMode | FlexMode, nil
	case "grid", "block grid":
		return BlockMode | GridMode, nil
	case "inline-grid", "inline grid":
		return InlineMode | GridMode, nil
	case "table", "block table":
		return BlockMode | TableMode, nil
	case "inline-table", "inline table":
		return InlineMode | TableMode, nil
	case "table-row-group":
		return TableRowGroupMode, nil
	case "table-header-group":
		return TableHeaderMode, nil
	case "table-footer-group":
		return TableFooterMode, nil
	case "table-row":
		return TableRowMode, nil
	case "table-cell":
		return TableCellMode | FlowRoot, nil
	case "table-column":
		return TableColumnMode, nil
	case "table-column-group":
		return TableColGroupMode, nil
	case "table-caption":
		return TableCaptionMode | FlowRoot, nil
	}
	return NoMode, ErrIllegalValue
}
