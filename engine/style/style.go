package style

import (
	"github.com/npillmayer/folio/core/dimen"
)

// For padding, margins, etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top int = iota
	Right
	Bottom
	Left
)

// StringSet is one entry of CSS `string-set`. Value is a literal, or the
// text content of the element if it is the keyword `content()`.
type StringSet struct {
	Name  string
	Value string
}

// CounterOp is one entry of `counter-reset` or `counter-increment`.
type CounterOp struct {
	Name  string
	Value int
}

// Style is a validated style record for a box. Values are computed, but not
// yet resolved to used values: percentages and `auto` are resolved during
// layout, against the box's containing block.
//
// Styles are shared between boxes and fragments and must not be modified
// after the box tree has been built.
type Style struct {
	Display   DisplayMode
	Position  Position
	Float     FloatMode
	Clear     Clear
	BoxSizing BoxSizing
	Overflow  Overflow

	Inset       [4]Value // top, right, bottom, left
	Margin      [4]Value
	Padding     [4]Value
	BorderWidth [4]Value
	BorderStyle [4]BorderStyle

	Width, Height       Value
	MinWidth, MinHeight Value
	MaxWidth, MaxHeight Value
	AspectRatio         float64 // 0 = none

	BreakBefore        Break
	BreakAfter         Break
	BreakInside        Break
	Orphans, Widows    int // 0 = use layout registers
	BoxDecorationBreak DecorationBreak

	FontSize            dimen.Dimen
	LineHeight          Value // Auto = normal
	TextIndent          Value
	TextAlign           TextAlign
	WhiteSpace          WhiteSpace
	Hyphens             Hyphens
	Lang                string
	VerticalAlign       VerticalAlign
	VerticalAlignLength Value

	FlexDirection  FlexDirection
	FlexWrap       FlexWrap
	FlexGrow       float64
	FlexShrink     float64
	FlexBasis      Value
	Order          int
	JustifyContent Alignment
	AlignItems     Alignment
	AlignSelf      Alignment
	AlignContent   Alignment
	JustifyItems   Alignment
	JustifySelf    Alignment
	RowGap         Value
	ColumnGap      Value

	GridTemplateColumns []Track
	GridTemplateRows    []Track
	GridAutoColumns     []Track
	GridAutoRows        []Track
	GridAutoFlow        GridAutoFlow
	GridColumn          GridPlacement
	GridRow             GridPlacement

	TableLayout    TableLayout
	BorderCollapse BorderCollapse
	BorderSpacing  [2]Value // horizontal, vertical
	CaptionSide    CaptionSide
	ColSpan        int
	RowSpan        int

	ColumnCount int // 0 = auto
	ColumnWidth Value

	StringSet        []StringSet
	CounterReset     []CounterOp
	CounterIncrement []CounterOp
	BookmarkLevel    int // 0 = none
	BookmarkLabel    string
	Link             string // link target, e.g. "#chapter-2"
	Anchor           string // id of the element, target for links
	Content          string // margin box content template
}

// DefaultFontSize is the initial font size.
const DefaultFontSize = 16 * dimen.PX

// Initial returns a style with initial values for every property.
func Initial() *Style {
	st := &Style{
		Display:     InlineMode | FlowMode,
		Width:       Auto,
		Height:      Auto,
		MinWidth:    Auto,
		MinHeight:   Auto,
		MaxWidth:    None,
		MaxHeight:   None,
		FontSize:    DefaultFontSize,
		LineHeight:  Auto,
		TextIndent:  Zero,
		FlexShrink:  1,
		FlexBasis:   Auto,
		AlignItems:  AlignNormal,
		AlignSelf:   AlignAuto,
		JustifySelf: AlignAuto,
		RowGap:      Auto,
		ColumnGap:   Auto,
		ColSpan:     1,
		RowSpan:     1,
		ColumnWidth: Auto,
	}
	st.VerticalAlignLength = Zero
	for dir := Top; dir <= Left; dir++ {
		st.Inset[dir] = Auto
		st.Margin[dir] = Zero
		st.Padding[dir] = Zero
		st.BorderWidth[dir] = Zero
	}
	st.BorderSpacing = [2]Value{Zero, Zero}
	return st
}

// Inherit creates a style with initial values, except for inherited
// properties, which are copied from parent. parent may be nil.
func Inherit(parent *Style) *Style {
	st := Initial()
	if parent == nil {
		return st
	}
	st.FontSize = parent.FontSize
	st.LineHeight = parent.LineHeight
	st.TextAlign = parent.TextAlign
	st.WhiteSpace = parent.WhiteSpace
	st.Hyphens = parent.Hyphens
	st.Lang = parent.Lang
	st.Orphans = parent.Orphans
	st.Widows = parent.Widows
	st.BorderCollapse = parent.BorderCollapse
	st.BorderSpacing = parent.BorderSpacing
	st.CaptionSide = parent.CaptionSide
	st.JustifyItems = parent.JustifyItems // legacy keyword inheritance is not modelled
	return st
}

// Clone returns a shallow copy of st. Slices are shared.
func (st *Style) Clone() *Style {
	c := *st
	return &c
}

// BorderOf returns the used border width for an edge: zero for borders
// of style `none` or `hidden`.
func (st *Style) BorderOf(dir int) Value {
	if !st.BorderStyle[dir].IsVisible() {
		return Zero
	}
	return st.BorderWidth[dir]
}

// IsFloating is true for left and right floats.
func (st *Style) IsFloating() bool {
	return st.Float == FloatLeft || st.Float == FloatRight
}

// IsFootnote is true for boxes floated into the footnote area.
func (st *Style) IsFootnote() bool {
	return st.Float == FloatFootnote
}

// IsOutOfFlow is true for absolutely positioned and floated boxes.
func (st *Style) IsOutOfFlow() bool {
	return st.Position.IsOutOfFlow() || st.IsFloating() || st.IsFootnote()
}

// EstablishesBFC is true for boxes which establish a new block formatting
// context for their contents.
func (st *Style) EstablishesBFC() bool {
	return st.Display.Contains(FlowRoot) || st.IsFloating() || st.Position.IsOutOfFlow() ||
		(st.Overflow != OverflowVisible && st.Display.IsBlockLevel()) ||
		st.Display.Contains(FlexMode) || st.Display.Contains(GridMode) ||
		st.Display.Contains(TableMode) || st.IsMultiColumn()
}

// IsMultiColumn is true if st establishes a multi-column container.
func (st *Style) IsMultiColumn() bool {
	return st.ColumnCount > 1 || (st.ColumnWidth.IsAbsolute() && st.ColumnWidth.Unwrap() > 0)
}

// UsedLineHeight returns the line height for this style. `normal` is
// delegated to a callback, usually backed by the layout registers.
// Unitless line heights are stored as percentages.
func (st *Style) UsedLineHeight(normal func(fontsize dimen.Dimen) dimen.Dimen) dimen.Dimen {
	switch {
	case st.LineHeight.IsAbsolute():
		return st.LineHeight.Unwrap()
	case st.LineHeight.IsPercent():
		return st.LineHeight.Percent().Of(st.FontSize)
	}
	return normal(st.FontSize)
}
