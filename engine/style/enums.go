package style

import (
	"fmt"
	"strings"
)

// Position is an enum type for the CSS position property.
type Position uint8

// Enum values for type Position
const (
	PositionStatic   Position = iota // CSS static (default)
	PositionRelative                 // CSS relative
	PositionAbsolute                 // CSS absolute
	PositionFixed                    // CSS fixed
	PositionSticky                   // CSS sticky, laid out as relative
)

// IsOutOfFlow is true for absolute and fixed positioning.
func (p Position) IsOutOfFlow() bool {
	return p == PositionAbsolute || p == PositionFixed
}

// IsPositioned is true for every position but static.
func (p Position) IsPositioned() bool {
	return p != PositionStatic
}

// FloatMode is an enum type for the CSS float property.
type FloatMode uint8

// Float values. FloatFootnote moves a box into the page's footnote area.
const (
	FloatNone FloatMode = iota
	FloatLeft
	FloatRight
	FloatFootnote
)

// Clear is an enum type for the CSS clear property.
type Clear uint8

const (
	ClearNone Clear = iota
	ClearLeft
	ClearRight
	ClearBoth
)

// BoxSizing selects which box a specified width or height constrains.
type BoxSizing uint8

const (
	ContentBox BoxSizing = iota
	BorderBox
)

// Overflow is an enum type for the CSS overflow property.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowClip
	OverflowScroll
	OverflowAuto
)

// Break is an enum type for the CSS properties break-before, break-after and
// break-inside.
type Break uint8

const (
	BreakAuto Break = iota
	BreakAvoid
	BreakAvoidPage
	BreakAvoidColumn
	BreakPage
	BreakColumn
	BreakLeft
	BreakRight
	BreakRecto
	BreakVerso
)

// IsForced is true for break values which force a page break.
func (b Break) IsForced(inColumn bool) bool {
	switch b {
	case BreakPage, BreakLeft, BreakRight, BreakRecto, BreakVerso:
		return true
	case BreakColumn:
		return inColumn
	}
	return false
}

// IsAvoid is true for break values which ask to avoid a break.
func (b Break) IsAvoid(inColumn bool) bool {
	switch b {
	case BreakAvoid, BreakAvoidPage:
		return true
	case BreakAvoidColumn:
		return inColumn
	}
	return false
}

// DecorationBreak is an enum type for the CSS box-decoration-break property.
type DecorationBreak uint8

const (
	DecorationSlice DecorationBreak = iota
	DecorationClone
)

// TextAlign is an enum type for the CSS text-align property.
type TextAlign uint8

const (
	TextAlignStart TextAlign = iota
	TextAlignEnd
	TextAlignCenter
	TextAlignJustify
)

// WhiteSpace is an enum type for the CSS white-space property.
type WhiteSpace uint8

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpacePre
	WhiteSpaceNoWrap
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// CollapsesSpace is true if runs of white space collapse to a single space.
func (ws WhiteSpace) CollapsesSpace() bool {
	return ws == WhiteSpaceNormal || ws == WhiteSpaceNoWrap || ws == WhiteSpacePreLine
}

// Wraps is true if lines may be broken at soft wrap opportunities.
func (ws WhiteSpace) Wraps() bool {
	return ws != WhiteSpacePre && ws != WhiteSpaceNoWrap
}

// Hyphens is an enum type for the CSS hyphens property.
type Hyphens uint8

const (
	HyphensManual Hyphens = iota
	HyphensNone
	HyphensAuto
)

// VerticalAlign is an enum type for the keywords of CSS vertical-align.
// A length or percentage is stored separately (see Style.VerticalAlignLength).
type VerticalAlign uint8

const (
	VAlignBaseline VerticalAlign = iota
	VAlignTop
	VAlignBottom
	VAlignMiddle
	VAlignSub
	VAlignSuper
	VAlignTextTop
	VAlignTextBottom
	VAlignLength
)

// FlexDirection is an enum type for the CSS flex-direction property.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexRowReverse
	FlexColumn
	FlexColumnReverse
)

// IsColumn is true for column directions.
func (d FlexDirection) IsColumn() bool {
	return d == FlexColumn || d == FlexColumnReverse
}

// IsReverse is true for reversed directions.
func (d FlexDirection) IsReverse() bool {
	return d == FlexRowReverse || d == FlexColumnReverse
}

// FlexWrap is an enum type for the CSS flex-wrap property.
type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

// Alignment covers the values of justify-content, align-items, align-self,
// align-content, justify-items and justify-self.
type Alignment uint8

const (
	AlignAuto Alignment = iota // align-self/justify-self: use the container's value
	AlignNormal
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
	AlignBaseline
	AlignSpaceBetween
	AlignSpaceAround
	AlignSpaceEvenly
)

// TableLayout is an enum type for the CSS table-layout property.
type TableLayout uint8

const (
	TableLayoutAuto TableLayout = iota
	TableLayoutFixed
)

// BorderCollapse is an enum type for the CSS border-collapse property.
type BorderCollapse uint8

const (
	BorderSeparate BorderCollapse = iota
	BorderCollapsed
)

// BorderStyle is an enum type for CSS border styles. The order of the
// constants is the priority used for collapsing borders, lowest first
// (`hidden` always wins).
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderInset
	BorderGroove
	BorderOutset
	BorderRidge
	BorderDotted
	BorderDashed
	BorderSolid
	BorderDouble
	BorderHidden
)

// IsVisible is true for border styles which take up space.
func (b BorderStyle) IsVisible() bool {
	return b != BorderNone && b != BorderHidden
}

// CaptionSide is an enum type for the CSS caption-side property.
type CaptionSide uint8

const (
	CaptionTop CaptionSide = iota
	CaptionBottom
)

// GridAutoFlow is an enum type for the CSS grid-auto-flow property.
type GridAutoFlow uint8

const (
	GridFlowRow GridAutoFlow = iota
	GridFlowColumn
	GridFlowRowDense
	GridFlowColumnDense
)

// IsColumn is true if auto-placement fills columns first.
func (f GridAutoFlow) IsColumn() bool {
	return f == GridFlowColumn || f == GridFlowColumnDense
}

// IsDense is true for dense packing.
func (f GridAutoFlow) IsDense() bool {
	return f == GridFlowRowDense || f == GridFlowColumnDense
}

// --- Parsing of keywords ---------------------------------------------------

func keyword[T ~uint8](s string, table map[string]T) (T, error) {
	k := strings.TrimSpace(strings.ToLower(s))
	if v, ok := table[k]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrIllegalValue, s)
}

var positionKeywords = map[string]Position{
	"static": PositionStatic, "relative": PositionRelative, "absolute": PositionAbsolute,
	"fixed": PositionFixed, "sticky": PositionSticky,
}

var floatKeywords = map[string]FloatMode{
	"none": FloatNone, "left": FloatLeft, "right": FloatRight, "footnote": FloatFootnote,
	"inline-start": FloatLeft, "inline-end": FloatRight,
}

var clearKeywords = map[string]Clear{
	"none": ClearNone, "left": ClearLeft, "right": ClearRight, "both": ClearBoth,
}

var boxSizingKeywords = map[string]BoxSizing{
	"content-box": ContentBox, "border-box": BorderBox,
}

var overflowKeywords = map[string]Overflow{
	"visible": OverflowVisible, "hidden": OverflowHidden, "clip": OverflowClip,
	"scroll": OverflowScroll, "auto": OverflowAuto,
}

var breakKeywords = map[string]Break{
	"auto": BreakAuto, "avoid": BreakAvoid, "avoid-page": BreakAvoidPage,
	"avoid-column": BreakAvoidColumn, "page": BreakPage, "column": BreakColumn,
	"left": BreakLeft, "right": BreakRight, "recto": BreakRecto, "verso": BreakVerso,
	"always": BreakPage,
}

var decorationBreakKeywords = map[string]DecorationBreak{
	"slice": DecorationSlice, "clone": DecorationClone,
}

var textAlignKeywords = map[string]TextAlign{
	"start": TextAlignStart, "left": TextAlignStart, "end": TextAlignEnd,
	"right": TextAlignEnd, "center": TextAlignCenter, "justify": TextAlignJustify,
}

var whiteSpaceKeywords = map[string]WhiteSpace{
	"normal": WhiteSpaceNormal, "pre": WhiteSpacePre, "nowrap": WhiteSpaceNoWrap,
	"pre-wrap": WhiteSpacePreWrap, "pre-line": WhiteSpacePreLine,
}

var hyphensKeywords = map[string]Hyphens{
	"manual": HyphensManual, "none": HyphensNone, "auto": HyphensAuto,
}

var verticalAlignKeywords = map[string]VerticalAlign{
	"baseline": VAlignBaseline, "top": VAlignTop, "bottom": VAlignBottom,
	"middle": VAlignMiddle, "sub": VAlignSub, "super": VAlignSuper,
	"text-top": VAlignTextTop, "text-bottom": VAlignTextBottom,
}

var flexDirectionKeywords = map[string]FlexDirection{
	"row": FlexRow, "row-reverse": FlexRowReverse, "column": FlexColumn,
	"column-reverse": FlexColumnReverse,
}

var flexWrapKeywords = map[string]FlexWrap{
	"nowrap": NoWrap, "wrap": Wrap, "wrap-reverse": WrapReverse,
}

var alignmentKeywords = map[string]Alignment{
	"auto": AlignAuto, "normal": AlignNormal, "stretch": AlignStretch,
	"start": AlignStart, "flex-start": AlignStart, "self-start": AlignStart, "left": AlignStart,
	"end": AlignEnd, "flex-end": AlignEnd, "self-end": AlignEnd, "right": AlignEnd,
	"center": AlignCenter, "baseline": AlignBaseline, "space-between": AlignSpaceBetween,
	"space-around": AlignSpaceAround, "space-evenly": AlignSpaceEvenly,
}

var tableLayoutKeywords = map[string]TableLayout{
	"auto": TableLayoutAuto, "fixed": TableLayoutFixed,
}

var borderCollapseKeywords = map[string]BorderCollapse{
	"separate": BorderSeparate, "collapse": BorderCollapsed,
}

var borderStyleKeywords = map[string]BorderStyle{
	"none": BorderNone, "hidden": BorderHidden, "dotted": BorderDotted,
	"dashed": BorderDashed, "solid": BorderSolid, "double": BorderDouble,
	"groove": BorderGroove, "ridge": BorderRidge, "inset": BorderInset, "outset": BorderOutset,
}

var captionSideKeywords = map[string]CaptionSide{
	"top": CaptionTop, "bottom": CaptionBottom,
}

var gridAutoFlowKeywords = map[string]GridAutoFlow{
	"row": GridFlowRow, "column": GridFlowColumn, "row dense": GridFlowRowDense,
	"dense": GridFlowRowDense, "column dense": GridFlowColumnDense,
}
