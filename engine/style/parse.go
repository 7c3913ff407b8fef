package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/hashicorp/go-multierror"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/percent"
)

// ParseDeclarations parses a CSS declaration block, e.g. the content of an
// HTML `style` attribute, and applies the declarations to st in source order.
// Declarations marked `!important` are applied after all others.
//
// Invalid declarations are skipped; all errors are collected and returned
// as a multierror, leaving every valid declaration applied.
func (st *Style) ParseDeclarations(text string) error {
	if t := strings.TrimSpace(text); t != "" && !strings.HasSuffix(t, ";") {
		text = t + ";" // the parser drops an unterminated last declaration
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalValue, err)
	}
	return st.Apply(decls)
}

// Apply applies a list of parsed declarations to st.
func (st *Style) Apply(decls []*css.Declaration) error {
	var errs error
	for pass := 0; pass < 2; pass++ {
		for _, d := range decls {
			if d.Important != (pass == 1) {
				continue
			}
			if err := st.Set(d.Property, d.Value); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs
}

// Set sets a single property from its CSS text value. Shorthands (margin,
// padding, border-*, inset, flex, flex-flow, gap, columns, grid-area
// components) are expanded. Relative lengths (`em`, `rem`) resolve against
// the font size set so far.
func (st *Style) Set(prop, value string) error {
	prop = strings.TrimSpace(strings.ToLower(prop))
	value = strings.TrimSpace(value)
	err := st.set(prop, value)
	if err != nil {
		tracer().Debugf("style: cannot set %s = %q: %v", prop, value, err)
		return fmt.Errorf("property %s: %w", prop, err)
	}
	return nil
}

//nolint:gocyclo
func (st *Style) set(prop, value string) (err error) {
	switch prop {
	case "display":
		st.Display, err = ParseDisplay(value)
	case "position":
		st.Position, err = keyword(value, positionKeywords)
	case "float":
		st.Float, err = keyword(value, floatKeywords)
	case "clear":
		st.Clear, err = keyword(value, clearKeywords)
	case "box-sizing":
		st.BoxSizing, err = keyword(value, boxSizingKeywords)
	case "overflow":
		st.Overflow, err = keyword(value, overflowKeywords)
	case "top", "right", "bottom", "left":
		return st.setEdge(&st.Inset, edgeOf(prop), value)
	case "inset":
		return st.setFourWay(&st.Inset, value)
	case "margin":
		return st.setFourWay(&st.Margin, value)
	case "margin-top", "margin-right", "margin-bottom", "margin-left":
		return st.setEdge(&st.Margin, edgeOf(prop), value)
	case "padding":
		return st.setFourWay(&st.Padding, value)
	case "padding-top", "padding-right", "padding-bottom", "padding-left":
		return st.setEdge(&st.Padding, edgeOf(prop), value)
	case "border-width":
		return st.setFourWay(&st.BorderWidth, value)
	case "border-top-width", "border-right-width", "border-bottom-width", "border-left-width":
		return st.setEdge(&st.BorderWidth, edgeOf(prop), value)
	case "border-style":
		return st.setBorderStyles(value, Top, Right, Bottom, Left)
	case "border-top-style", "border-right-style", "border-bottom-style", "border-left-style":
		return st.setBorderStyles(value, edgeOf(prop))
	case "border":
		return st.setBorder(value, Top, Right, Bottom, Left)
	case "border-top", "border-right", "border-bottom", "border-left":
		return st.setBorder(value, edgeOf(prop))
	case "width":
		st.Width, err = st.parseLength(value)
	case "height":
		st.Height, err = st.parseLength(value)
	case "min-width":
		st.MinWidth, err = st.parseLength(value)
	case "min-height":
		st.MinHeight, err = st.parseLength(value)
	case "max-width":
		st.MaxWidth, err = st.parseLength(value)
	case "max-height":
		st.MaxHeight, err = st.parseLength(value)
	case "aspect-ratio":
		st.AspectRatio, err = parseRatio(value)
	case "break-before", "page-break-before":
		st.BreakBefore, err = keyword(value, breakKeywords)
	case "break-after", "page-break-after":
		st.BreakAfter, err = keyword(value, breakKeywords)
	case "break-inside", "page-break-inside":
		st.BreakInside, err = keyword(value, breakKeywords)
	case "orphans":
		st.Orphans, err = parsePositiveInt(value)
	case "widows":
		st.Widows, err = parsePositiveInt(value)
	case "box-decoration-break":
		st.BoxDecorationBreak, err = keyword(value, decorationBreakKeywords)
	case "font-size":
		var v Value
		if v, err = st.parseLength(value); err == nil {
			if v.IsPercent() {
				st.FontSize = v.Percent().Of(st.FontSize)
			} else if v.IsAbsolute() {
				st.FontSize = v.Unwrap()
			} else {
				err = ErrIllegalValue
			}
		}
	case "line-height":
		st.LineHeight, err = st.parseLineHeight(value)
	case "text-indent":
		st.TextIndent, err = st.parseLength(value)
	case "text-align":
		st.TextAlign, err = keyword(value, textAlignKeywords)
	case "white-space":
		st.WhiteSpace, err = keyword(value, whiteSpaceKeywords)
	case "hyphens":
		st.Hyphens, err = keyword(value, hyphensKeywords)
	case "lang":
		st.Lang = value
	case "vertical-align":
		if st.VerticalAlign, err = keyword(value, verticalAlignKeywords); err != nil {
			if st.VerticalAlignLength, err = st.parseLength(value); err == nil {
				st.VerticalAlign = VAlignLength
			}
		}
	case "flex-direction":
		st.FlexDirection, err = keyword(value, flexDirectionKeywords)
	case "flex-wrap":
		st.FlexWrap, err = keyword(value, flexWrapKeywords)
	case "flex-flow":
		for _, f := range strings.Fields(value) {
			if d, e := keyword(f, flexDirectionKeywords); e == nil {
				st.FlexDirection = d
			} else if w, e := keyword(f, flexWrapKeywords); e == nil {
				st.FlexWrap = w
			} else {
				return e
			}
		}
	case "flex":
		return st.setFlex(value)
	case "flex-grow":
		st.FlexGrow, err = parseFactor(value)
	case "flex-shrink":
		st.FlexShrink, err = parseFactor(value)
	case "flex-basis":
		st.FlexBasis, err = st.parseLength(value)
		if value == "content" {
			st.FlexBasis, err = MaxContent, nil
		}
	case "order":
		st.Order, err = strconv.Atoi(value)
	case "justify-content":
		st.JustifyContent, err = keyword(value, alignmentKeywords)
	case "align-items":
		st.AlignItems, err = keyword(value, alignmentKeywords)
	case "align-self":
		st.AlignSelf, err = keyword(value, alignmentKeywords)
	case "align-content":
		st.AlignContent, err = keyword(value, alignmentKeywords)
	case "justify-items":
		st.JustifyItems, err = keyword(value, alignmentKeywords)
	case "justify-self":
		st.JustifySelf, err = keyword(value, alignmentKeywords)
	case "row-gap":
		st.RowGap, err = st.parseLength(value)
	case "column-gap":
		st.ColumnGap, err = st.parseLength(value)
	case "gap":
		f := strings.Fields(value)
		if len(f) == 0 || len(f) > 2 {
			return ErrIllegalValue
		}
		if st.RowGap, err = st.parseLength(f[0]); err != nil {
			return err
		}
		st.ColumnGap = st.RowGap
		if len(f) == 2 {
			st.ColumnGap, err = st.parseLength(f[1])
		}
	case "grid-template-columns":
		st.GridTemplateColumns, err = ParseTracks(value)
	case "grid-template-rows":
		st.GridTemplateRows, err = ParseTracks(value)
	case "grid-auto-columns":
		st.GridAutoColumns, err = ParseTracks(value)
	case "grid-auto-rows":
		st.GridAutoRows, err = ParseTracks(value)
	case "grid-auto-flow":
		st.GridAutoFlow, err = keyword(strings.Join(strings.Fields(value), " "), gridAutoFlowKeywords)
	case "grid-column":
		st.GridColumn, err = ParsePlacement(value)
	case "grid-row":
		st.GridRow, err = ParsePlacement(value)
	case "grid-column-start":
		st.GridColumn.Start, err = parseGridLine(value)
	case "grid-column-end":
		st.GridColumn.End, err = parseGridLine(value)
	case "grid-row-start":
		st.GridRow.Start, err = parseGridLine(value)
	case "grid-row-end":
		st.GridRow.End, err = parseGridLine(value)
	case "table-layout":
		st.TableLayout, err = keyword(value, tableLayoutKeywords)
	case "border-collapse":
		st.BorderCollapse, err = keyword(value, borderCollapseKeywords)
	case "border-spacing":
		f := strings.Fields(value)
		if len(f) == 0 || len(f) > 2 {
			return ErrIllegalValue
		}
		if st.BorderSpacing[0], err = st.parseLength(f[0]); err != nil {
			return err
		}
		st.BorderSpacing[1] = st.BorderSpacing[0]
		if len(f) == 2 {
			st.BorderSpacing[1], err = st.parseLength(f[1])
		}
	case "caption-side":
		st.CaptionSide, err = keyword(value, captionSideKeywords)
	case "colspan", "-folio-colspan":
		st.ColSpan, err = parsePositiveInt(value)
	case "rowspan", "-folio-rowspan":
		st.RowSpan, err = parsePositiveInt(value)
	case "column-count":
		if value == "auto" {
			st.ColumnCount = 0
		} else {
			st.ColumnCount, err = parsePositiveInt(value)
		}
	case "column-width":
		st.ColumnWidth, err = st.parseLength(value)
	case "columns":
		for _, f := range strings.Fields(value) {
			if n, e := strconv.Atoi(f); e == nil && n > 0 {
				st.ColumnCount = n
			} else if v, e := st.parseLength(f); e == nil {
				st.ColumnWidth = v
			} else {
				return e
			}
		}
	case "string-set":
		st.StringSet, err = parseStringSet(value)
	case "counter-reset":
		st.CounterReset, err = parseCounterOps(value, 0)
	case "counter-increment":
		st.CounterIncrement, err = parseCounterOps(value, 1)
	case "bookmark-level":
		if value == "none" {
			st.BookmarkLevel = 0
		} else {
			st.BookmarkLevel, err = parsePositiveInt(value)
		}
	case "bookmark-label":
		st.BookmarkLabel = unquote(value)
	case "link", "-folio-link":
		st.Link = unquote(value)
	case "id", "-folio-anchor":
		st.Anchor = unquote(value)
	case "content":
		st.Content = value
	default:
		return fmt.Errorf("%w: unknown property", ErrIllegalValue)
	}
	return
}

var edgeNames = map[string]int{"top": Top, "right": Right, "bottom": Bottom, "left": Left}

func edgeOf(prop string) int {
	for _, part := range strings.Split(prop, "-") {
		if dir, ok := edgeNames[part]; ok {
			return dir
		}
	}
	return Top
}

func (st *Style) setEdge(vals *[4]Value, dir int, value string) error {
	v, err := st.parseLength(value)
	if err != nil {
		return err
	}
	vals[dir] = v
	return nil
}

// setFourWay expands the CSS 1–4 value shorthand syntax.
func (st *Style) setFourWay(vals *[4]Value, value string) error {
	f := strings.Fields(value)
	var v [4]Value
	for i := range f {
		if i > 3 {
			return ErrIllegalValue
		}
		var err error
		if v[i], err = st.parseLength(f[i]); err != nil {
			return err
		}
	}
	switch len(f) {
	case 1:
		v[1], v[2], v[3] = v[0], v[0], v[0]
	case 2:
		v[2], v[3] = v[0], v[1]
	case 3:
		v[3] = v[1]
	case 4:
	default:
		return ErrIllegalValue
	}
	*vals = v
	return nil
}

func (st *Style) setBorderStyles(value string, dirs ...int) error {
	f := strings.Fields(value)
	if len(dirs) == 4 && len(f) > 1 { // four-way syntax
		var bs [4]BorderStyle
		for i := range f {
			if i > 3 {
				return ErrIllegalValue
			}
			var err error
			if bs[i], err = keyword(f[i], borderStyleKeywords); err != nil {
				return err
			}
		}
		switch len(f) {
		case 2:
			bs[2], bs[3] = bs[0], bs[1]
		case 3:
			bs[3] = bs[1]
		}
		st.BorderStyle = bs
		return nil
	}
	bs, err := keyword(value, borderStyleKeywords)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		st.BorderStyle[dir] = bs
	}
	return nil
}

// setBorder handles `border: 1px solid red`. Colors are ignored.
func (st *Style) setBorder(value string, dirs ...int) error {
	width, bstyle := Value{unit: UnitAbsolute, d: 3 * dimen.PX}, BorderNone // CSS: medium
	for _, f := range strings.Fields(value) {
		if bs, err := keyword(f, borderStyleKeywords); err == nil {
			bstyle = bs
		} else if w, err := st.parseBorderWidth(f); err == nil {
			width = w
		}
	}
	for _, dir := range dirs {
		st.BorderWidth[dir] = width
		st.BorderStyle[dir] = bstyle
	}
	return nil
}

func (st *Style) parseBorderWidth(s string) (Value, error) {
	switch s {
	case "thin":
		return Px(1), nil
	case "medium":
		return Px(3), nil
	case "thick":
		return Px(5), nil
	}
	v, err := st.parseLength(s)
	if err != nil || !v.IsAbsolute() {
		return Unset, ErrIllegalValue
	}
	return v, nil
}

// setFlex expands the `flex` shorthand.
func (st *Style) setFlex(value string) error {
	switch value {
	case "none":
		st.FlexGrow, st.FlexShrink, st.FlexBasis = 0, 0, Auto
		return nil
	case "auto":
		st.FlexGrow, st.FlexShrink, st.FlexBasis = 1, 1, Auto
		return nil
	case "initial":
		st.FlexGrow, st.FlexShrink, st.FlexBasis = 0, 1, Auto
		return nil
	}
	f := strings.Fields(value)
	if len(f) == 0 || len(f) > 3 {
		return ErrIllegalValue
	}
	grow, shrink, basis := 1.0, 1.0, Zero // flex: <n> sets the basis to 0
	var factors int
	for _, tok := range f {
		if n, err := parseFactor(tok); err == nil && factors < 2 {
			if factors == 0 {
				grow = n
			} else {
				shrink = n
			}
			factors++
			continue
		}
		v, err := st.parseLength(tok)
		if err != nil {
			return err
		}
		basis = v
	}
	st.FlexGrow, st.FlexShrink, st.FlexBasis = grow, shrink, basis
	return nil
}

// parseLength parses a length, percentage or keyword. `em` and `rem` are
// resolved against the current font size resp. the initial font size.
func (st *Style) parseLength(s string) (Value, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "rem") {
		return scaledLength(s, "rem", DefaultFontSize)
	}
	if strings.HasSuffix(s, "em") {
		return scaledLength(s, "em", st.FontSize)
	}
	return ParseValue(s)
}

func scaledLength(s, unit string, base dimen.Dimen) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, unit), 64)
	if err != nil {
		return Unset, fmt.Errorf("%w: %q", ErrIllegalValue, s)
	}
	return Abs(dimen.Scale(base, f)), nil
}

func (st *Style) parseLineHeight(s string) (Value, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return Unset, ErrIllegalValue
		}
		return Value{p: percent.FromFloat(f * 100), unit: UnitPercent}, nil
	}
	return st.parseLength(s)
}

func parseRatio(s string) (float64, error) {
	if s == "auto" {
		return 0, nil
	}
	parts := strings.Split(s, "/")
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || w < 0 {
		return 0, ErrIllegalValue
	}
	if len(parts) == 1 {
		return w, nil
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || h <= 0 {
		return 0, ErrIllegalValue
	}
	return w / h, nil
}

func parseFactor(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, ErrIllegalValue
	}
	return f, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrIllegalValue, s)
	}
	return n, nil
}

// string-set: chapter content(), title "Preface"
func parseStringSet(s string) ([]StringSet, error) {
	if s == "none" {
		return nil, nil
	}
	var sets []StringSet
	for _, entry := range strings.Split(s, ",") {
		f := strings.SplitN(strings.TrimSpace(entry), " ", 2)
		if len(f) != 2 {
			return nil, fmt.Errorf("%w: string-set %q", ErrIllegalValue, entry)
		}
		sets = append(sets, StringSet{Name: f[0], Value: unquote(strings.TrimSpace(f[1]))})
	}
	return sets, nil
}

// counter-reset: chapter 0 section
func parseCounterOps(s string, dflt int) ([]CounterOp, error) {
	if s == "none" {
		return nil, nil
	}
	var ops []CounterOp
	for _, f := range strings.Fields(s) {
		if n, err := strconv.Atoi(f); err == nil {
			if len(ops) == 0 {
				return nil, fmt.Errorf("%w: counter value without name", ErrIllegalValue)
			}
			ops[len(ops)-1].Value = n
			continue
		}
		ops = append(ops, CounterOp{Name: f, Value: dflt})
	}
	return ops, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
