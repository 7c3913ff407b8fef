package frame

import (
	"errors"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// --- API for constraint width solving --------------------------------------

// ErrUnderspecified is reported if a dimension calculation cannot be completed
// because the input values are underspecified. Layout never fails because of
// it; the value falls back to `auto` or zero.
var ErrUnderspecified error = errors.New("box dimensions are underspecified")

// ResolveLength resolves a style value against a base length. If definite is
// false, percentages are indefinite and the second return value is false, as
// it is for keywords.
func ResolveLength(v style.Value, base dimen.Dimen, definite bool) (dimen.Dimen, bool) {
	if v.IsPercent() && (!definite || base == dimen.Infinity) {
		return 0, false
	}
	return v.Resolve(base)
}

// resolveOrZero resolves v against base and returns 0 for anything which is
// not resolvable. Negative results are clamped to 0 if nonneg is set.
func resolveOrZero(v style.Value, base dimen.Dimen, nonneg bool) dimen.Dimen {
	d, ok := ResolveLength(v, base, base != dimen.Infinity)
	if !ok {
		return 0
	}
	if nonneg {
		return dimen.NonNegative(d)
	}
	return d
}

// ResolveEdges resolves padding and border widths for all four edges.
//
// Padding percentages refer to the width of the containing block, for
// vertical padding as well. Negative values are illegal for padding and
// border and are clamped to zero.
func ResolveEdges(st *style.Style, cb ContainingBlock, u *Used) {
	for dir := Top; dir <= Left; dir++ {
		u.Padding[dir] = resolveOrZero(st.Padding[dir], cb.W, true)
		u.Border[dir] = resolveOrZero(st.BorderOf(dir), cb.W, true)
	}
}

// ResolveHorizontal calculates the used horizontal dimensions of a block-level
// box in normal flow. Space is distributed according to the equation
//
//     margin-left + border-width-left + padding-left + width +
//       padding-right + border-width-right + margin-right = width of containing block
//
// An auto width fills the remaining space after fixed margins, borders and
// paddings. Auto margins of a box with a definite width center it; for an
// over-constrained box the right margin absorbs the difference.
// Min- and max-width clamp the result, min winning over max. If clamping
// changes the width, auto margins are distributed anew.
//
// Padding and border are resolved for all edges, vertical margins are left
// for ResolveVertical.
func ResolveHorizontal(st *style.Style, cb ContainingBlock) Used {
	var u Used
	ResolveEdges(st, cb, &u)
	inner := u.InnerWidth()
	if cb.W == dimen.Infinity { // shrink-to-fit contexts measure separately
		u.AutoWidth = true
		u.Margin[Left] = resolveOrZero(st.Margin[Left], cb.W, false)
		u.Margin[Right] = resolveOrZero(st.Margin[Right], cb.W, false)
		return u
	}
	w, specified := SpecifiedWidth(st, cb, inner)
	if !specified {
		u.AutoWidth = true
		// If 'width' is set to 'auto', any other 'auto' values become '0'
		// and 'width' follows from the resulting equality.
		u.Margin[Left] = resolveOrZero(st.Margin[Left], cb.W, false)
		u.Margin[Right] = resolveOrZero(st.Margin[Right], cb.W, false)
		w = dimen.NonNegative(cb.W - u.Margin[Left] - u.Margin[Right] - inner)
		clamped := ClampWidth(st, cb, w, inner)
		if clamped == w {
			u.W = w
			return u
		}
		w = clamped
	} else {
		w = ClampWidth(st, cb, w, inner)
	}
	u.W = w
	distributeHorizontalMarginSpace(st, cb, &u)
	return u
}

// ResolveWithWidth resolves a box whose content width has been determined by
// its formatting context, e.g. for floats, table cells or flex items. Auto
// margins become zero. Vertical values are left for ResolveVertical.
func ResolveWithWidth(st *style.Style, cb ContainingBlock, w dimen.Dimen) Used {
	var u Used
	ResolveEdges(st, cb, &u)
	u.Margin[Left] = resolveOrZero(st.Margin[Left], cb.W, false)
	u.Margin[Right] = resolveOrZero(st.Margin[Right], cb.W, false)
	u.W = dimen.NonNegative(w)
	return u
}

// ResolveMargin resolves a single margin. `auto` and unresolvable
// percentages yield zero.
func ResolveMargin(st *style.Style, cb ContainingBlock, dir int) dimen.Dimen {
	return resolveOrZero(st.Margin[dir], cb.W, false)
}

// distributeHorizontalMarginSpace distributes space into left and right margins
// after the border-box has been fixed.
func distributeHorizontalMarginSpace(st *style.Style, cb ContainingBlock, u *Used) {
	remaining := cb.W - u.BorderBoxWidth()
	left, right := st.Margin[Left], st.Margin[Right]
	switch {
	case left.IsAuto() && right.IsAuto():
		if remaining < 0 {
			u.Margin[Left], u.Margin[Right] = 0, remaining
		} else {
			u.Margin[Left] = remaining / 2
			u.Margin[Right] = remaining - u.Margin[Left]
		}
	case left.IsAuto():
		u.Margin[Right] = resolveOrZero(right, cb.W, false)
		u.Margin[Left] = remaining - u.Margin[Right]
	default: // right auto, or over-constrained: right margin absorbs (LTR)
		u.Margin[Left] = resolveOrZero(left, cb.W, false)
		u.Margin[Right] = remaining - u.Margin[Left]
	}
	tracer().Debugf("margins distributed: left=%v right=%v", u.Margin[Left], u.Margin[Right])
}

// SpecifiedWidth returns the content width for a box with a specified width.
// box-sizing `border-box` subtracts border and padding, never below zero.
func SpecifiedWidth(st *style.Style, cb ContainingBlock, inner dimen.Dimen) (dimen.Dimen, bool) {
	return contentSize(st.Width, cb.W, cb.W != dimen.Infinity, inner, st.BoxSizing)
}

// SpecifiedHeight returns the content height for a box with a specified
// height, if it can be resolved against the containing block.
func SpecifiedHeight(st *style.Style, cb ContainingBlock, inner dimen.Dimen) (dimen.Dimen, bool) {
	return contentSize(st.Height, cb.H, cb.DefiniteH, inner, st.BoxSizing)
}

func contentSize(v style.Value, base dimen.Dimen, definite bool, inner dimen.Dimen,
	sizing style.BoxSizing) (dimen.Dimen, bool) {
	//
	d, ok := ResolveLength(v, base, definite)
	if !ok {
		return 0, false
	}
	if sizing == style.BorderBox {
		d -= inner
	}
	return dimen.NonNegative(d), true
}

// ClampWidth clamps a content width by min-width and max-width. If both
// conflict, min-width wins. Unresolvable constraints are ignored.
func ClampWidth(st *style.Style, cb ContainingBlock, w, inner dimen.Dimen) dimen.Dimen {
	definite := cb.W != dimen.Infinity
	return clampSize(w, st.MinWidth, st.MaxWidth, cb.W, definite, inner, st.BoxSizing)
}

// ClampHeight clamps a content height by min-height and max-height. If both
// conflict, min-height wins. Percentages against an indefinite containing
// block height are ignored.
func ClampHeight(st *style.Style, cb ContainingBlock, h, inner dimen.Dimen) dimen.Dimen {
	return clampSize(h, st.MinHeight, st.MaxHeight, cb.H, cb.DefiniteH, inner, st.BoxSizing)
}

func clampSize(d dimen.Dimen, minv, maxv style.Value, base dimen.Dimen, definite bool,
	inner dimen.Dimen, sizing style.BoxSizing) dimen.Dimen {
	//
	if max, ok := contentSize(maxv, base, definite, inner, sizing); ok && d > max {
		d = max
	}
	if min, ok := contentSize(minv, base, definite, inner, sizing); ok && d < min {
		d = min
	}
	return dimen.NonNegative(d)
}

// ResolveVertical calculates vertical margins and, if possible, the height of
// a box. Auto margins become zero. If the height is not definite (`auto`, or
// a percentage against an indefinite containing block), u.AutoHeight is set
// and the formatting context sets the height after laying out the children
// (and then calls ClampHeight).
func ResolveVertical(st *style.Style, cb ContainingBlock, u *Used) {
	u.Margin[Top] = resolveOrZero(st.Margin[Top], cb.W, false)
	u.Margin[Bottom] = resolveOrZero(st.Margin[Bottom], cb.W, false)
	h, ok := SpecifiedHeight(st, cb, u.InnerHeight())
	if !ok {
		u.AutoHeight = true
		u.H = 0
		return
	}
	u.AutoHeight = false
	u.H = ClampHeight(st, cb, h, u.InnerHeight())
}

// ShrinkToFit returns the shrink-to-fit width for a given available width:
// min(max(minContent, available), maxContent).
func ShrinkToFit(minContent, maxContent, available dimen.Dimen) dimen.Dimen {
	return dimen.NonNegative(dimen.Min(dimen.Max(minContent, available), maxContent))
}

// ResolveInsets resolves the four inset properties (top, right, bottom, left)
// against a containing block. Unresolvable insets are reported as false.
func ResolveInsets(st *style.Style, cb ContainingBlock) (inset [4]dimen.Dimen, set [4]bool) {
	for dir := Top; dir <= Left; dir++ {
		base, definite := cb.W, true
		if dir == Top || dir == Bottom {
			base, definite = cb.H, cb.DefiniteH
		}
		inset[dir], set[dir] = ResolveLength(st.Inset[dir], base, definite)
	}
	return
}
