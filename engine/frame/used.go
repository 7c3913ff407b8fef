package frame

import (
	"fmt"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// For padding, margins, etc. 4-way values always start at the top and travel
// clockwise.
const (
	Top    = style.Top
	Right  = style.Right
	Bottom = style.Bottom
	Left   = style.Left
)

// Used holds the used values of a box, i.e. its final geometry.
//
// X and Y are the top left corner of the margin box, in page coordinates.
// W and H are the size of the content box. Margins are the box's own used
// margins; collapsing with adjacent margins is reflected by the position of
// the box, not by these values.
type Used struct {
	X, Y    dimen.Dimen
	W, H    dimen.Dimen
	Margin  [4]dimen.Dimen
	Border  [4]dimen.Dimen
	Padding [4]dimen.Dimen

	AutoWidth  bool // width was `auto` (or indefinite) before layout
	AutoHeight bool // height depends on content
}

// InnerWidth returns border plus padding, left and right.
func (u *Used) InnerWidth() dimen.Dimen {
	return u.Border[Left] + u.Padding[Left] + u.Padding[Right] + u.Border[Right]
}

// InnerHeight returns border plus padding, top and bottom.
func (u *Used) InnerHeight() dimen.Dimen {
	return u.Border[Top] + u.Padding[Top] + u.Padding[Bottom] + u.Border[Bottom]
}

// BorderBoxWidth returns the width of the border box.
func (u *Used) BorderBoxWidth() dimen.Dimen {
	return u.W + u.InnerWidth()
}

// BorderBoxHeight returns the height of the border box.
func (u *Used) BorderBoxHeight() dimen.Dimen {
	return u.H + u.InnerHeight()
}

// OuterWidth returns the width of the margin box.
func (u *Used) OuterWidth() dimen.Dimen {
	return u.Margin[Left] + u.BorderBoxWidth() + u.Margin[Right]
}

// OuterHeight returns the height of the margin box.
func (u *Used) OuterHeight() dimen.Dimen {
	return u.Margin[Top] + u.BorderBoxHeight() + u.Margin[Bottom]
}

// MarginBox returns the margin box rectangle.
func (u *Used) MarginBox() dimen.Rect {
	return dimen.RectAt(u.X, u.Y, dimen.Size{W: u.OuterWidth(), H: u.OuterHeight()})
}

// BorderBox returns the border box rectangle.
func (u *Used) BorderBox() dimen.Rect {
	return dimen.RectAt(u.X+u.Margin[Left], u.Y+u.Margin[Top],
		dimen.Size{W: u.BorderBoxWidth(), H: u.BorderBoxHeight()})
}

// PaddingBox returns the padding box rectangle.
func (u *Used) PaddingBox() dimen.Rect {
	return dimen.RectAt(u.X+u.Margin[Left]+u.Border[Left], u.Y+u.Margin[Top]+u.Border[Top],
		dimen.Size{
			W: u.W + u.Padding[Left] + u.Padding[Right],
			H: u.H + u.Padding[Top] + u.Padding[Bottom],
		})
}

// ContentBox returns the content box rectangle.
func (u *Used) ContentBox() dimen.Rect {
	return dimen.RectAt(u.ContentX(), u.ContentY(), dimen.Size{W: u.W, H: u.H})
}

// ContentX returns the x-coordinate of the content box.
func (u *Used) ContentX() dimen.Dimen {
	return u.X + u.Margin[Left] + u.Border[Left] + u.Padding[Left]
}

// ContentY returns the y-coordinate of the content box.
func (u *Used) ContentY() dimen.Dimen {
	return u.Y + u.Margin[Top] + u.Border[Top] + u.Padding[Top]
}

// BorderTop returns the y-coordinate of the top border edge.
func (u *Used) BorderTop() dimen.Dimen {
	return u.Y + u.Margin[Top]
}

// BorderBottom returns the y-coordinate of the bottom border edge.
func (u *Used) BorderBottom() dimen.Dimen {
	return u.BorderTop() + u.BorderBoxHeight()
}

// PlaceBorderBox moves the box such that its border box starts at (x, y).
func (u *Used) PlaceBorderBox(x, y dimen.Dimen) {
	u.X = x - u.Margin[Left]
	u.Y = y - u.Margin[Top]
}

// DebugString returns a textual representation of a box's dimensions.
// Intended for debugging.
func (u *Used) DebugString() string {
	s := fmt.Sprintf("used{ (%v,%v) w=%v, h=%v\n", u.X, u.Y, u.W, u.H)
	s += fmt.Sprintf("   p.top=%v, p.right=%v, p.bottom=%v, p.left=%v\n",
		u.Padding[Top], u.Padding[Right], u.Padding[Bottom], u.Padding[Left])
	s += fmt.Sprintf("   b.top=%v, b.right=%v, b.bottom=%v, b.left=%v\n",
		u.Border[Top], u.Border[Right], u.Border[Bottom], u.Border[Left])
	s += fmt.Sprintf("   m.top=%v, m.right=%v, m.bottom=%v, m.left=%v\n",
		u.Margin[Top], u.Margin[Right], u.Margin[Bottom], u.Margin[Left])
	s += "}"
	return s
}

// ---------------------------------------------------------------------------

// ContainingBlock is the rectangle against which a box's percentages and
// `auto` values resolve.
//
// X and Y are the origin of the containing block in page coordinates, which
// is relevant for absolutely positioned boxes only. An indefinite height is
// signalled by DefiniteH == false; H then holds dimen.Infinity.
type ContainingBlock struct {
	X, Y      dimen.Dimen
	W, H      dimen.Dimen
	DefiniteH bool
}

// CBIndefinite creates a containing block of width w and indefinite height.
func CBIndefinite(w dimen.Dimen) ContainingBlock {
	return ContainingBlock{W: w, H: dimen.Infinity}
}

// CBDefinite creates a containing block of definite width and height.
func CBDefinite(w, h dimen.Dimen) ContainingBlock {
	return ContainingBlock{W: w, H: h, DefiniteH: true}
}

// HeightBase returns the reference height for percentages, or dimen.Infinity
// if the height is indefinite.
func (cb ContainingBlock) HeightBase() dimen.Dimen {
	if !cb.DefiniteH {
		return dimen.Infinity
	}
	return cb.H
}

func (cb ContainingBlock) String() string {
	if !cb.DefiniteH {
		return fmt.Sprintf("cb{%v × indefinite}", cb.W)
	}
	return fmt.Sprintf("cb{%v × %v}", cb.W, cb.H)
}
