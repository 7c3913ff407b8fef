package page

import (
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

// Config describes the pages of a document.
type Config struct {
	Size    dimen.Point    // paper size
	Margins [4]dimen.Dimen // page margins, clockwise from the top
	// MarginBoxes holds the styles of generated margin boxes. Their content
	// is given by property `content`, e.g.
	//
	//     content: "Chapter " string(chapter) " – page " counter(page)
	//
	MarginBoxes map[MarginPosition]*style.Style
	// FootnoteGap separates the footnote area from the main flow.
	FootnoteGap dimen.Dimen
}

// Paper returns a configuration for a paper size with equal margins, e.g.
//
//     page.Paper(dimen.DINA4, 2*dimen.CM)
//
func Paper(sz dimen.Size, margin dimen.Dimen) Config {
	c := Config{Size: dimen.Point{X: sz.W, Y: sz.H}}
	for dir := range c.Margins {
		c.Margins[dir] = margin
	}
	c.FootnoteGap = 6 * dimen.PT
	return c
}

// ContentArea returns the rectangle of the content area of a page.
func (c Config) ContentArea() dimen.Rect {
	return dimen.Rect{
		TopL: dimen.Point{X: c.Margins[style.Left], Y: c.Margins[style.Top]},
		BotR: dimen.Point{X: c.Size.X - c.Margins[style.Right], Y: c.Size.Y - c.Margins[style.Bottom]},
	}
}

// Validate checks that the content area of a page is not empty.
func (c Config) Validate() error {
	if c.Size.X <= 0 || c.Size.Y <= 0 {
		return core.Error(core.EINVALID, "page size %v×%v", c.Size.X, c.Size.Y)
	}
	for _, m := range c.Margins {
		if m < 0 {
			return core.Error(core.EINVALID, "negative page margin %v", m)
		}
	}
	if c.ContentArea().IsEmpty() {
		return core.Error(core.EINVALID, "page margins leave no content area")
	}
	if c.FootnoteGap < 0 {
		return core.Error(core.EINVALID, "negative footnote gap %v", c.FootnoteGap)
	}
	return nil
}

// marginRect returns the rectangle of a margin box: the top and bottom page
// margins are split into three boxes of equal width above and below the
// content area.
func (c Config) marginRect(mp MarginPosition) dimen.Rect {
	area := c.ContentArea()
	w := area.Width() / 3
	var r dimen.Rect
	switch mp {
	case TopLeft, TopCenter, TopRight:
		r.TopL.Y, r.BotR.Y = 0, area.TopL.Y
	default:
		r.TopL.Y, r.BotR.Y = area.BotR.Y, c.Size.Y
	}
	col := dimen.Dimen(int(mp) % 3)
	r.TopL.X = area.TopL.X + col*w
	r.BotR.X = r.TopL.X + w
	if col == 2 {
		r.BotR.X = area.BotR.X
	}
	return r
}
