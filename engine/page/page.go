package page

import (
	"fmt"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/layout"
	"github.com/npillmayer/folio/engine/style"
)

// Page is a fragmentation container of fixed size. It holds the fragments
// placed on it in page coordinates: the fragment of the document's main
// flow and the fragments of the footnotes placed on it.
type Page struct {
	dimen.Rect                 // page size
	Number     int             // page number, starting at 1
	Content    dimen.Rect      // content area
	Flow       *frame.Fragment // main flow, nil for blank pages
	Footnotes  []*frame.Fragment
	Margins    []MarginBox
	Meta       Metadata
	Blank      bool   // page inserted to satisfy a left/right break
	Start      Marker // where the content of the page starts
	End        Marker // where the content of the next page starts
}

// NewPage creates an empty page of a paper size.
func NewPage(papersize dimen.Point) *Page {
	page := &Page{}
	page.Rect.BotR = papersize
	return page
}

// Fragments returns the fragments of the page in painting order.
func (p *Page) Fragments() []*frame.Fragment {
	fs := p.content()
	for _, m := range p.Margins {
		if m.Fragment != nil {
			fs = append(fs, m.Fragment)
		}
	}
	return fs
}

// content returns the fragments of boxes of the document.
func (p *Page) content() []*frame.Fragment {
	var fs []*frame.Fragment
	if p.Flow != nil {
		fs = append(fs, p.Flow)
	}
	return append(fs, p.Footnotes...)
}

func (p *Page) String() string {
	if p.Blank {
		return fmt.Sprintf("page %d (blank)", p.Number)
	}
	return fmt.Sprintf("page %d", p.Number)
}

// IsRecto is true for right-hand pages. The first page is a right-hand
// page.
func (p *Page) IsRecto() bool {
	return p.Number%2 == 1
}

// Marker is a continuation point of pagination. Laying out a page from a
// marker with identical inputs reproduces the page.
type Marker struct {
	Resume    frame.Resume      // continuation of the main flow, nil at the start
	Deferred  []frame.BoxID     // footnotes called on earlier pages, not yet placed
	State     *layout.PageState // page state before the page
	Side      style.Break       // pending left/right break, style.BreakAuto if none
	Exhausted bool              // the main flow is complete
}

// Done is true for a marker past the end of the document.
func (m Marker) Done() bool {
	return m.Exhausted && len(m.Deferred) == 0
}

func (m Marker) clone() Marker {
	c := m
	c.Resume = append(frame.Resume(nil), m.Resume...)
	c.Deferred = append([]frame.BoxID(nil), m.Deferred...)
	if m.State != nil {
		c.State = m.State.Clone()
	}
	return c
}

// MarginPosition names one of the margin boxes of a page.
type MarginPosition uint8

// Margin boxes along the top and the bottom edge of a page.
const (
	TopLeft MarginPosition = iota
	TopCenter
	TopRight
	BottomLeft
	BottomCenter
	BottomRight
	marginCount
)

var marginNames = [marginCount]string{
	"top-left", "top-center", "top-right", "bottom-left", "bottom-center", "bottom-right",
}

func (mp MarginPosition) String() string {
	if mp >= marginCount {
		return "margin?"
	}
	return marginNames[mp]
}

// MarginBox is a generated box in a page margin, e.g., a running header.
type MarginBox struct {
	Position MarginPosition
	Rect     dimen.Rect
	Text     string          // resolved content
	Fragment *frame.Fragment // laid out content, nil if the content is empty
}
