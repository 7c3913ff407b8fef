/*
Package page breaks a laid out document into pages.

A Paginator drives layout of the main flow of a box tree page by page. Per
page it runs a small state machine:

    Accumulating → BreakNeeded → Splitting → (next page) … → Done

Accumulating lays out as much of the flow as fits into the page's content
area; layout itself finds the best break point (forced breaks, break
avoidance, orphans and widows). Footnotes called on the page are laid out
into a footnote area at the bottom of the page. If they do not fit, the
paginator shrinks the main area and retries (BreakNeeded), a bounded number
of times. Footnotes which still do not fit are deferred to the next page.
Splitting emits the page together with a Marker for the rest of the
content. Every page has to advance the content; pagination is bounded by a
step limit derived from the size of the box tree.

Counters, named strings and the page number are carried from page to page
in a layout.PageState, never in global state. Margin boxes (running headers
and footers) are generated from content templates after the last page is
known, so counter(pages) resolves to the total number of pages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package page

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.page'.
func tracer() tracing.Trace {
	return tracing.Select("folio.page")
}
