/*
Package text defines the interfaces to the measurement oracles the layout
engine queries for inline content and replaced elements.

Layout never shapes text itself. For every run of text in an inline
formatting context it asks an Oracle for the run's width, its ascent and
descent, the widths of its grapheme clusters and a list of ranked break
opportunities. Replaced content (images and the like) is sized by an
IntrinsicOracle.

Oracles are external collaborators and may fail. Package text provides
wrappers for caching measurements (Cached) and for turning failures into
zero-sized measurements plus a collected diagnostic (Guard). Reference
oracles live in sub-packages monospace and facemetrics; package harfbuzz
shapes runs with HarfBuzz.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package text

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.text'.
func tracer() tracing.Trace {
	return tracing.Select("folio.text")
}
