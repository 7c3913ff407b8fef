/*
Package monospace implements a text oracle for monospaced output.

Every grapheme cluster occupies one or two cells, depending on its East
Asian width (UAX#11). The cell width is either fixed or a fraction of the
font size. Break opportunities are found by UAX#14.

The oracle is meant for tests, for terminal-like output and as a fallback
when no font metrics are available.
*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax/uax11"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/percent"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
)

// tracer traces with key 'folio.text'.
func tracer() tracing.Trace {
	return tracing.Select("folio.text")
}

// Oracle measures text in cells.
type Oracle struct {
	cell    percent.Percent // of the font size
	fixed   dimen.Dimen     // if > 0, overrides cell
	context *uax11.Context
}

// New creates a monospace oracle with a cell width of half the font size.
// A nil context selects uax11.LatinContext.
func New(context *uax11.Context) *Oracle {
	if context == nil {
		context = uax11.LatinContext
	}
	return &Oracle{cell: percent.FromInt(50), context: context}
}

// Fixed creates a monospace oracle with a fixed cell width, independent of
// the font size.
func Fixed(cell dimen.Dimen) *Oracle {
	o := New(nil)
	o.fixed = cell
	return o
}

// CellWidth returns the width of a single cell for a font size.
func (o *Oracle) CellWidth(fontsize dimen.Dimen) dimen.Dimen {
	if o.fixed > 0 {
		return o.fixed
	}
	return o.cell.Of(fontsize)
}

// Measure is part of interface text.Oracle. It never fails.
func (o *Oracle) Measure(run string, st *style.Style, avail dimen.Dimen) (text.Measurement, error) {
	fontsize := style.DefaultFontSize
	if st != nil {
		fontsize = st.FontSize
	}
	cell := o.CellWidth(fontsize)
	m := text.Analyze(run, func(g string) dimen.Dimen {
		return dimen.Dimen(uax11.Width([]byte(g), o.context)) * cell
	})
	m.Ascent = fontsize * 4 / 5
	m.Descent = fontsize - m.Ascent
	m.HyphenWidth = cell
	tracer().Debugf("monospace: %q is %d clusters, width %v", run, len(m.Clusters), m.Width)
	return m, nil
}

var _ text.Oracle = (*Oracle)(nil)
