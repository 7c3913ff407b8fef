/*
Package harfbuzz implements a text oracle which shapes runs with HarfBuzz.

Shaping turns the characters of a run into positioned glyphs, applying
kerning and ligatures of the font. The advances of the shaped glyphs are
attributed to the grapheme clusters of the run. Vertical metrics and the
width of an inserted hyphen are taken from the font's face metrics.
*/
package harfbuzz

import (
	"bytes"
	"fmt"
	"sync"
	"unicode/utf8"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/facemetrics"
)

// tracer traces with key 'folio.text'.
func tracer() tracing.Trace {
	return tracing.Select("folio.text")
}

// Oracle measures text by shaping it. An Oracle is safe for concurrent use.
type Oracle struct {
	metrics *facemetrics.Oracle
	upem    int64
	mu      sync.Mutex // guards font
	font    *hb.Font
}

// New creates a shaping oracle for a TrueType or OpenType font.
func New(data []byte) (*Oracle, error) {
	metrics, err := facemetrics.New(data)
	if err != nil {
		return nil, err
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("harfbuzz: %w", err)
	}
	face, err := hbtt.Parse(bytes.NewReader(data), true)
	if err != nil {
		return nil, fmt.Errorf("harfbuzz: %w", err)
	}
	return &Oracle{
		metrics: metrics,
		upem:    int64(sf.UnitsPerEm()),
		font:    hb.NewFont(face),
	}, nil
}

// GoRegular creates a shaping oracle for the Go Regular font.
func GoRegular() *Oracle {
	o, err := New(goregular.TTF)
	if err != nil {
		panic(err) // embedded font is valid
	}
	return o
}

// Lang returns a language tag as a HarfBuzz language.
func Lang(tag language.Tag) hblang.Language {
	return hblang.NewLanguage(tag.String())
}

// Measure is part of interface text.Oracle. Clusters and break
// opportunities are the same as for the face metrics of the font; cluster
// widths are replaced by the shaped advances.
func (o *Oracle) Measure(run string, st *style.Style, avail dimen.Dimen) (text.Measurement, error) {
	m, err := o.metrics.Measure(run, st, avail)
	if err != nil || run == "" {
		return m, err
	}
	size := style.DefaultFontSize
	if st != nil && st.FontSize > 0 {
		size = st.FontSize
	}
	adv := o.shape(run, st)
	m.Width = 0
	r := 0 // rune index of the cluster
	for i := range m.Clusters {
		c := &m.Clusters[i]
		end := len(run)
		if i+1 < len(m.Clusters) {
			end = m.Clusters[i+1].Offset
		}
		n := utf8.RuneCountInString(run[c.Offset:end])
		if c.Width > 0 { // newlines and soft hyphens stay empty
			var units int64
			for _, a := range adv[r : r+n] {
				units += a
			}
			c.Width = dimen.Dimen(units * int64(size) / o.upem)
		}
		m.Width += c.Width
		r += n
	}
	return m, nil
}

// shape returns the advances of a run in font units, per rune. The advances
// of a glyph cluster are attributed to its first rune.
func (o *Oracle) shape(run string, st *style.Style) []int64 {
	runes := []rune(run)
	buf := hb.NewBuffer()
	buf.Props.Direction = hb.LeftToRight
	if st != nil && st.Lang != "" {
		if tag, err := language.Parse(st.Lang); err == nil {
			buf.Props.Language = Lang(tag)
		}
	}
	buf.AddRunes(runes, 0, len(runes))
	o.mu.Lock()
	buf.Shape(o.font, nil)
	o.mu.Unlock()
	adv := make([]int64, len(runes))
	for i, info := range buf.Info {
		c := int(info.Cluster)
		if c < 0 || c >= len(adv) {
			tracer().Debugf("harfbuzz: glyph %d outside of run", i)
			continue
		}
		adv[c] += int64(buf.Pos[i].XAdvance)
	}
	return adv
}

var _ text.Oracle = (*Oracle)(nil)
