// Package facemetrics implements a text oracle on top of font.Face
// metrics. By default it uses the Go Regular font, which is embedded in
// package golang.org/x/image/font/gofont/goregular.
package facemetrics

import (
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
)

// tracer traces with key 'folio.text'.
func tracer() tracing.Trace {
	return tracing.Select("folio.text")
}

// Oracle measures text with the advances of a font. Faces are created per
// font size on demand. An Oracle is safe for concurrent use.
type Oracle struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[dimen.Dimen]font.Face
}

// New creates an oracle for an OpenType or TrueType font.
func New(data []byte) (*Oracle, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("facemetrics: %w", err)
	}
	return &Oracle{font: f, faces: make(map[dimen.Dimen]font.Face)}, nil
}

// GoRegular creates an oracle for the Go Regular font.
func GoRegular() *Oracle {
	o, err := New(goregular.TTF)
	if err != nil {
		panic(err) // embedded font is valid
	}
	return o
}

// face returns the face for a font size. The caller must hold o.mu.
func (o *Oracle) face(size dimen.Dimen) (font.Face, error) {
	if f, ok := o.faces[size]; ok {
		return f, nil
	}
	// with 72 DPI, one pixel of the face is one big point
	f, err := opentype.NewFace(o.font, &opentype.FaceOptions{
		Size:    size.Points(),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	o.faces[size] = f
	return f, nil
}

// fromFixed converts a 26.6 fixed point number of big points to a Dimen.
func fromFixed(x fixed.Int26_6) dimen.Dimen {
	return dimen.Dimen(int64(x) * int64(dimen.BP) / 64)
}

// Measure is part of interface text.Oracle.
func (o *Oracle) Measure(run string, st *style.Style, avail dimen.Dimen) (text.Measurement, error) {
	size := style.DefaultFontSize
	if st != nil && st.FontSize > 0 {
		size = st.FontSize
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	face, err := o.face(size)
	if err != nil {
		return text.Measurement{}, err
	}
	var missing []rune
	m := text.Analyze(run, func(g string) dimen.Dimen {
		var w fixed.Int26_6
		prev := rune(-1)
		for _, r := range g {
			adv, ok := face.GlyphAdvance(r)
			if !ok {
				missing = append(missing, r)
			}
			if prev >= 0 {
				w += face.Kern(prev, r)
			}
			w += adv
			prev = r
		}
		return fromFixed(w)
	})
	metrics := face.Metrics()
	m.Ascent = fromFixed(metrics.Ascent)
	m.Descent = fromFixed(metrics.Descent)
	if adv, ok := face.GlyphAdvance('-'); ok {
		m.HyphenWidth = fromFixed(adv)
	}
	if len(missing) > 0 {
		tracer().Debugf("facemetrics: no glyphs for %q", string(missing))
	}
	return m, nil
}

var _ text.Oracle = (*Oracle)(nil)
