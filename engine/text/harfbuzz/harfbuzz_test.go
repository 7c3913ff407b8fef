package harfbuzz

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/facemetrics"
)

func TestLang(t *testing.T) {
	tag, err := language.Parse("de_DE")
	require.NoError(t, err)
	assert.Equal(t, "de-de", string(Lang(tag)))
}

func TestShapedMeasure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.text")
	defer teardown()
	//
	o := GoRegular()
	st := style.Initial()
	st.FontSize = 12 * dimen.PT
	m, err := o.Measure("MW il", st, 0)
	require.NoError(t, err)
	require.Len(t, m.Clusters, 5)
	assert.Greater(t, m.Width, dimen.Dimen(0))
	assert.Equal(t, m.Width, m.WidthOf(0, 5), "cluster widths add up to the run width")
	assert.Greater(t, m.WidthOf(0, 1), m.WidthOf(3, 4), "M is wider than i")
	// shaped advances agree with the face metrics of an unkerned run
	ref, err := facemetrics.GoRegular().Measure("MW il", st, 0)
	require.NoError(t, err)
	assert.InDelta(t, float64(ref.Width), float64(m.Width), float64(dimen.PT))
	assert.Equal(t, ref.Ascent, m.Ascent)
	assert.Equal(t, ref.HyphenWidth, m.HyphenWidth)
	_, ok := m.BreakAt(3)
	assert.True(t, ok, "break opportunities are kept")
}

func TestShapedSoftHyphen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.text")
	defer teardown()
	//
	m, err := GoRegular().Measure("hy\u00ADphen", nil, 0)
	require.NoError(t, err)
	b, ok := m.BreakAt(4)
	require.True(t, ok)
	assert.Equal(t, text.BreakSoftHyphen, b.Rank)
	assert.Equal(t, dimen.Dimen(0), m.WidthOf(2, 4), "a soft hyphen is invisible")
}

func TestInvalidFont(t *testing.T) {
	_, err := New([]byte("no font"))
	assert.Error(t, err)
}
