package monospace

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

func TestCellWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.text")
	defer teardown()
	//
	o := New(nil)
	st := style.Initial()
	st.FontSize = 20 * dimen.PX
	m, err := o.Measure("abc", st, 0)
	require.NoError(t, err)
	assert.Equal(t, 30*dimen.PX, m.Width)
	assert.Equal(t, 16*dimen.PX, m.Ascent)
	assert.Equal(t, 4*dimen.PX, m.Descent)
	assert.Equal(t, 10*dimen.PX, m.HyphenWidth)
}

func TestWideCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.text")
	defer teardown()
	//
	o := Fixed(10 * dimen.PX)
	m, err := o.Measure("日本", style.Initial(), 0)
	require.NoError(t, err)
	assert.Len(t, m.Clusters, 2)
	assert.Equal(t, 40*dimen.PX, m.Width, "East Asian wide characters take two cells")
	assert.Equal(t, 3, m.Clusters[1].Offset)
}

func TestEmptyRun(t *testing.T) {
	o := Fixed(10 * dimen.PX)
	m, err := o.Measure("", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, dimen.Dimen(0), m.Width)
	assert.Empty(t, m.Breaks)
}
