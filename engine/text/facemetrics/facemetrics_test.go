package facemetrics

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
)

func TestGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.text")
	defer teardown()
	//
	o := GoRegular()
	st := style.Initial()
	st.FontSize = 12 * dimen.PT
	m, err := o.Measure("MW il", st, 0)
	require.NoError(t, err)
	assert.Greater(t, m.Width, dimen.Dimen(0))
	assert.Greater(t, m.Ascent, dimen.Dimen(0))
	assert.Greater(t, m.Descent, dimen.Dimen(0))
	assert.Less(t, m.Ascent, 12*dimen.PT)
	assert.Equal(t, m.Width, m.WidthOf(0, 5), "cluster widths add up to the run width")
	assert.Greater(t, m.WidthOf(0, 1), m.WidthOf(3, 4), "M is wider than i")
	//
	st2 := st.Clone()
	st2.FontSize = 24 * dimen.PT
	m2, err := o.Measure("MW il", st2, 0)
	require.NoError(t, err)
	assert.InDelta(t, float64(2*m.Width), float64(m2.Width), float64(dimen.PT))
}

func TestInvalidFont(t *testing.T) {
	_, err := New([]byte("no font"))
	assert.Error(t, err)
}
