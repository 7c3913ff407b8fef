package layout

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/monospace"
)

type countingOracle struct {
	oracle text.Oracle
	calls  atomic.Int32
}

func (co *countingOracle) Measure(run string, st *style.Style, avail dimen.Dimen) (text.Measurement, error) {
	co.calls.Add(1)
	return co.oracle.Measure(run, st, avail)
}

func TestPremeasure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	texts := []string{"one two  three", "four five", "six", "seven eight nine ten"}
	natural := text.Sizes{"logo.png": text.Size(40*dimen.PX, 30*dimen.PX)}
	document := func() (*frame.Tree, frame.BoxID) {
		tree := paragraphs(t, texts...)
		return tree, tree.AddReplaced(tree.Root(), block(t, ""), "logo.png")
	}
	tree, img := document()
	co := &countingOracle{oracle: monospace.Fixed(8 * dimen.PX)}
	lc, err := NewContext(tree, Options{Oracle: co, Intrinsic: natural})
	require.NoError(t, err)
	require.NoError(t, lc.Premeasure(context.Background()))
	tree.Walk(tree.Root(), func(b *frame.Box) bool {
		if b.Kind == frame.Text {
			assert.True(t, lc.slots[b.ID].ok, "text box %d is premeasured", b.ID)
		}
		return true
	})
	assert.True(t, lc.slots[img].sized)
	assert.True(t, lc.slots[img].known)
	calls := co.calls.Load()
	assert.GreaterOrEqual(t, calls, int32(len(texts)))
	//
	flow := layoutAt(t, lc, 80*dimen.PX, dimen.Infinity, nil)
	fi := flow.Fragment.Find(img)
	require.NotNil(t, fi)
	assert.Equal(t, 40*dimen.PX, fi.Used.W)
	// layout without premeasuring gives the same result
	ptree, _ := document()
	plain, err := NewContext(ptree, Options{Oracle: monospace.Fixed(8 * dimen.PX), Intrinsic: natural})
	require.NoError(t, err)
	expected := layoutAt(t, plain, 80*dimen.PX, dimen.Infinity, nil)
	if diff := cmp.Diff(expected, flow); diff != "" {
		t.Errorf("premeasured layout differs (-plain +premeasured):\n%s", diff)
	}
}

func TestPremeasureCanceled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	lc := newContext(t, paragraphs(t, "some text", "more text"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lc.Premeasure(ctx)
	require.Error(t, err)
	assert.Equal(t, core.ELIMIT, core.Code(err))
}
