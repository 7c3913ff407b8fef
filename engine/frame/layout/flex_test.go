package layout

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
)

// flexRow creates a flex container with an item per declaration block.
func flexRow(t *testing.T, container string, items ...string) (*frame.Tree, []frame.BoxID) {
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "display: flex; "+container), "div")
	ids := make([]frame.BoxID, len(items))
	for i, decls := range items {
		ids[i] = tree.Add(root, block(t, decls), "span")
		require.Equal(t, frame.FlexItem, tree.Box(ids[i]).Kind)
	}
	return tree, ids
}

func widths(t *testing.T, f *frame.Fragment, ids []frame.BoxID) []float64 {
	ws := make([]float64, len(ids))
	for i, id := range ids {
		fi := f.Find(id)
		require.NotNil(t, fi, "item %d", i)
		ws[i] = float64(fi.Used.W)
	}
	return ws
}

func assertDimens(t *testing.T, expected []dimen.Dimen, actual []float64) {
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.InDelta(t, float64(expected[i]), actual[i], 2, "item %d", i)
	}
}

func TestFlexGrow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "", "flex-grow: 1", "flex-grow: 2", "flex-grow: 1")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 40*dimen.PX, dimen.Infinity, nil)
	assertDimens(t, []dimen.Dimen{10 * dimen.PX, 20 * dimen.PX, 10 * dimen.PX}, widths(t, flow.Fragment, items))
	assert.Equal(t, dimen.Dimen(0), flow.Fragment.Find(items[0]).Used.X)
	assert.InDelta(t, float64(30*dimen.PX), float64(flow.Fragment.Find(items[2]).Used.X), 2)
}

func TestFlexGrowRespectsMaxWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "", "flex-grow: 1", "flex-grow: 1; max-width: 5px", "flex-grow: 1")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 40*dimen.PX, dimen.Infinity, nil)
	half := 35 * dimen.PX / 2
	assertDimens(t, []dimen.Dimen{half, 5 * dimen.PX, half}, widths(t, flow.Fragment, items))
}

func TestFlexShrink(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "", "width: 30px", "width: 30px")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 40*dimen.PX, dimen.Infinity, nil)
	assertDimens(t, []dimen.Dimen{20 * dimen.PX, 20 * dimen.PX}, widths(t, flow.Fragment, items))
}

func TestFlexGap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "column-gap: 10px", "flex-grow: 1", "flex-grow: 1")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 50*dimen.PX, dimen.Infinity, nil)
	assertDimens(t, []dimen.Dimen{20 * dimen.PX, 20 * dimen.PX}, widths(t, flow.Fragment, items))
	assert.InDelta(t, float64(30*dimen.PX), float64(flow.Fragment.Find(items[1]).Used.X), 2)
}

func TestFlexColumn(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "flex-direction: column; height: 100px", "flex-grow: 1", "flex-grow: 3")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 40*dimen.PX, dimen.Infinity, nil)
	a, b := flow.Fragment.Find(items[0]), flow.Fragment.Find(items[1])
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.InDelta(t, float64(25*dimen.PX), float64(a.Used.H), 2)
	assert.InDelta(t, float64(75*dimen.PX), float64(b.Used.H), 2)
	assert.InDelta(t, float64(25*dimen.PX), float64(b.Used.Y), 2)
	// items stretch across the container
	assert.Equal(t, 40*dimen.PX, a.Used.W)
}

func TestFlexOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, items := flexRow(t, "", "width: 10px; order: 2", "width: 10px; order: 1")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 40*dimen.PX, dimen.Infinity, nil)
	assert.Equal(t, 10*dimen.PX, flow.Fragment.Find(items[0]).Used.X)
	assert.Equal(t, dimen.Dimen(0), flow.Fragment.Find(items[1]).Used.X)
}
