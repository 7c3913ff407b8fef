package layout

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

func TestGridPlacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "display: grid; grid-template-columns: 100px 1fr 2fr"), "div")
	var items []frame.BoxID
	for i := 0; i < 3; i++ {
		items = append(items, tree.Add(root, block(t, "height: 20px"), "div"))
	}
	wide := tree.Add(root, block(t, "height: 20px; grid-column: 2 / 4"), "div")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 400*dimen.PX, dimen.Infinity, nil)
	f := flow.Fragment
	xs := []dimen.Dimen{0, 100 * dimen.PX, 200 * dimen.PX}
	ws := []dimen.Dimen{100 * dimen.PX, 100 * dimen.PX, 200 * dimen.PX}
	for i, id := range items {
		fi := f.Find(id)
		require.NotNil(t, fi)
		assert.Equal(t, xs[i], fi.Used.X, "x of item %d", i)
		assert.Equal(t, ws[i], fi.Used.W, "width of item %d", i)
		assert.Equal(t, dimen.Dimen(0), fi.Used.Y)
	}
	fw := f.Find(wide)
	require.NotNil(t, fw)
	assert.Equal(t, 100*dimen.PX, fw.Used.X)
	assert.Equal(t, 300*dimen.PX, fw.Used.W)
	assert.Equal(t, 20*dimen.PX, fw.Used.Y, "spanning item wraps to the second row")
	assert.Equal(t, 40*dimen.PX, f.Used.H)
}

func TestGridGapsAndDefiniteRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "display: grid; grid-template-columns: 1fr 1fr; "+
		"grid-template-rows: 30px 30px; gap: 10px"), "div")
	a := tree.Add(root, block(t, ""), "div")
	b := tree.Add(root, block(t, "grid-row: 2; grid-column: 2"), "div")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 210*dimen.PX, dimen.Infinity, nil)
	fa, fb := flow.Fragment.Find(a), flow.Fragment.Find(b)
	require.NotNil(t, fa)
	require.NotNil(t, fb)
	assert.Equal(t, 100*dimen.PX, fa.Used.W)
	assert.Equal(t, 30*dimen.PX, fa.Used.H, "items stretch to their area")
	assert.Equal(t, 110*dimen.PX, fb.Used.X)
	assert.Equal(t, 40*dimen.PX, fb.Used.Y)
	assert.Equal(t, 70*dimen.PX, flow.Fragment.Used.H)
}

func TestResolveGridLines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	p, err := style.ParsePlacement("2 / 4")
	require.NoError(t, err)
	start, span, definite := resolveLines(p, 3)
	assert.Equal(t, []int{1, 2}, []int{start, span})
	assert.True(t, definite)
	p, err = style.ParsePlacement("1 / -1")
	require.NoError(t, err)
	start, span, _ = resolveLines(p, 3)
	assert.Equal(t, []int{0, 3}, []int{start, span})
	p, err = style.ParsePlacement("span 2")
	require.NoError(t, err)
	_, span, definite = resolveLines(p, 3)
	assert.Equal(t, 2, span)
	assert.False(t, definite)
}

func TestMultiColumnBalancing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	mc := tree.Add(root, block(t, "column-count: 2; column-gap: 20px"), "div")
	require.Equal(t, frame.MultiColumn, tree.Box(mc).Kind)
	var kids []frame.BoxID
	for i := 0; i < 4; i++ {
		kids = append(kids, tree.Add(mc, block(t, "height: 50px"), "p"))
	}
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 220*dimen.PX, dimen.Infinity, nil)
	fm := flow.Fragment.Find(mc)
	require.NotNil(t, fm)
	assert.Equal(t, 100*dimen.PX, fm.Used.H, "two balanced columns of two blocks")
	pos := []dimen.Point{
		{X: 0, Y: 0}, {X: 0, Y: 50 * dimen.PX},
		{X: 120 * dimen.PX, Y: 0}, {X: 120 * dimen.PX, Y: 50 * dimen.PX},
	}
	for i, id := range kids {
		fk := fm.Find(id)
		require.NotNil(t, fk, "block %d", i)
		assert.Equal(t, pos[i], dimen.Point{X: fk.Used.X, Y: fk.Used.BorderTop()}, "block %d", i)
		assert.Equal(t, 100*dimen.PX, fk.Used.W)
	}
}

func TestMultiColumnBreaks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	mc := tree.Add(root, block(t, "column-count: 2; column-gap: 20px"), "div")
	var kids []frame.BoxID
	for i := 0; i < 6; i++ {
		kids = append(kids, tree.Add(mc, block(t, "height: 50px"), "p"))
	}
	lc := newContext(t, tree)
	// both columns hold two blocks, the rest continues
	first := layoutAt(t, lc, 220*dimen.PX, 100*dimen.PX, nil)
	require.False(t, first.Complete())
	for i, id := range kids {
		assert.Equal(t, i < 4, first.Fragment.Find(id) != nil, "block %d", i)
	}
	second := layoutAt(t, lc, 220*dimen.PX, 100*dimen.PX, first.Resume)
	assert.True(t, second.Complete())
	assert.NotNil(t, second.Fragment.Find(kids[4]))
	assert.NotNil(t, second.Fragment.Find(kids[5]))
}

func TestColumnGeometry(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	st := block(t, "column-width: 100px")
	n, cw, gap := columnGeometry(st, 400*dimen.PX)
	assert.Equal(t, 16*dimen.PX, gap, "normal gap is 1em")
	assert.Equal(t, 3, n)
	assert.Equal(t, (400*dimen.PX+gap)/3-gap, cw)
	st = block(t, "column-count: 4; column-width: 200px; column-gap: 0")
	n, _, _ = columnGeometry(st, 450*dimen.PX)
	assert.Equal(t, 2, n, "column count is an upper bound")
}
