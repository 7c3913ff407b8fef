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

// table creates a document with a table of rows of cells. Every cell holds
// its text.
func table(t *testing.T, decls string, rows ...[]string) (*frame.Tree, frame.BoxID, [][]frame.BoxID) {
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "line-height: 20px"), "body")
	tb := tree.Add(root, css(t, "display: table; line-height: 20px; "+decls), "table")
	require.Equal(t, frame.Table, tree.Box(tb).Kind)
	cells := make([][]frame.BoxID, len(rows))
	for r, row := range rows {
		tr := tree.Add(tb, css(t, "display: table-row; line-height: 20px"), "tr")
		for _, s := range row {
			td := tree.Add(tr, css(t, "display: table-cell; line-height: 20px"), "td")
			tree.AddText(td, s)
			cells[r] = append(cells[r], td)
		}
	}
	return tree, tb, cells
}

func cellWidths(t *testing.T, f *frame.Fragment, row []frame.BoxID) []dimen.Dimen {
	ws := make([]dimen.Dimen, len(row))
	for i, id := range row {
		fc := f.Find(id)
		require.NotNil(t, fc, "cell %d", i)
		ws[i] = fc.Used.W
	}
	return ws
}

func TestTableAutoLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	// cells of 4 and 12 cells of text: 32px and 96px
	tree, tb, cells := table(t, "", []string{"aaaa", "aaaaaaaaaaaa"})
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 300*dimen.PX, dimen.Infinity, nil)
	// shrink-to-fit: columns get their max-content widths
	assert.Equal(t, []dimen.Dimen{32 * dimen.PX, 96 * dimen.PX}, cellWidths(t, flow.Fragment, cells[0]))
	assert.Equal(t, 128*dimen.PX, flow.Fragment.Find(tb).Used.W)
}

func TestTableAutoLayoutWithWidth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, _, cells := table(t, "width: 300px", []string{"aaaa", "aaaaaaaaaaaa"})
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 400*dimen.PX, dimen.Infinity, nil)
	// 172px of extra space, distributed in proportion to 32:96
	assert.Equal(t, []dimen.Dimen{75 * dimen.PX, 225 * dimen.PX}, cellWidths(t, flow.Fragment, cells[0]))
}

func TestTableFixedLayout(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, _, cells := table(t, "width: 300px; table-layout: fixed", []string{"aaaa", "aaaaaaaaaaaa"},
		[]string{"a", "a"})
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 400*dimen.PX, dimen.Infinity, nil)
	// content is ignored, columns share the width equally
	assert.Equal(t, []dimen.Dimen{150 * dimen.PX, 150 * dimen.PX}, cellWidths(t, flow.Fragment, cells[0]))
	assert.Equal(t, []dimen.Dimen{150 * dimen.PX, 150 * dimen.PX}, cellWidths(t, flow.Fragment, cells[1]))
}

func TestTableFixedLayoutFirstRow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree, _, cells := table(t, "width: 300px; table-layout: fixed", []string{"a", "a", "a"})
	tree.Box(cells[0][0]).Style.Width = css(t, "width: 60px").Width
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 400*dimen.PX, dimen.Infinity, nil)
	assert.Equal(t, []dimen.Dimen{60 * dimen.PX, 120 * dimen.PX, 120 * dimen.PX}, cellWidths(t, flow.Fragment, cells[0]))
}

func TestTableRowsBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	rows := make([][]string, 5)
	for i := range rows {
		rows[i] = []string{"a", "b"}
	}
	tree, tb, cells := table(t, "", rows...)
	lc := newContext(t, tree)
	// rows are 20px high; three of them fit into 70px
	first := layoutAt(t, lc, 200*dimen.PX, 70*dimen.PX, nil)
	require.False(t, first.Complete())
	ft := first.Fragment.Find(tb)
	require.NotNil(t, ft)
	assert.True(t, ft.ContinuedAfter)
	assert.NotNil(t, ft.Find(cells[2][0]))
	assert.Nil(t, ft.Find(cells[3][0]))
	second := layoutAt(t, lc, 200*dimen.PX, 70*dimen.PX, first.Resume)
	assert.True(t, second.Complete())
	st := second.Fragment.Find(tb)
	require.NotNil(t, st)
	assert.True(t, st.ContinuedBefore)
	c3 := st.Find(cells[3][0])
	require.NotNil(t, c3)
	assert.Equal(t, dimen.Dimen(0), c3.Used.BorderTop())
}

func TestAutoWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	cs := []sizes{{10, 20}, {30, 60}}
	assert.Equal(t, []dimen.Dimen{10, 30}, autoWidths(cs, 20, true), "below min-content")
	assert.Equal(t, []dimen.Dimen{15, 45}, autoWidths(cs, 60, true), "between min and max")
	assert.Equal(t, []dimen.Dimen{20, 60}, autoWidths(cs, 120, false), "indefinite")
	assert.Equal(t, []dimen.Dimen{40, 120}, autoWidths(cs, 160, true), "definite")
}

func TestBorderConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	px := func(n int) dimen.Dimen { return dimen.Dimen(n) * dimen.PX }
	solid := borderCand{w: px(2), style: style.BorderSolid, origin: fromTable}
	double := borderCand{w: px(1), style: style.BorderDouble, origin: fromTable}
	dotted := borderCand{w: px(4), style: style.BorderDotted, origin: fromCell}
	// style beats width
	assert.Equal(t, double, stronger(solid, double))
	assert.Equal(t, solid, stronger(dotted, solid))
	// width beats origin
	wide := borderCand{w: px(3), style: style.BorderSolid, origin: fromTable}
	cell := borderCand{w: px(2), style: style.BorderSolid, origin: fromCell}
	assert.Equal(t, wide, stronger(cell, wide))
	// the more specific box wins a tie
	row := borderCand{w: px(2), style: style.BorderSolid, origin: fromRow}
	assert.Equal(t, row, stronger(solid, row))
	assert.Equal(t, cell, stronger(cell, row))
	// hidden suppresses, none loses
	hidden := borderCand{style: style.BorderHidden, origin: fromColumn}
	none := borderCand{w: px(5), style: style.BorderNone, origin: fromCell}
	assert.Equal(t, hidden, stronger(wide, hidden))
	assert.Equal(t, hidden, stronger(hidden, double))
	assert.Equal(t, solid, stronger(none, solid))
	assert.Equal(t, solid, stronger(solid, none))
}
