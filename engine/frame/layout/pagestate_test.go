package layout

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
)

func TestPageStateCounters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	ps := NewPageState()
	ps.BeginPage()
	assert.Equal(t, 1, ps.Number)
	assert.Equal(t, 1, ps.Counter("page"))
	ps.Apply(css(t, "counter-reset: chapter 4"), nil)
	ps.Apply(css(t, "counter-increment: chapter"), nil)
	ps.Apply(css(t, "counter-increment: figure 2"), nil)
	assert.Equal(t, 5, ps.Counter("chapter"))
	assert.Equal(t, 2, ps.Counter("figure"))
	assert.Equal(t, 0, ps.Counter("table"))
	assert.Equal(t, []string{"chapter", "figure", "page"}, ps.Counters())
	//
	snapshot := ps.Clone()
	ps.BeginPage()
	ps.Apply(css(t, "counter-increment: chapter"), nil)
	assert.Equal(t, 2, ps.Number)
	assert.Equal(t, 6, ps.Counter("chapter"))
	assert.Equal(t, 5, snapshot.Counter("chapter"), "clones are independent")
	assert.Equal(t, 1, snapshot.Number)
	//
	ps.Pages = 7
	assert.Equal(t, 7, ps.Counter("pages"))
}

func TestPageStateNamedStrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	ps := NewPageState()
	ps.BeginPage()
	ps.Apply(css(t, `string-set: chapter "Intro"`), nil)
	ps.Apply(css(t, "string-set: chapter content()"), func() string { return "Basics" })
	assert.Equal(t, "Intro", ps.NamedString("chapter", StringFirst))
	assert.Equal(t, "Basics", ps.NamedString("chapter", StringLast))
	assert.Equal(t, "", ps.NamedString("chapter", StringStart))
	assert.Equal(t, "", ps.NamedString("chapter", StringFirstExcept))
	//
	ps.BeginPage() // no assignments on page 2
	for _, policy := range []StringPolicy{StringFirst, StringStart, StringLast, StringFirstExcept} {
		assert.Equal(t, "Basics", ps.NamedString("chapter", policy), "policy %d", policy)
	}
	assert.Equal(t, StringLast, ParseStringPolicy("last"))
	assert.Equal(t, StringFirstExcept, ParseStringPolicy("first-except"))
	assert.Equal(t, StringFirst, ParseStringPolicy("nonsense"))
}

func TestApplyFragments(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "line-height: 20px"), "body")
	h1 := tree.Add(root, block(t, "line-height: 20px; height: 100px; counter-increment: chapter; "+
		"string-set: title content()"), "h1")
	tree.AddText(h1, "\n  One ")
	h2 := tree.Add(root, block(t, "line-height: 20px; height: 100px; counter-increment: chapter; "+
		"string-set: title content()"), "h1")
	tree.AddText(h2, "Two")
	lc := newContext(t, tree)
	//
	ps := NewPageState()
	ps.BeginPage()
	first := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, nil)
	ps.ApplyFragments(tree, first.Fragment)
	assert.Equal(t, 1, ps.Counter("chapter"))
	assert.Equal(t, "One", ps.NamedString("title", StringLast))
	//
	ps.BeginPage()
	second := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, first.Resume)
	require.True(t, second.Complete())
	ps.ApplyFragments(tree, second.Fragment)
	assert.Equal(t, 2, ps.Counter("chapter"), "the continued root is not counted twice")
	assert.Equal(t, "One", ps.NamedString("title", StringStart))
	assert.Equal(t, "Two", ps.NamedString("title", StringFirst))
}
