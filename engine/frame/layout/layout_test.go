package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text/monospace"
)

// css creates a style from CSS declarations.
func css(t require.TestingT, decls string) *style.Style {
	st := style.Initial()
	require.NoError(t, st.ParseDeclarations(decls))
	return st
}

func block(t require.TestingT, decls string) *style.Style {
	return css(t, "display: block; "+decls)
}

// newContext creates a layout context measuring text in cells of 8px.
func newContext(t require.TestingT, tree *frame.Tree) *Context {
	lc, err := NewContext(tree, Options{Oracle: monospace.Fixed(8 * dimen.PX)})
	require.NoError(t, err)
	return lc
}

// layoutAt lays out the tree of a context into a fragmentainer at the
// origin.
func layoutAt(t require.TestingT, lc *Context, w, h dimen.Dimen, resume frame.Resume) Flow {
	flow, err := lc.LayoutRoot(Fragmentainer{Width: w, Height: h, Truncate: resume != nil}, resume)
	require.NoError(t, err)
	require.NotNil(t, flow.Fragment)
	return flow
}

func TestDispatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	p := tree.Add(root, block(t, ""), "p")
	tree.AddText(p, "hello")
	fl := tree.Add(root, block(t, "display: flex"), "div")
	gr := tree.Add(root, block(t, "display: grid"), "div")
	tb := tree.Add(root, css(t, "display: table"), "table")
	mc := tree.Add(root, block(t, "column-count: 3"), "div")
	img := tree.AddReplaced(root, css(t, "display: inline"), "logo.png")
	//
	assert.Equal(t, FCBlock, ContextFor(tree, root))
	assert.Equal(t, FCInline, ContextFor(tree, p))
	assert.Equal(t, FCFlex, ContextFor(tree, fl))
	assert.Equal(t, FCGrid, ContextFor(tree, gr))
	assert.Equal(t, FCTable, ContextFor(tree, tb))
	assert.Equal(t, FCMultiColumn, ContextFor(tree, mc))
	assert.Equal(t, FCReplaced, ContextFor(tree, img))
	tree.Walk(root, func(b *frame.Box) bool {
		fc := ContextFor(tree, b.ID)
		require.Less(t, fc, fcCount, "box %v", b)
		assert.NotNil(t, handlers[fc])
		return true
	})
	assert.Equal(t, "multicolumn", FCMultiColumn.String())
}

func TestMarginCollapse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	a := tree.Add(root, block(t, "height: 30px; margin-bottom: 10px"), "div")
	b := tree.Add(root, block(t, "height: 30px; margin-top: 20px"), "div")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 200*dimen.PX, dimen.Infinity, nil)
	assert.True(t, flow.Complete())
	fa, fb := flow.Fragment.Find(a), flow.Fragment.Find(b)
	require.NotNil(t, fa)
	require.NotNil(t, fb)
	assert.Equal(t, 30*dimen.PX, fa.Used.BorderBottom())
	assert.Equal(t, 20*dimen.PX, fb.Used.BorderTop()-fa.Used.BorderBottom(), "margins 10px and 20px collapse to 20px")
	assert.Equal(t, 50*dimen.PX, fb.Used.BorderTop())
}

func TestEmptyBoxCollapsesThrough(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	a := tree.Add(root, block(t, "height: 10px; margin-bottom: 5px"), "div")
	tree.Add(root, block(t, "margin-top: 15px; margin-bottom: 8px"), "div")
	c := tree.Add(root, block(t, "height: 10px; margin-top: 12px"), "div")
	lc := newContext(t, tree)
	flow := layoutAt(t, lc, 200*dimen.PX, dimen.Infinity, nil)
	fa, fc := flow.Fragment.Find(a), flow.Fragment.Find(c)
	// all four margins adjoin
	assert.Equal(t, 15*dimen.PX, fc.Used.BorderTop()-fa.Used.BorderBottom())
}

func TestBreakBetweenBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	one := tree.Add(root, block(t, "height: 100px"), "div")
	two := tree.Add(root, block(t, "height: 100px"), "div")
	lc := newContext(t, tree)
	//
	first := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, nil)
	require.False(t, first.Complete())
	assert.Equal(t, frame.Resume{{Box: root, Child: 1}}, first.Resume)
	assert.NotNil(t, first.Fragment.Find(one))
	assert.Nil(t, first.Fragment.Find(two))
	assert.True(t, first.Fragment.ContinuedAfter)
	assert.Equal(t, 150*dimen.PX, first.Fragment.Used.H, "broken box extends to the end of the fragmentainer")
	//
	second := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, first.Resume)
	assert.True(t, second.Complete())
	assert.True(t, second.Fragment.ContinuedBefore)
	f2 := second.Fragment.Find(two)
	require.NotNil(t, f2)
	assert.Equal(t, dimen.Dimen(0), f2.Used.BorderTop())
	assert.Nil(t, second.Fragment.Find(one))
}

func TestForcedBreak(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tree.Add(root, block(t, "height: 10px"), "div")
	two := tree.Add(root, block(t, "height: 10px; break-before: page"), "div")
	lc := newContext(t, tree)
	//
	first := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, nil)
	require.False(t, first.Complete())
	assert.True(t, first.Break.IsForced(false))
	second := layoutAt(t, lc, 200*dimen.PX, 150*dimen.PX, first.Resume)
	assert.True(t, second.Complete())
	assert.NotNil(t, second.Fragment.Find(two))
	// continuous layout ignores forced breaks
	all := layoutAt(t, lc, 200*dimen.PX, dimen.Infinity, nil)
	assert.True(t, all.Complete())
}

func TestLayoutBoxChecksInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	p := tree.Add(root, block(t, ""), "p")
	lc := newContext(t, tree)
	_, err := lc.LayoutBox(frame.BoxID(17), Fragmentainer{Width: dimen.PX, Height: dimen.PX}, nil)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = lc.LayoutRoot(Fragmentainer{Width: dimen.PX, Height: 0}, nil)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = lc.LayoutRoot(Fragmentainer{Width: dimen.PX, Height: dimen.PX}, frame.Resume{{Box: p}})
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = lc.LayoutFootnote(p, dimen.PX)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = NewContext(frame.NewTree(), Options{})
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func paragraphs(t require.TestingT, texts ...string) *frame.Tree {
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "line-height: 20px"), "body")
	for _, s := range texts {
		st := style.Inherit(tree.Style(root))
		st.Display = style.BlockMode | style.FlowMode
		p := tree.Add(root, st, "p")
		tree.AddText(p, s)
	}
	return tree
}

func TestLinesOfParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	tree := paragraphs(t, "aaa bbb ccc ddd")
	lc := newContext(t, tree)
	// 7 cells fit a line of 56px
	flow := layoutAt(t, lc, 56*dimen.PX, dimen.Infinity, nil)
	p := tree.Box(tree.Root()).Children[0]
	fp := flow.Fragment.Find(p)
	require.NotNil(t, fp)
	var lines int
	fp.Walk(func(f *frame.Fragment) bool {
		if f.Kind == frame.Line {
			lines++
			assert.LessOrEqual(t, f.Used.W, 56*dimen.PX)
		}
		return true
	})
	assert.Equal(t, 2, lines)
	assert.Equal(t, 40*dimen.PX, fp.Used.H)
}

func TestLayoutIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	texts := []string{
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
		"How vexingly quick daft zebras jump!",
	}
	tree := paragraphs(t, texts...)
	lc := newContext(t, tree)
	a := layoutAt(t, lc, 120*dimen.PX, 100*dimen.PX, nil)
	b := layoutAt(t, lc, 120*dimen.PX, 100*dimen.PX, nil)
	fresh := layoutAt(t, newContext(t, paragraphs(t, texts...)), 120*dimen.PX, 100*dimen.PX, nil)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("second layout differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(a, fresh); diff != "" {
		t.Errorf("layout with a fresh context differs (-first +fresh):\n%s", diff)
	}
	// continuing from the marker reproduces the same continuation
	c1 := layoutAt(t, lc, 120*dimen.PX, 100*dimen.PX, a.Resume)
	c2 := layoutAt(t, lc, 120*dimen.PX, 100*dimen.PX, a.Resume)
	assert.True(t, cmp.Equal(c1, c2))
}

func TestFragmentationAdvances(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.layout")
	defer teardown()
	//
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "paragraphs")
		texts := make([]string, n)
		for i := range texts {
			words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 1, 25).Draw(t, "words")
			texts[i] = strings.Join(words, " ")
		}
		w := dimen.Dimen(rapid.IntRange(1, 30).Draw(t, "cells")) * 8 * dimen.PX
		h := dimen.Dimen(rapid.IntRange(1, 8).Draw(t, "lines")) * 20 * dimen.PX
		tree := paragraphs(t, texts...)
		lc := newContext(t, tree)
		var resume frame.Resume
		for page := 0; ; page++ {
			if page > 1000 {
				t.Fatalf("layout does not terminate")
			}
			flow := layoutAt(t, lc, w, h, resume)
			if flow.Complete() {
				break
			}
			if resume != nil && flow.Resume.Compare(resume) <= 0 {
				t.Fatalf("fragment %d does not advance: %v after %v", page, flow.Resume, resume)
			}
			resume = flow.Resume
		}
	})
}
