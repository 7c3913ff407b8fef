package boxtree

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

var minihtml = `
<html><head>
<title>Nothing to see</title>
<style>
  .note { margin-left: 10px }
  #world { break-before: page }
</style>
</head><body>
  <h1 id="intro">The quick brown fox</h1>
  <p class="note">jumps over the <b>lazy</b> dog.</p>
  <p id="world" lang="de">Hallo <a href="#intro">Welt</a>!</p>
  <p style="padding-left: 5px; display: none">Invisible.</p>
  <div style="display: contents"><img src="fox.png"></div>
  <table><tr><td colspan="2">A</td></tr><tr><td>B</td><td>C</td></tr></table>
</body></html>
`

func build(t *testing.T, sheets ...string) *frame.Tree {
	tree, err := FromHTML(strings.NewReader(minihtml), sheets...)
	require.NoError(t, err)
	require.NotNil(t, tree)
	require.NoError(t, tree.Validate())
	return tree
}

func find(tree *frame.Tree, name string, nth int) *frame.Box {
	var found *frame.Box
	tree.Walk(tree.Root(), func(b *frame.Box) bool {
		if found == nil && b.Name == name {
			if nth == 0 {
				found = b
			}
			nth--
		}
		return found == nil
	})
	return found
}

func TestBuildFromHTML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.boxtree")
	defer teardown()
	//
	tree := build(t, "p { margin-left: 5px }")
	root := tree.Box(tree.Root())
	assert.Equal(t, "html", root.Name)
	require.Len(t, root.Children, 1, "<head> generates no box")
	body := tree.Box(root.Children[0])
	assert.Equal(t, "body", body.Name)
	assert.Equal(t, frame.BlockContainer, body.Kind)
	//
	h1 := find(tree, "h1", 0)
	require.NotNil(t, h1)
	assert.Equal(t, "intro", h1.Style.Anchor)
	assert.Equal(t, 1, h1.Style.BookmarkLevel)
	assert.Equal(t, 32*dimen.PX, h1.Style.FontSize)
	assert.Equal(t, "The quick brown fox", tree.TextContent(h1.ID))
	//
	note := find(tree, "p", 0)
	require.NotNil(t, note)
	assert.Equal(t, style.Px(10), note.Style.Margin[style.Left], "class rules win over type rules")
	b := find(tree, "b", 0)
	require.NotNil(t, b)
	assert.Equal(t, frame.Inline, b.Kind)
	//
	world := find(tree, "p", 1)
	require.NotNil(t, world)
	assert.Equal(t, style.BreakPage, world.Style.BreakBefore)
	assert.Equal(t, "de", world.Style.Lang)
	assert.Equal(t, style.Px(5), world.Style.Margin[style.Left])
	a := find(tree, "a", 0)
	require.NotNil(t, a)
	assert.Equal(t, "#intro", a.Style.Link)
	assert.Equal(t, "de", a.Style.Lang, "lang is inherited")
	//
	assert.Nil(t, find(tree, "p", 2), "display: none generates no box")
	assert.Nil(t, find(tree, "div", 0), "display: contents generates no box")
	var img *frame.Box
	tree.Walk(tree.Root(), func(b *frame.Box) bool {
		if b.Kind == frame.Replaced {
			img = b
		}
		return true
	})
	require.NotNil(t, img)
	assert.Equal(t, "fox.png", img.Resource)
	assert.Equal(t, body.ID, img.Parent)
	//
	table := find(tree, "table", 0)
	require.NotNil(t, table)
	assert.Equal(t, frame.Table, table.Kind)
	td := find(tree, "td", 0)
	require.NotNil(t, td)
	assert.Equal(t, frame.Cell, td.Kind)
	assert.Equal(t, 2, td.Style.ColSpan)
	tree.Walk(tree.Root(), func(b *frame.Box) bool {
		if b.Kind == frame.Text {
			assert.NotEqual(t, "", strings.TrimSpace(b.Text), "whitespace-only runs are dropped")
		}
		return true
	})
}

func TestStyleErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.boxtree")
	defer teardown()
	//
	tree, err := FromHTML(strings.NewReader(`<p style="width: wide">x</p>`), "p { margin: 3px }")
	require.NotNil(t, tree, "style errors do not stop the build")
	assert.Error(t, err)
	p := find(tree, "p", 0)
	require.NotNil(t, p)
	assert.Equal(t, style.Px(3), p.Style.Margin[style.Top])
	//
	_, err = NewBuilder("p:frobnicate { margin: 0 }")
	assert.Error(t, err)
}

func TestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.boxtree")
	defer teardown()
	//
	cases := map[string][3]int{
		"p":                       {0, 0, 1},
		"div p":                   {0, 0, 2},
		"p.note":                  {0, 1, 1},
		"#world":                  {1, 0, 0},
		"ul > li:first-child":     {0, 1, 2},
		"a[href]":                 {0, 1, 1},
		"body #main .x.y":         {1, 2, 1},
		"*":                       {0, 0, 0},
		"table td + td":           {0, 0, 3},
		"h1 ~ p[lang=\"de\"].end": {0, 2, 2},
	}
	for sel, s := range cases {
		assert.Equal(t, s, specificity(sel), sel)
	}
}

func TestParseSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.boxtree")
	defer teardown()
	//
	sheet, err := ParseSheet(`h1, h2 { margin: 0 } @page { margin: 2cm } p { }`)
	require.NoError(t, err)
	assert.Equal(t, 3, sheet.Len(), "one rule per selector, @-rules are ignored")
	_, err = FromHTML(strings.NewReader(`<p>x</p>`), `p:frobnicate { margin: 0 }`)
	if assert.Error(t, err) {
		assert.Equal(t, core.EINVALID, core.Code(err))
	}
}
