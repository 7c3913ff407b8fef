package page

import (
	"context"
	"strconv"
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
	"github.com/npillmayer/folio/engine/frame/layout"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text/monospace"
)

func css(t require.TestingT, decls string) *style.Style {
	st := style.Initial()
	require.NoError(t, st.ParseDeclarations(decls))
	return st
}

func block(t require.TestingT, decls string) *style.Style {
	return css(t, "display: block; line-height: 20px; "+decls)
}

func paper(w, h dimen.Dimen) Config {
	return Config{Size: dimen.Point{X: w, Y: h}}
}

func paginator(t require.TestingT, tree *frame.Tree, config Config) *Paginator {
	lc, err := layout.NewContext(tree, layout.Options{Oracle: monospace.Fixed(8 * dimen.PX)})
	require.NoError(t, err)
	p, err := New(lc, config)
	require.NoError(t, err)
	return p
}

func paginate(t require.TestingT, tree *frame.Tree, config Config) []*Page {
	pages, err := paginator(t, tree, config).Paginate(context.Background())
	require.NoError(t, err)
	require.NoError(t, CheckCompleteness(tree, pages))
	return pages
}

func TestPaginateBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	one := tree.Add(root, block(t, "height: 100px"), "div")
	two := tree.Add(root, block(t, "height: 100px"), "div")
	pages := paginate(t, tree, paper(200*dimen.PX, 150*dimen.PX))
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, 2, pages[1].Number)
	assert.NotNil(t, pages[0].Flow.Find(one))
	assert.Nil(t, pages[0].Flow.Find(two))
	f2 := pages[1].Flow.Find(two)
	require.NotNil(t, f2)
	assert.Equal(t, dimen.Dimen(0), f2.Used.BorderTop())
	assert.True(t, pages[1].End.Done())
	assert.Equal(t, pages[0].End.Resume, pages[1].Start.Resume)
	assert.Equal(t, 2, pages[0].End.State.Pages)
}

func TestPaginateWithMargins(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	h1 := tree.Add(root, block(t, "height: 60px; string-set: chapter content()"), "h1")
	tree.AddText(h1, "Intro")
	tree.Add(root, block(t, "height: 60px"), "p")
	h2 := tree.Add(root, block(t, "height: 60px; string-set: chapter content()"), "h1")
	tree.AddText(h2, "Outro")
	config := Paper(dimen.Size{W: 240 * dimen.PX, H: 180 * dimen.PX}, 30*dimen.PX)
	footer, header := style.Initial(), style.Initial()
	footer.Content = `"Page " counter(page) " of " counter(pages)`
	header.Content = `string(chapter, first)`
	config.MarginBoxes = map[MarginPosition]*style.Style{BottomCenter: footer, TopLeft: header}
	pages := paginate(t, tree, config)
	// 120px of content area hold two blocks
	require.Len(t, pages, 2)
	texts := func(pg *Page) map[MarginPosition]string {
		m := make(map[MarginPosition]string)
		for _, mb := range pg.Margins {
			m[mb.Position] = mb.Text
			if mb.Text != "" {
				assert.NotNil(t, mb.Fragment, "%v of %v", mb.Position, pg)
			}
		}
		return m
	}
	assert.Equal(t, map[MarginPosition]string{TopLeft: "Intro", BottomCenter: "Page 1 of 2"}, texts(pages[0]))
	assert.Equal(t, map[MarginPosition]string{TopLeft: "Outro", BottomCenter: "Page 2 of 2"}, texts(pages[1]))
	for _, mb := range pages[1].Margins {
		if mb.Position == BottomCenter {
			assert.Equal(t, dimen.Rect{
				TopL: dimen.Point{X: 90 * dimen.PX, Y: 150 * dimen.PX},
				BotR: dimen.Point{X: 150 * dimen.PX, Y: 180 * dimen.PX},
			}, mb.Rect)
		}
	}
	assert.Equal(t, "Intro", pages[0].Meta.Strings["chapter"])
	assert.Equal(t, 30*dimen.PX, pages[0].Flow.Used.Y, "content starts below the top margin")
}

func TestConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	config := Paper(dimen.DINA4, 2*dimen.CM)
	require.NoError(t, config.Validate())
	area := config.ContentArea()
	assert.Equal(t, dimen.DINA4.W-4*dimen.CM, area.Width())
	config = Paper(dimen.Size{W: 100 * dimen.PX, H: 100 * dimen.PX}, 50*dimen.PX)
	assert.Equal(t, core.EINVALID, core.Code(config.Validate()))
	_, err := New(nil, paper(dimen.PX, dimen.PX))
	assert.Error(t, err)
}

func TestFootnotes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tree.Add(root, block(t, "height: 40px"), "p")
	fn := tree.Add(root, block(t, "float: footnote"), "aside")
	tree.AddText(fn, "note")
	tree.Add(root, block(t, "height: 40px"), "p")
	config := paper(200*dimen.PX, 150*dimen.PX)
	config.FootnoteGap = 10 * dimen.PX
	pages := paginate(t, tree, config)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Footnotes, 1)
	body := pages[0].Footnotes[0]
	assert.Equal(t, fn, body.Box)
	assert.False(t, body.Placeholder)
	assert.Equal(t, 130*dimen.PX, body.Used.BorderTop(), "footnotes sit at the bottom of the page")
}

func TestFootnoteDeferred(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tree.Add(root, block(t, "height: 100px"), "p")
	fn := tree.Add(root, block(t, "float: footnote; height: 100px"), "aside")
	config := paper(200*dimen.PX, 150*dimen.PX)
	config.FootnoteGap = 10 * dimen.PX
	pages := paginate(t, tree, config)
	require.Len(t, pages, 2)
	assert.Empty(t, pages[0].Footnotes)
	assert.Equal(t, []frame.BoxID{fn}, pages[0].End.Deferred)
	assert.Nil(t, pages[1].Flow, "the main flow is exhausted")
	require.Len(t, pages[1].Footnotes, 1)
	assert.Equal(t, 50*dimen.PX, pages[1].Footnotes[0].Used.BorderTop())
}

func TestBlankPages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tree.Add(root, block(t, "height: 10px"), "p")
	right := tree.Add(root, block(t, "height: 10px; break-before: right"), "p")
	tree.Add(root, block(t, "height: 10px; break-before: page"), "p")
	pages := paginate(t, tree, paper(200*dimen.PX, 150*dimen.PX))
	require.Len(t, pages, 4)
	assert.False(t, pages[0].Blank)
	assert.True(t, pages[1].Blank)
	assert.Nil(t, pages[1].Flow)
	assert.Equal(t, "page 2 (blank)", pages[1].String())
	require.NotNil(t, pages[2].Flow)
	assert.NotNil(t, pages[2].Flow.Find(right))
	assert.True(t, pages[2].IsRecto())
	assert.False(t, pages[3].Blank)
}

func TestRenderFrom(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, "counter-reset: para"), "body")
	for i := 0; i < 6; i++ {
		p := tree.Add(root, block(t, "counter-increment: para"), "p")
		tree.AddText(p, strings.Repeat("lorem ipsum ", 5))
		if i%2 == 0 {
			fn := tree.Add(root, block(t, "float: footnote"), "aside")
			tree.AddText(fn, "a note")
		}
	}
	config := Paper(dimen.Size{W: 160 * dimen.PX, H: 200 * dimen.PX}, 20*dimen.PX)
	footer := style.Initial()
	footer.Content = `counter(page, lower-roman) " – " counter(para)`
	config.MarginBoxes = map[MarginPosition]*style.Style{BottomRight: footer}
	p := paginator(t, tree, config)
	pages, err := p.Paginate(context.Background())
	require.NoError(t, err)
	require.NoError(t, CheckCompleteness(tree, pages))
	require.Greater(t, len(pages), 1)
	assert.Equal(t, Done, p.State())
	for _, pg := range pages {
		again, err := p.RenderFrom(context.Background(), pg.Start)
		require.NoError(t, err)
		if diff := cmp.Diff(pg.Flow, again.Flow); diff != "" {
			t.Errorf("%v: main flow differs (-paginated +rendered):\n%s", pg, diff)
		}
		assert.True(t, cmp.Equal(pg.Footnotes, again.Footnotes), "footnotes of %v", pg)
		assert.True(t, cmp.Equal(pg.Margins, again.Margins), "margin boxes of %v", pg)
		assert.True(t, cmp.Equal(pg.Meta, again.Meta), "metadata of %v", pg)
		assert.Equal(t, pg.End.Resume, again.End.Resume)
		assert.Equal(t, pg.End.Deferred, again.End.Deferred)
		assert.Equal(t, pg.End.State.Counter("para"), again.End.State.Counter("para"))
	}
	_, err = p.RenderFrom(context.Background(), pages[len(pages)-1].End)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestPaginateCanceled(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tree.Add(root, block(t, "height: 10px"), "p")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := paginator(t, tree, paper(dimen.IN, dimen.IN)).Paginate(ctx)
	assert.Equal(t, core.ELIMIT, core.Code(err))
}

func TestPaginationTerminates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	breaks := []string{"auto", "auto", "auto", "page", "avoid", "left", "right"}
	rapid.Check(t, func(t *rapid.T) {
		tree := frame.NewTree()
		root := tree.Add(frame.NoBox, block(t, ""), "body")
		n := rapid.IntRange(1, 8).Draw(t, "boxes")
		for i := 0; i < n; i++ {
			brk := rapid.SampledFrom(breaks).Draw(t, "break")
			switch rapid.IntRange(0, 2).Draw(t, "kind") {
			case 0:
				h := rapid.IntRange(0, 400).Draw(t, "height")
				tree.Add(root, block(t, "break-before: "+brk+"; height: "+strconv.Itoa(h)+"px"), "div")
			case 1:
				words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,10}`), 1, 30).Draw(t, "words")
				p := tree.Add(root, block(t, "break-before: "+brk), "p")
				tree.AddText(p, strings.Join(words, " "))
			default:
				words := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,10}`), 1, 8).Draw(t, "note")
				fn := tree.Add(root, block(t, "float: footnote"), "aside")
				tree.AddText(fn, strings.Join(words, " "))
			}
		}
		w := dimen.Dimen(rapid.IntRange(5, 30).Draw(t, "width")) * 8 * dimen.PX
		h := dimen.Dimen(rapid.IntRange(3, 12).Draw(t, "page height")) * 20 * dimen.PX
		pages := paginate(t, tree, paper(w, h))
		if len(pages) == 0 {
			t.Fatalf("no pages")
		}
		if !pages[len(pages)-1].End.Done() {
			t.Fatalf("last page does not end the document")
		}
	})
}

func TestPaginateFlexAndGrid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	for _, decls := range []string{
		"display: flex; flex-direction: column",
		"display: grid; grid-template-columns: 100px",
	} {
		tree := frame.NewTree()
		root := tree.Add(frame.NoBox, block(t, ""), "body")
		c := tree.Add(root, block(t, decls), "div")
		items := make([]frame.BoxID, 5)
		for i := range items {
			items[i] = tree.Add(c, block(t, "height: 100px"), "div")
		}
		pages := paginate(t, tree, paper(200*dimen.PX, 150*dimen.PX))
		require.Len(t, pages, 5, decls)
		for i, pg := range pages {
			require.NotNil(t, pg.Flow)
			fc := pg.Flow.Find(c)
			require.NotNil(t, fc, "%s on %v", decls, pg)
			assert.Equal(t, i > 0, fc.ContinuedBefore)
			assert.Equal(t, i < 4, fc.ContinuedAfter)
			fi := pg.Flow.Find(items[i])
			require.NotNil(t, fi, "item %d of %s on %v", i, decls, pg)
			assert.Equal(t, dimen.Dimen(0), fi.Used.BorderTop())
		}
	}
}

func TestRepeatedTableRows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	tb := tree.Add(root, css(t, "display: table; line-height: 20px"), "table")
	row := func(parent frame.BoxID, s string) frame.BoxID {
		tr := tree.Add(parent, css(t, "display: table-row; line-height: 20px"), "tr")
		td := tree.Add(tr, css(t, "display: table-cell; line-height: 20px"), "td")
		tree.AddText(td, s)
		return tr
	}
	thead := tree.Add(tb, css(t, "display: table-header-group; line-height: 20px"), "thead")
	row(thead, "head")
	var body []frame.BoxID
	for i := 0; i < 6; i++ {
		body = append(body, row(tb, "row"))
	}
	tfoot := tree.Add(tb, css(t, "display: table-footer-group; line-height: 20px"), "tfoot")
	row(tfoot, "foot")
	// header and footer take 40px of 100px, three body rows fit between them
	pages := paginate(t, tree, paper(200*dimen.PX, 100*dimen.PX))
	require.Len(t, pages, 2)
	first, second := pages[0].Flow, pages[1].Flow
	require.NotNil(t, first.Find(thead))
	assert.False(t, first.Find(thead).Repeated)
	require.NotNil(t, first.Find(tfoot))
	assert.True(t, first.Find(tfoot).Repeated, "the footer is repeated before the break")
	assert.NotNil(t, first.Find(body[2]))
	assert.Nil(t, first.Find(body[3]))
	require.NotNil(t, second.Find(thead))
	assert.True(t, second.Find(thead).Repeated, "the header is repeated after the break")
	require.NotNil(t, second.Find(tfoot))
	assert.False(t, second.Find(tfoot).Repeated)
	r3 := second.Find(body[3])
	require.NotNil(t, r3)
	assert.Equal(t, 20*dimen.PX, r3.Used.BorderTop())
	assert.True(t, second.Find(tb).ContinuedBefore)
}

func TestPageMetadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, block(t, ""), "body")
	h1 := tree.Add(root, block(t, `height: 40px; bookmark-level: 1; id: "intro"`), "h1")
	tree.AddText(h1, "\n  Getting   started ")
	link := tree.Add(root, block(t, `link: "#intro"`), "div")
	tree.Add(link, block(t, "height: 100px"), "div")
	tree.Add(link, block(t, "height: 100px"), "div")
	h2 := tree.Add(root, block(t, `break-before: page; bookmark-level: 2; bookmark-label: "Details"`), "h2")
	tree.AddText(h2, "More")
	pages := paginate(t, tree, paper(200*dimen.PX, 150*dimen.PX))
	require.Len(t, pages, 3)
	meta := pages[0].Meta
	assert.Equal(t, []Bookmark{{Box: h1, Level: 1, Label: "Getting started", Y: 0}}, meta.Bookmarks,
		"labels are taken from the white-space processed text")
	assert.Equal(t, []Anchor{{Box: h1, Name: "intro", At: dimen.Point{}}}, meta.Anchors)
	require.Len(t, meta.Links, 1)
	assert.Equal(t, "#intro", meta.Links[0].Target)
	assert.Equal(t, 40*dimen.PX, meta.Links[0].Rect.TopL.Y)
	// every fragment of a link is an active area
	meta = pages[1].Meta
	require.Len(t, meta.Links, 1)
	assert.Equal(t, link, meta.Links[0].Box)
	assert.Equal(t, dimen.Dimen(0), meta.Links[0].Rect.TopL.Y)
	assert.Empty(t, meta.Bookmarks)
	assert.Empty(t, meta.Anchors)
	assert.Equal(t, []Bookmark{{Box: h2, Level: 2, Label: "Details", Y: 0}}, pages[2].Meta.Bookmarks)
}
