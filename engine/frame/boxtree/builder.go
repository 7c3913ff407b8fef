package boxtree

import (
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

// Builder creates box trees from HTML parse trees.
type Builder struct {
	ua     *Sheet
	author []*Sheet
}

// NewBuilder creates a builder applying the user-agent defaults and then
// a list of author style sheets.
func NewBuilder(sheets ...string) (*Builder, error) {
	ua, err := ParseSheet(userAgent)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "user-agent style sheet")
	}
	b := &Builder{ua: ua}
	var errs error
	for _, text := range sheets {
		sheet, err := ParseSheet(text)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		b.author = append(b.author, sheet)
	}
	return b, errs
}

// FromHTML parses an HTML document and builds its box tree. Style errors
// do not stop the build; they are returned together with the tree.
func FromHTML(r io.Reader, sheets ...string) (*frame.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML")
	}
	b, err := NewBuilder(sheets...)
	if b == nil {
		return nil, err
	}
	tree, berr := b.Build(doc)
	if tree == nil {
		return nil, berr
	}
	if berr != nil {
		err = multierror.Append(err, berr)
	}
	return tree, err
}

// Build creates the box tree for an HTML document. The <html> element
// becomes the root box.
func (b *Builder) Build(doc *html.Node) (*frame.Tree, error) {
	root := findElement(atom.Html, doc)
	if root == nil {
		return nil, core.Error(core.EINVALID, "document has no <html> element")
	}
	g := &generator{Builder: b, tree: frame.NewTree()}
	for _, text := range styleElements(root) {
		sheet, err := ParseSheet(text)
		if err != nil {
			g.errs = multierror.Append(g.errs, err)
		}
		g.embedded = append(g.embedded, sheet)
	}
	g.element(root, frame.NoBox, nil)
	if g.tree.Len() == 0 {
		return nil, core.Error(core.EINVALID, "<html> element generates no box")
	}
	tracer().Infof("box tree of %d boxes built", g.tree.Len())
	return g.tree, g.errs
}

// generator holds the state of a single build.
type generator struct {
	*Builder
	tree     *frame.Tree
	embedded []*Sheet
	errs     error
}

// element generates the box for an element and the boxes of its children.
// Elements with `display: contents` generate no box; their children are
// added to parent.
func (g *generator) element(n *html.Node, parent frame.BoxID, pst *style.Style) {
	st := g.computeStyle(n, pst)
	if st.Display.Contains(style.DisplayNone) {
		return
	}
	id := parent
	switch {
	case st.Display.Contains(style.ContentsMode):
		st = pst
	case n.DataAtom == atom.Img:
		id = g.tree.AddReplaced(parent, st, attr(n, "src"))
	default:
		id = g.tree.Add(parent, st, n.Data)
	}
	if id == frame.NoBox {
		return // root with display: contents
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			g.element(c, id, st)
		case html.TextNode:
			g.text(c.Data, id, st)
		}
	}
}

// text adds a text run. Whitespace-only runs are dropped unless
// white space is preserved.
func (g *generator) text(s string, parent frame.BoxID, pst *style.Style) {
	if pst.WhiteSpace.CollapsesSpace() && strings.TrimSpace(s) == "" {
		return
	}
	g.tree.AddText(parent, s)
}

// computeStyle cascades the styles of an element: user-agent rules, author
// sheets, <style> elements, presentational attributes and the `style`
// attribute.
func (g *generator) computeStyle(n *html.Node, pst *style.Style) *style.Style {
	st := style.Inherit(pst)
	apply := func(sheet *Sheet) {
		if sheet == nil {
			return
		}
		if err := st.Apply(sheet.match(n)); err != nil {
			g.errs = multierror.Append(g.errs, err)
		}
	}
	apply(g.ua)
	for _, sheet := range g.author {
		apply(sheet)
	}
	for _, sheet := range g.embedded {
		apply(sheet)
	}
	for _, a := range n.Attr {
		var err error
		switch a.Key {
		case "id":
			err = st.Set("id", a.Val)
		case "href":
			err = st.Set("link", a.Val)
		case "lang":
			err = st.Set("lang", a.Val)
		case "colspan", "rowspan":
			err = st.Set(a.Key, a.Val)
		}
		if err != nil {
			g.errs = multierror.Append(g.errs, err)
		}
	}
	if s := attr(n, "style"); s != "" {
		if err := st.ParseDeclarations(s); err != nil {
			g.errs = multierror.Append(g.errs, err)
		}
	}
	return st
}

// styleElements returns the content of the <style> elements of a document.
func styleElements(h *html.Node) []string {
	var sheets []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.DataAtom == atom.Style && c.FirstChild != nil {
				sheets = append(sheets, c.FirstChild.Data)
				continue
			}
			visit(c)
		}
	}
	visit(h)
	return sheets
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
