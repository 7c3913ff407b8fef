package page

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/layout"
	"github.com/npillmayer/folio/engine/style"
)

// marginBoxes generates the margin boxes of a page. Their content is
// resolved against the page state at the end of the page, so `last` named
// strings see every assignment of the page.
func (p *Paginator) marginBoxes(pg *Page) error {
	pg.Margins = pg.Margins[:0]
	ps := pg.End.State
	for mp := MarginPosition(0); mp < marginCount; mp++ {
		if p.templates[mp] == nil {
			continue
		}
		mb := MarginBox{
			Position: mp,
			Rect:     p.config.marginRect(mp),
			Text:     p.templates[mp].Resolve(ps),
		}
		if mb.Text != "" && !mb.Rect.IsEmpty() {
			f, err := p.layoutMargin(p.styles[mp], mb.Text, mb.Rect)
			if err != nil {
				return err
			}
			mb.Fragment = f
		}
		pg.Margins = append(pg.Margins, mb)
	}
	return nil
}

// layoutMargin lays out the text of a margin box in a box tree of its own,
// centered vertically in the margin box's rectangle.
func (p *Paginator) layoutMargin(st *style.Style, text string, r dimen.Rect) (*frame.Fragment, error) {
	bst := st.Clone()
	bst.Display = style.BlockMode | style.FlowMode
	bst.Content = ""
	tree := frame.NewTree()
	root := tree.AddKind(frame.NoBox, frame.MarginBox, bst, "margin")
	tree.AddText(root, text)
	lc, err := p.lc.Derive(tree)
	if err != nil {
		return nil, err
	}
	flow, err := lc.LayoutBox(root, layout.Fragmentainer{
		Origin: r.TopL,
		Width:  r.Width(),
		Height: dimen.Infinity,
	}, nil)
	if err != nil {
		return nil, err
	}
	f := flow.Fragment
	f.Translate(0, (r.Height()-f.Used.OuterHeight())/2)
	return f, nil
}
