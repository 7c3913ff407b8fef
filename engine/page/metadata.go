package page

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/frame/layout"
)

// Metadata are the byproducts of laying out a page which output formats
// need besides the geometry.
type Metadata struct {
	Links     []Link
	Bookmarks []Bookmark
	Anchors   []Anchor
	Strings   map[string]string // named strings, by their `first` value
}

// Link is an area of a page referring to a target, e.g. "#chapter-2".
type Link struct {
	Box    frame.BoxID
	Target string
	Rect   dimen.Rect
}

// Bookmark is an entry of a document outline.
type Bookmark struct {
	Box   frame.BoxID
	Level int
	Label string
	Y     dimen.Dimen
}

// Anchor is the position of a link target.
type Anchor struct {
	Box  frame.BoxID
	Name string
	At   dimen.Point
}

// collectMetadata walks the fragments of a page in document order.
// Bookmarks and anchors are reported for the first fragment of a box only;
// every fragment of a link is an active area.
func collectMetadata(tree *frame.Tree, fs []*frame.Fragment, ps *layout.PageState, names []string) Metadata {
	var meta Metadata
	for _, f := range fs {
		f.Walk(func(c *frame.Fragment) bool {
			if c.Placeholder {
				return false
			}
			if c.Box == frame.NoBox || c.Kind == frame.Line {
				return true
			}
			st := tree.Style(c.Box)
			border := c.Used.BorderBox()
			if st.Link != "" {
				meta.Links = append(meta.Links, Link{Box: c.Box, Target: st.Link, Rect: border})
			}
			if c.ContinuedBefore || c.Repeated {
				return true
			}
			if st.Anchor != "" {
				meta.Anchors = append(meta.Anchors, Anchor{Box: c.Box, Name: st.Anchor, At: border.TopL})
			}
			if st.BookmarkLevel > 0 {
				label := st.BookmarkLabel
				if label == "" {
					label = khipu.ContentText(tree, c.Box)
				}
				meta.Bookmarks = append(meta.Bookmarks, Bookmark{
					Box:   c.Box,
					Level: st.BookmarkLevel,
					Label: label,
					Y:     border.TopL.Y,
				})
			}
			return true
		})
	}
	if len(names) > 0 {
		meta.Strings = make(map[string]string, len(names))
		for _, name := range names {
			meta.Strings[name] = ps.NamedString(name, layout.StringFirst)
		}
	}
	return meta
}
