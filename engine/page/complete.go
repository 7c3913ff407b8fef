package page

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame"
)

// CheckCompleteness verifies that the pages of a document hold every box of
// its tree: each box has exactly one fragment which does not continue an
// earlier one. Repeated table headers and footers do not count. Text runs
// may be split into a fragment per line; text and inline boxes without
// visible content and table column boxes are exempt.
func CheckCompleteness(tree *frame.Tree, pages []*Page) error {
	starts := make(map[frame.BoxID]int, tree.Len())
	for _, pg := range pages {
		for _, f := range pg.content() {
			f.Walk(func(c *frame.Fragment) bool {
				if c.Repeated || c.Placeholder {
					return false
				}
				if c.Box != frame.NoBox && c.Kind != frame.Line && !c.ContinuedBefore {
					starts[c.Box]++
				}
				return true
			})
		}
	}
	var errs *multierror.Error
	tree.Walk(tree.Root(), func(b *frame.Box) bool {
		if exempt(tree, b) {
			return true
		}
		switch n := starts[b.ID]; {
		case n == 0:
			errs = multierror.Append(errs, fmt.Errorf("%v is missing", b))
		case n > 1 && b.Kind != frame.Text:
			errs = multierror.Append(errs, fmt.Errorf("%v starts %d times", b, n))
		}
		return true
	})
	if err := errs.ErrorOrNil(); err != nil {
		return core.WrapError(err, core.EINTERNAL, "incomplete pagination")
	}
	return nil
}

func exempt(tree *frame.Tree, b *frame.Box) bool {
	switch b.Kind {
	case frame.Column, frame.ColumnGroup:
		return true
	case frame.Text, frame.Inline:
		return strings.TrimSpace(tree.TextContent(b.ID)) == ""
	}
	return false
}
