package khipu

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

func TestContentText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	tree, root := body()
	tree.AddText(root, "\n  Chapter ")
	span := tree.Add(root, style.Inherit(tree.Style(root)), "span")
	tree.AddText(span, "  One\t")
	assert.Equal(t, "Chapter One", ContentText(tree, root))
	//
	tree, root = body()
	tree.AddText(root, "Part")
	blockst := style.Inherit(tree.Style(root))
	blockst.Display = style.BlockMode | style.FlowMode
	sub := tree.Add(root, blockst, "div")
	tree.AddText(sub, "Two ")
	assert.Equal(t, "Part Two", ContentText(tree, root), "blocks are separated by a space")
	//
	tree, root = body()
	prest := style.Inherit(tree.Style(root))
	prest.WhiteSpace = style.WhiteSpacePre
	pre := tree.AddKind(root, frame.Inline, prest, "span")
	tree.AddText(pre, " a  b ")
	assert.Equal(t, " a  b ", ContentText(tree, root))
	assert.Equal(t, "", ContentText(tree, frame.NoBox))
}
