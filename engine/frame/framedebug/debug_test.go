package framedebug

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
)

func smallTree(t *testing.T) *frame.Tree {
	st := style.Initial()
	require.NoError(t, st.ParseDeclarations("display: block"))
	tree := frame.NewTree()
	root := tree.Add(frame.NoBox, st, "body")
	p := tree.Add(root, st.Clone(), "p")
	tree.AddText(p, "Hello World, again")
	return tree
}

func TestBoxTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	out := BoxTree(smallTree(t))
	t.Logf("\n%s", out)
	assert.True(t, strings.HasPrefix(out, "block#0(body)"))
	assert.Contains(t, out, "block#1(p)")
	assert.Contains(t, out, `"Hello World, again"`)
	assert.Equal(t, "<empty box tree>\n", BoxTree(frame.NewTree()))
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	var b strings.Builder
	require.NoError(t, ToGraphViz(smallTree(t), &b))
	dot := b.String()
	assert.True(t, strings.HasPrefix(dot, "digraph g {"))
	assert.Contains(t, dot, "node0 -> node1")
	assert.Contains(t, dot, "node1 -> node2")
	assert.Contains(t, dot, "Hello␣Worl…")
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestFragmentTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.frame")
	defer teardown()
	//
	root := frame.NewFragment(0, frame.BlockContainer, frame.Used{W: 200 * dimen.BP, H: 40 * dimen.BP})
	root.ContinuedAfter = true
	line := frame.NewFragment(frame.NoBox, frame.Line, frame.Used{W: 200 * dimen.BP, H: 20 * dimen.BP})
	run := frame.NewFragment(2, frame.Text, frame.Used{W: 40 * dimen.BP, H: 20 * dimen.BP})
	run.Text = &frame.TextSlice{Start: 0, End: 5, Hyphen: true}
	line.Add(run)
	root.Add(line)
	out := FragmentTree(root)
	t.Logf("\n%s", out)
	assert.True(t, strings.HasPrefix(out, "block#0 (0,0) 200×40 …"))
	assert.Contains(t, out, "line (0,0) 200×20")
	assert.Contains(t, out, "text#2 (0,0) 40×20 [0:5]-")
	assert.Equal(t, "<no fragment>\n", FragmentTree(nil))
}
