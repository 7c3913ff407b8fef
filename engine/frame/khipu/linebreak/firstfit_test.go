package linebreak

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/frame/khipu"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/monospace"
)

// encode knots a khipu for a text, with every character 10px wide.
func encode(s string, ws style.WhiteSpace) *khipu.Khipu {
	tree := frame.NewTree()
	st := style.Initial()
	st.Display = style.BlockMode | style.FlowMode
	st.WhiteSpace = ws
	root := tree.Add(frame.NoBox, st, "p")
	txt := tree.AddText(root, s)
	mono := monospace.Fixed(10 * dimen.PX)
	enc := &khipu.Encoder{
		Tree: tree,
		Measure: func(box frame.BoxID, run string, st *style.Style) text.Measurement {
			m, _ := mono.Measure(run, st, dimen.Infinity)
			return m
		},
	}
	return enc.Encode([]frame.BoxID{txt})
}

func breakAll(kh *khipu.Khipu, avail dimen.Dimen) []Line {
	var lines []Line
	pos := 0
	for i := 0; i <= kh.TextLength()+1; i++ {
		l := FirstFit(kh, pos, avail)
		lines = append(lines, l)
		if l.Last {
			break
		}
		pos = l.To
	}
	return lines
}

func TestFirstFitWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	kh := encode("aaa bbb ccc", style.WhiteSpaceNormal)
	lines := breakAll(kh, 75*dimen.PX)
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[0].From)
	assert.Equal(t, 8, lines[0].To)
	assert.Equal(t, 70*dimen.PX, lines[0].Width, "trailing glue does not count")
	assert.Equal(t, 5*dimen.PX, lines[0].Stretch, "one inner glue")
	assert.True(t, lines[1].Last)
	assert.Equal(t, 30*dimen.PX, lines[1].Width)
	assert.Equal(t, "ccc", kh.TextRange(lines[1].From, lines[1].To))
}

func TestFirstFitEmergency(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	kh := encode("abcdefghij", style.WhiteSpaceNormal)
	lines := breakAll(kh, 35*dimen.PX)
	require.Len(t, lines, 4)
	for i, to := range []int{3, 6, 9, 10} {
		assert.Equal(t, to, lines[i].To, "line %d", i)
	}
	assert.True(t, lines[0].Emergency)
	assert.Equal(t, 30*dimen.PX, lines[1].Width)
	// narrower than a single cluster
	lines = breakAll(encode("ab", style.WhiteSpaceNormal), 5*dimen.PX)
	require.Len(t, lines, 2)
	assert.Equal(t, 10*dimen.PX, lines[0].Width)
	assert.True(t, lines[1].Last)
}

func TestFirstFitForcedAndHyphen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	lines := breakAll(encode("ab\ncd", style.WhiteSpacePreLine), 100*dimen.PX)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Forced)
	assert.Equal(t, 3, lines[0].To)
	assert.Equal(t, 20*dimen.PX, lines[0].Width, "newline has no width")
	//
	kh := encode("hy\u00ADphen", style.WhiteSpaceNormal)
	lines = breakAll(kh, 45*dimen.PX)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Hyphen)
	assert.Equal(t, 30*dimen.PX, lines[0].Width, "width includes the hyphen")
	assert.Equal(t, 40*dimen.PX, lines[1].Width)
	// no wrapping allowed
	lines = breakAll(encode("aaa bbb", style.WhiteSpaceNoWrap), 45*dimen.PX)
	assert.True(t, lines[0].Emergency)
}

func TestIntrinsicWidths(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	kh := encode("aaa bbbb c", style.WhiteSpaceNormal)
	assert.Equal(t, 40*dimen.PX, MinContent(kh))
	assert.Equal(t, 100*dimen.PX, MaxContent(kh))
	kh = encode("aaa bbbb c", style.WhiteSpaceNoWrap)
	assert.Equal(t, 100*dimen.PX, MinContent(kh))
	kh = encode("aa\nbbbbb", style.WhiteSpacePre)
	assert.Equal(t, 50*dimen.PX, MaxContent(kh))
}

func TestFirstFitAlwaysProgresses(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[ab \n]{0,40}`).Draw(t, "text")
		ws := style.WhiteSpace(rapid.IntRange(0, 4).Draw(t, "white-space"))
		avail := dimen.Dimen(rapid.IntRange(1, 100).Draw(t, "avail")) * dimen.PX
		kh := encode(s, ws)
		pos, n := 0, 0
		for {
			l := FirstFit(kh, pos, avail)
			if l.Last {
				break
			}
			if l.To <= pos || l.To <= l.From {
				t.Fatalf("no progress at %d: %v", pos, l)
			}
			if l.Width > avail && l.To-l.From > 1 {
				t.Fatalf("line too wide: %v", l)
			}
			pos = l.To
			if n++; n > kh.TextLength()+1 {
				t.Fatalf("too many lines for %q", s)
			}
		}
	})
}
