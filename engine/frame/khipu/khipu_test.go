package khipu

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
	"github.com/npillmayer/folio/engine/text/monospace"
)

func encoder(tree *frame.Tree) *Encoder {
	mono := monospace.Fixed(10 * dimen.PX)
	return &Encoder{
		Tree: tree,
		Measure: func(box frame.BoxID, run string, st *style.Style) text.Measurement {
			m, _ := mono.Measure(run, st, dimen.Infinity)
			return m
		},
		Base: 200 * dimen.PX,
	}
}

func body() (*frame.Tree, frame.BoxID) {
	tree := frame.NewTree()
	st := style.Initial()
	st.Display = style.BlockMode | style.FlowMode
	return tree, tree.Add(frame.NoBox, st, "body")
}

func types(kh *Khipu) []KnotType {
	var tt []KnotType
	for i := 0; i < kh.Length(); i++ {
		tt = append(tt, kh.At(i).Type)
	}
	return tt
}

func TestKhipu(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	kh := NewKhipu()
	kh.AppendKnot(NewKnot(KTKern)).AppendKnot(NewGlue(dimen.PX, 0, 0))
	kh.appendText(3, "Hello")
	k := NewKnot(KTTextBox)
	k.Start, k.End = 0, 5
	kh.AppendKnot(k)
	assert.Equal(t, 3, kh.Length())
	assert.Equal(t, "Hello", kh.Text(0, 3))
	assert.Equal(t, frame.BoxID(3), kh.BoxAt(2))
	other := NewKhipu()
	other.appendText(4, " World")
	k.Start, k.End = 0, 6
	other.AppendKnot(k)
	kh.AppendKhipu(other)
	assert.Equal(t, 11, kh.TextLength())
	assert.Equal(t, 5, kh.At(3).Start)
	assert.Equal(t, "Hello World", kh.Cord().String())
	assert.Equal(t, "lo W", kh.TextRange(3, 7))
}

func TestEncodeWords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	tree, root := body()
	txt := tree.AddText(root, "Hello World")
	kh := encoder(tree).Encode([]frame.BoxID{txt})
	t.Logf("khipu = %s", kh)
	require.Equal(t, []KnotType{KTTextBox, KTGlue, KTPenalty, KTTextBox}, types(kh))
	assert.Equal(t, 50*dimen.PX, kh.At(0).Width)
	assert.Equal(t, 10*dimen.PX, kh.At(1).Width)
	assert.Equal(t, 6, kh.At(2).Start)
	assert.Equal(t, "World", kh.Text(3, 4))
	assert.Equal(t, 0, kh.At(3).Run)
	assert.Len(t, kh.Runs(), 1)
}

func TestEncodeInlineBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	tree, root := body()
	spanst := style.Inherit(tree.Style(root))
	spanst.Padding[frame.Left] = style.Px(5)
	spanst.Margin[frame.Right] = style.Pct(10)
	span := tree.Add(root, spanst, "span")
	tree.AddText(span, "a ")
	after := tree.AddText(root, "  b")
	kh := encoder(tree).Encode([]frame.BoxID{span, after})
	t.Logf("khipu = %s", kh)
	require.Equal(t, []KnotType{KTOpen, KTTextBox, KTGlue, KTPenalty, KTClose, KTTextBox}, types(kh))
	assert.Equal(t, 5*dimen.PX, kh.At(0).Width)
	assert.Equal(t, 20*dimen.PX, kh.At(4).Width, "percentage margins resolve against the base")
	assert.Equal(t, "a b", kh.Cord().String(), "space after a collapsed space is removed")
}

func TestEncodeAtomicAndAnchors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	tree, root := body()
	a := tree.AddText(root, "x")
	img := tree.AddReplaced(root, nil, "logo.png")
	flst := style.Inherit(tree.Style(root))
	flst.Float = style.FloatLeft
	flst.Display = style.BlockMode | style.FlowMode
	fl := tree.Add(root, flst, "aside")
	enc := encoder(tree)
	enc.Atomic = func(box frame.BoxID) (w, h, baseline dimen.Dimen) {
		return 30 * dimen.PX, 20 * dimen.PX, 15 * dimen.PX
	}
	kh := enc.Encode([]frame.BoxID{a, img, fl})
	require.Equal(t, []KnotType{KTTextBox, KTBox, KTAnchor}, types(kh))
	box := kh.At(1)
	assert.Equal(t, img, box.Box)
	assert.Equal(t, 15*dimen.PX, box.Ascent)
	assert.Equal(t, 5*dimen.PX, box.Descent)
	assert.Equal(t, len(ObjectReplacement), box.End-box.Start)
	assert.Equal(t, fl, kh.At(2).Box)
	assert.Equal(t, kh.TextLength(), kh.At(2).Start)
}

func TestEncodeForcedAndHyphen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.khipu")
	defer teardown()
	//
	tree, root := body()
	st := style.Inherit(tree.Style(root))
	st.WhiteSpace = style.WhiteSpacePreLine
	pre := tree.AddKind(root, frame.Inline, st, "span")
	txt := tree.AddText(pre, "ab\ncd")
	kh := encoder(tree).Encode([]frame.BoxID{txt})
	require.Equal(t, []KnotType{KTTextBox, KTPenalty, KTTextBox}, types(kh))
	assert.True(t, kh.At(1).IsForced())
	//
	tree, root = body()
	shy := tree.AddText(root, "hy\u00ADphen")
	kh = encoder(tree).Encode([]frame.BoxID{shy})
	require.Equal(t, []KnotType{KTTextBox, KTDiscretionary, KTTextBox}, types(kh))
	assert.Equal(t, HyphenBreak, kh.At(1).Penalty)
	assert.Equal(t, 10*dimen.PX, kh.At(1).Width)
	assert.Equal(t, 20*dimen.PX, kh.At(0).Width, "soft hyphen has no width")
}

func TestPrepareText(t *testing.T) {
	var cases = []struct {
		in        string
		ws        style.WhiteSpace
		collapsed bool
		out       string
		space     bool
	}{
		{"  a \t b  ", style.WhiteSpaceNormal, true, "a b ", true},
		{" a", style.WhiteSpaceNormal, false, " a", false},
		{"a\nb", style.WhiteSpaceNoWrap, false, "a b", false},
		{"a  \n  b", style.WhiteSpacePreLine, false, "a\nb", false},
		{"a  b\r\n", style.WhiteSpacePre, false, "a  b\n", false},
		{"  ", style.WhiteSpacePreWrap, true, "  ", false},
		{"é", style.WhiteSpaceNormal, false, "é", false},
	}
	for i, c := range cases {
		out, space := PrepareText(c.in, c.ws, c.collapsed)
		assert.Equal(t, c.out, out, "case %d", i)
		assert.Equal(t, c.space, space, "case %d", i)
	}
}

func TestKnotAt(t *testing.T) {
	tree, root := body()
	txt := tree.AddText(root, "ab cd")
	kh := encoder(tree).Encode([]frame.BoxID{txt})
	assert.Equal(t, 0, kh.KnotAt(0))
	assert.Equal(t, 3, kh.KnotAt(3), "penalty at 3 is completed")
	assert.Equal(t, kh.Length(), kh.KnotAt(5))
}
