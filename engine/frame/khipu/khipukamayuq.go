package khipu

/*
BSD License

Copyright (c) 2017–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of the software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

import (
	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/frame"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
)

// ObjectReplacement is the text standing in for an atomic inline.
const ObjectReplacement = "\uFFFC"

// Measurer measures the processed text of a text box.
type Measurer func(box frame.BoxID, run string, st *style.Style) text.Measurement

// AtomicSizer returns the size of an atomic inline's margin box and the
// position of its baseline, measured from the top of the margin box.
type AtomicSizer func(box frame.BoxID) (w, h, baseline dimen.Dimen)

// Encoder knots khipus for inline formatting contexts of a box tree.
type Encoder struct {
	Tree    *frame.Tree
	Measure Measurer
	Atomic  AtomicSizer
	Base    dimen.Dimen // width of the containing block, for percentages of inline box edges

	khipu     *Khipu
	collapsed bool
}

// Encode creates a khipu for a sequence of inline-level sibling boxes.
func (enc *Encoder) Encode(boxes []frame.BoxID) *Khipu {
	enc.khipu = NewKhipu()
	enc.collapsed = true // leading white space of a line is removed
	tracer().Debugf("------------ start of inline content -----------")
	for _, id := range boxes {
		enc.encodeBox(id)
	}
	tracer().Debugf("khipu = %s", enc.khipu)
	kh := enc.khipu
	enc.khipu = nil
	return kh
}

func (enc *Encoder) encodeBox(id frame.BoxID) {
	box := enc.Tree.Box(id)
	switch {
	case box.Kind == frame.Text:
		enc.encodeText(box)
	case !box.IsInFlow():
		k := NewKnot(KTAnchor)
		k.Box = id
		enc.khipu.AppendKnot(k)
	case box.Kind == frame.Inline && !box.Style.Display.IsAtomicInline():
		left, right := enc.edges(box.Style)
		open := NewKnot(KTOpen)
		open.Box, open.Width = id, left
		enc.khipu.AppendKnot(open)
		for _, c := range box.Children {
			enc.encodeBox(c)
		}
		cls := NewKnot(KTClose)
		cls.Box, cls.Width = id, right
		enc.khipu.AppendKnot(cls)
	default: // atomic inline
		enc.encodeAtomic(box)
	}
}

// edges returns the horizontal space an inline box takes up at its start
// and end: margin, border and padding.
func (enc *Encoder) edges(st *style.Style) (left, right dimen.Dimen) {
	cb := frame.CBIndefinite(enc.Base)
	var u frame.Used
	frame.ResolveEdges(st, cb, &u)
	ml, _ := frame.ResolveLength(st.Margin[frame.Left], enc.Base, enc.Base != dimen.Infinity)
	mr, _ := frame.ResolveLength(st.Margin[frame.Right], enc.Base, enc.Base != dimen.Infinity)
	left = ml + u.Border[frame.Left] + u.Padding[frame.Left]
	right = u.Padding[frame.Right] + u.Border[frame.Right] + mr
	return
}

func (enc *Encoder) encodeAtomic(box *frame.Box) {
	k := NewKnot(KTBox)
	k.Box = box.ID
	if enc.Atomic != nil {
		w, h, baseline := enc.Atomic(box.ID)
		k.Width, k.Ascent, k.Descent = w, baseline, h-baseline
	}
	start := enc.khipu.appendText(box.ID, ObjectReplacement)
	k.Start, k.End = start, start+len(ObjectReplacement)
	enc.khipu.AppendKnot(k)
	enc.collapsed = false
}

// encodeText splits a run into text boxes, glue and penalties. Text boxes
// end at break opportunities and at collapsible spaces; emergency
// opportunities are left to the line breaker, which finds them in the
// run's measurement.
func (enc *Encoder) encodeText(box *frame.Box) {
	st := box.Style
	ws := st.WhiteSpace
	prepared, endsInSpace := PrepareText(box.Text, ws, enc.collapsed)
	if prepared == "" {
		return
	}
	enc.collapsed = endsInSpace
	m := enc.Measure(box.ID, prepared, st)
	kh := enc.khipu
	start := kh.appendText(box.ID, prepared)
	run := len(kh.runs)
	kh.runs = append(kh.runs, Run{Box: box.ID, Start: start, Text: prepared, Measurement: m})
	tracer().Debugf("encode run %q", prepared)
	//
	textStart := -1 // start of pending text box, local offset
	flush := func(end int) {
		if textStart < 0 || end <= textStart {
			textStart = -1
			return
		}
		k := NewKnot(KTTextBox)
		k.Box, k.Run = box.ID, run
		k.Start, k.End = start+textStart, start+end
		k.Width = m.WidthOf(textStart, end)
		k.Ascent, k.Descent = m.Ascent, m.Descent
		kh.AppendKnot(k)
		textStart = -1
	}
	for i, c := range m.Clusters {
		next := len(prepared)
		if i+1 < len(m.Clusters) {
			next = m.Clusters[i+1].Offset
		}
		if c.Space && ws.CollapsesSpace() {
			flush(c.Offset)
			g := NewGlue(c.Width, c.Width/2, c.Width/3)
			g.Box, g.Run = box.ID, run
			g.Start, g.End = start+c.Offset, start+next
			kh.AppendKnot(g)
		} else if textStart < 0 {
			textStart = c.Offset
		}
		b, ok := m.BreakAt(next)
		if !ok || b.Rank == text.BreakEmergency || (!ws.Wraps() && b.Rank != text.BreakForced) {
			continue
		}
		flush(next)
		var p Knot
		switch b.Rank {
		case text.BreakForced:
			p = Penalty(ForcedBreak)
		case text.BreakSoftHyphen:
			p = NewKnot(KTDiscretionary)
			p.Penalty, p.Width = HyphenBreak, m.HyphenWidth
		default:
			p = Penalty(SpaceBreak)
		}
		p.Box = box.ID
		p.Start, p.End = start+next, start+next
		kh.AppendKnot(p)
	}
	flush(len(prepared))
}
