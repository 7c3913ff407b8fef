package text

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/uax"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"

	"github.com/npillmayer/folio/core/dimen"
)

// SoftHyphen is U+00AD, an invisible break opportunity which shows a hyphen
// if a line is broken there.
const SoftHyphen = '\u00AD'

var setupGraphemes sync.Once

// Analyze segments a run into grapheme clusters and break opportunities,
// leaving the measuring of clusters to a function. It is the common base of
// the reference oracles; other oracles may use it as well.
//
// Break opportunities are found by UAX#14 (line breaking) and ranked:
// preserved newlines are forced, breaks after a soft hyphen are
// BreakSoftHyphen, all others BreakSpace. Every cluster boundary without a
// UAX#14 opportunity is an emergency break. A break at the very end of the
// run is reported only if the run ends in white space or a newline, so that
// adjacent runs join without an opportunity between them.
func Analyze(run string, width func(cluster string) dimen.Dimen) Measurement {
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	m := Measurement{}
	if run == "" {
		return m
	}
	gstr := grapheme.StringFromString(run)
	offset := 0
	for i := 0; i < gstr.Len(); i++ {
		g := gstr.Nth(i)
		c := Cluster{Offset: offset, Space: isspace(g)}
		if !isnewline(g) && !strings.HasPrefix(g, string(SoftHyphen)) {
			c.Width = width(g)
		}
		m.Clusters = append(m.Clusters, c)
		m.Width += c.Width
		if offset > 0 {
			m.Breaks = append(m.Breaks, Break{Offset: offset, Rank: BreakEmergency})
		}
		offset += len(g)
	}
	linewrap := uax14.NewLineWrap()
	seg := segment.NewSegmenter(linewrap)
	seg.Init(strings.NewReader(run))
	pos := 0
	for seg.Next() {
		frag := seg.Text()
		pos += len(frag)
		p1, _ := seg.Penalties()
		last, _ := utf8.DecodeLastRuneInString(frag)
		switch {
		case isnewline(string(last)):
			m.AddBreak(Break{Offset: pos, Rank: BreakForced})
		case pos == len(run) && !unicode.IsSpace(last):
			// no opportunity at the end of a run which ends in a word
		case p1 >= uax.InfinitePenalty:
			// UAX#14 prohibits a break
		case last == SoftHyphen:
			m.AddBreak(Break{Offset: pos, Rank: BreakSoftHyphen})
		default:
			m.AddBreak(Break{Offset: pos, Rank: BreakSpace})
		}
	}
	return m
}

func isspace(g string) bool {
	r, w := utf8.DecodeRuneInString(g)
	if w == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsSpace(r) && !isnewline(g)
}

func isnewline(g string) bool {
	r, _ := utf8.DecodeRuneInString(g)
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u0085'
}
