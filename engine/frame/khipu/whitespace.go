package khipu

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/npillmayer/folio/engine/style"
)

// PrepareText applies white-space processing to the text of a run and
// normalizes it to NFC. If collapsed is set, the preceding text of the same
// inline formatting context ended in a collapsible space (or the run is at
// the start of it), and a leading space of this run is removed.
//
// It returns the processed text and whether it ends in a collapsible space.
func PrepareText(s string, ws style.WhiteSpace, collapsed bool) (string, bool) {
	s = norm.NFC.String(s)
	if !ws.CollapsesSpace() {
		return strings.ReplaceAll(s, "\r\n", "\n"), false
	}
	keepNewlines := ws == style.WhiteSpacePreLine
	var b strings.Builder
	b.Grow(len(s))
	space := collapsed
	for _, r := range s {
		switch r {
		case '\n', '\r':
			if keepNewlines {
				// spaces around a preserved newline are removed
				str := strings.TrimRight(b.String(), " ")
				b.Reset()
				b.WriteString(str)
				b.WriteByte('\n')
				space = true
				continue
			}
			r = ' '
		case '\t', '\f':
			r = ' '
		}
		if r == ' ' {
			if space {
				continue
			}
			space = true
		} else {
			space = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	return out, strings.HasSuffix(out, " ")
}
