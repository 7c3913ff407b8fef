/*
Package hyphen finds hyphenation points by Frank Liang's pattern algorithm,
the method used by TeX.

Patterns are stored in a trie, keyed by their letters. A Dictionary holds
the patterns and exceptions of one language; a Registry maps language tags
to dictionaries. Wrap turns a registry into a source of break
opportunities for a text oracle.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package hyphen

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/derekparker/trie"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.text'.
func tracer() tracing.Trace {
	return tracing.Select("folio.text")
}

// Dictionary holds hyphenation patterns and exceptions for a language.
type Dictionary struct {
	patterns   *trie.Trie
	exceptions map[string][]int // word → rune positions
	maxlen     int              // length of the longest pattern, in runes
	LeftMin    int              // minimum number of runes before a hyphen
	RightMin   int              // minimum number of runes after a hyphen
}

// NewDictionary creates a dictionary from patterns in TeX notation, e.g.
// "hy3ph", and exceptions with explicit hyphens, e.g. "ta-ble".
func NewDictionary(patterns []string, exceptions []string) *Dictionary {
	d := &Dictionary{
		patterns:   trie.New(),
		exceptions: make(map[string][]int),
		LeftMin:    2,
		RightMin:   3,
	}
	for _, p := range patterns {
		d.AddPattern(p)
	}
	for _, e := range exceptions {
		d.AddException(e)
	}
	return d
}

// AddPattern adds a single pattern in TeX notation. Digits between letters
// give the priority of a hyphenation point; odd values allow a hyphen, even
// values inhibit it. A dot marks the beginning or end of a word.
func (d *Dictionary) AddPattern(pattern string) {
	var letters []rune
	values := []int{0}
	for _, r := range pattern {
		if r >= '0' && r <= '9' {
			values[len(values)-1] = int(r - '0')
			continue
		}
		letters = append(letters, unicode.ToLower(r))
		values = append(values, 0)
	}
	if len(letters) == 0 {
		return
	}
	d.patterns.Add(string(letters), values)
	if len(letters) > d.maxlen {
		d.maxlen = len(letters)
	}
}

// AddException adds a word with explicit hyphens, which overrides the
// patterns.
func (d *Dictionary) AddException(word string) {
	var positions []int
	var letters []rune
	for _, r := range word {
		if r == '-' {
			positions = append(positions, len(letters))
			continue
		}
		letters = append(letters, unicode.ToLower(r))
	}
	d.exceptions[string(letters)] = positions
}

// Parse reads a dictionary from TeX-like pattern files: whitespace separated
// patterns, optionally wrapped in \patterns{…}, and exceptions inside
// \hyphenation{…}. Everything after a '%' up to the end of a line is a
// comment.
func Parse(r io.Reader) (*Dictionary, error) {
	d := NewDictionary(nil, nil)
	scanner := bufio.NewScanner(r)
	inExceptions := false
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			switch {
			case strings.HasPrefix(field, `\patterns{`):
				inExceptions = false
				field = strings.TrimPrefix(field, `\patterns{`)
			case strings.HasPrefix(field, `\hyphenation{`):
				inExceptions = true
				field = strings.TrimPrefix(field, `\hyphenation{`)
			case strings.HasPrefix(field, `\`):
				return nil, fmt.Errorf("hyphen: line %d: unknown command %s", lineno, field)
			}
			field = strings.TrimSuffix(field, "}")
			if field == "" {
				continue
			}
			if inExceptions {
				d.AddException(field)
			} else {
				d.AddPattern(field)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("hyphen: %w", err)
	}
	return d, nil
}

// Positions returns the hyphenation points of a word as rune indices: a
// position k allows a hyphen between rune k-1 and rune k.
func (d *Dictionary) Positions(word string) []int {
	lower := []rune(strings.ToLower(word))
	n := len(lower)
	if n < d.LeftMin+d.RightMin {
		return nil
	}
	if pos, ok := d.exceptions[string(lower)]; ok {
		return pos
	}
	dotted := make([]rune, 0, n+2)
	dotted = append(dotted, '.')
	dotted = append(dotted, lower...)
	dotted = append(dotted, '.')
	values := make([]int, len(dotted)+1)
	for i := 0; i < len(dotted); i++ {
		for j := i + 1; j <= len(dotted) && j-i <= d.maxlen; j++ {
			node, ok := d.patterns.Find(string(dotted[i:j]))
			if !ok {
				continue
			}
			pv := node.Meta().([]int)
			for k, v := range pv {
				if v > values[i+k] {
					values[i+k] = v
				}
			}
		}
	}
	var positions []int
	// values[k+1] is the value between dotted[k] and dotted[k+1], i.e.
	// before rune k of the word
	for k := d.LeftMin; k <= n-d.RightMin; k++ {
		if values[k+1]%2 == 1 {
			positions = append(positions, k)
		}
	}
	return positions
}

// Offsets returns the hyphenation points of a word as byte offsets.
func (d *Dictionary) Offsets(word string) []int {
	positions := d.Positions(word)
	if len(positions) == 0 {
		return nil
	}
	offsets := make([]int, 0, len(positions))
	runeIdx, next := 0, 0
	for i := range word {
		if next < len(positions) && runeIdx == positions[next] {
			offsets = append(offsets, i)
			next++
		}
		runeIdx++
	}
	return offsets
}

// Hyphenate splits a word into syllables.
func (d *Dictionary) Hyphenate(word string) []string {
	offsets := d.Offsets(word)
	syllables := make([]string, 0, len(offsets)+1)
	start := 0
	for _, o := range offsets {
		syllables = append(syllables, word[start:o])
		start = o
	}
	syllables = append(syllables, word[start:])
	tracer().Debugf("hyphenate %q → %v", word, syllables)
	return syllables
}

// isWord is true if a string consists of letters only.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for len(s) > 0 {
		r, w := utf8.DecodeRuneInString(s)
		if !unicode.IsLetter(r) {
			return false
		}
		s = s[w:]
	}
	return true
}
