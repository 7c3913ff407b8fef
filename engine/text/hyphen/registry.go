package hyphen

import (
	"strings"
	"sync"

	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax29"
	"golang.org/x/text/language"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/engine/style"
	"github.com/npillmayer/folio/engine/text"
)

// Registry maps languages to dictionaries. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	dicts map[language.Tag]*Dictionary
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{dicts: make(map[language.Tag]*Dictionary)}
}

// Register sets the dictionary for a language.
func (reg *Registry) Register(tag language.Tag, d *Dictionary) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.dicts[tag] = d
}

// Lookup finds the dictionary for a language. If there is none for the tag
// itself, its parents are tried, e.g. "en" for "en-GB".
func (reg *Registry) Lookup(tag language.Tag) (*Dictionary, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for t := tag; ; t = t.Parent() {
		if d, ok := reg.dicts[t]; ok {
			return d, true
		}
		if t.IsRoot() {
			break
		}
	}
	base, _ := tag.Base()
	d, ok := reg.dicts[language.Make(base.String())]
	return d, ok
}

// Default returns a registry with a small built-in English dictionary.
// It covers common suffixes and prefixes only; complete dictionaries should
// be loaded with Parse from TeX pattern files.
func Default() *Registry {
	reg := NewRegistry()
	reg.Register(language.English, NewDictionary(englishPatterns, englishExceptions))
	return reg
}

var englishPatterns = []string{
	// Liang's example
	"hy3ph", "he2n", "hena4", "hen5at", "1na", "n2at", "1tio", "2io", "o2n",
	// suffixes
	"1ment", "1ness", "1less", "1ful", "4ing.", "1ty.", "1able", "1ible",
	"1tion", "1sion", "1ture", "1ly.",
	// prefixes
	".un1", ".re1", ".pre1", ".dis1", ".in1", ".over1", ".under1",
	// double consonants
	"b1b", "c1c", "d1d", "f1f", "g1g", "l1l", "m1m", "n1n", "p1p",
	"r1r", "s1s", "t1t", "z1z",
}

var englishExceptions = []string{
	"ta-ble", "pro-ject", "pres-ent", "rec-ord",
}

// --- Break opportunities ---------------------------------------------------

// Oracle decorates a text oracle with hyphenation. For runs with style
// `hyphens: auto`, hyphenation points of words with at least MinLength
// runes are added as soft-hyphen break opportunities. For `hyphens: none`,
// soft-hyphen opportunities of the run are removed.
type Oracle struct {
	text.Oracle
	Registry  *Registry
	Fallback  language.Tag // used if a style does not set a language
	MinLength int
}

// Wrap decorates an oracle with hyphenation.
func Wrap(o text.Oracle, reg *Registry, fallback language.Tag, minlen int) *Oracle {
	if reg == nil {
		reg = Default()
	}
	return &Oracle{Oracle: o, Registry: reg, Fallback: fallback, MinLength: minlen}
}

// Measure is part of interface text.Oracle.
func (o *Oracle) Measure(run string, st *style.Style, avail dimen.Dimen) (text.Measurement, error) {
	m, err := o.Oracle.Measure(run, st, avail)
	if err != nil || st == nil {
		return m, err
	}
	switch st.Hyphens {
	case style.HyphensNone:
		breaks := m.Breaks[:0]
		for _, b := range m.Breaks {
			if b.Rank == text.BreakSoftHyphen {
				b.Rank = text.BreakEmergency
			}
			breaks = append(breaks, b)
		}
		m.Breaks = breaks
	case style.HyphensAuto:
		tag := o.Fallback
		if st.Lang != "" {
			if t, err := language.Parse(st.Lang); err == nil {
				tag = t
			}
		}
		dict, ok := o.Registry.Lookup(tag)
		if !ok {
			tracer().Debugf("no hyphenation dictionary for %s", tag)
			return m, nil
		}
		o.hyphenate(run, dict, &m)
	}
	return m, nil
}

// hyphenate finds words by UAX#29 and adds their hyphenation points.
func (o *Oracle) hyphenate(run string, dict *Dictionary, m *text.Measurement) {
	words := segment.NewSegmenter(uax29.NewWordBreaker(1))
	words.BreakOnZero(true, false)
	words.Init(strings.NewReader(run))
	pos := 0
	for words.Next() {
		word := words.Text()
		if isWord(word) && len([]rune(word)) >= o.MinLength {
			for _, off := range dict.Offsets(word) {
				m.AddBreak(text.Break{Offset: pos + off, Rank: text.BreakSoftHyphen})
			}
		}
		pos += len(word)
	}
}

var _ text.Oracle = (*Oracle)(nil)
