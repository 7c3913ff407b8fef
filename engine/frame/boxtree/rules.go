package boxtree

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/net/html"

	"github.com/npillmayer/folio/core"
)

// userAgent holds the default styles of HTML elements.
const userAgent = `
head, style, script, title, meta, link, template { display: none }
html, body, div, section, article, aside, nav, header, footer, main,
address, blockquote, figure, figcaption, pre, hr { display: block }
p { display: block; margin-top: 1em; margin-bottom: 1em }
h1, h2, h3, h4, h5, h6 { display: block; break-after: avoid }
h1 { font-size: 2em; margin-top: 0.67em; margin-bottom: 0.67em; bookmark-level: 1 }
h2 { font-size: 1.5em; margin-top: 0.83em; margin-bottom: 0.83em; bookmark-level: 2 }
h3 { font-size: 1.17em; margin-top: 1em; margin-bottom: 1em; bookmark-level: 3 }
ul, ol { display: block; padding-left: 40px }
li { display: list-item }
pre { white-space: pre }
table { display: table; border-spacing: 2px }
thead { display: table-header-group }
tbody { display: table-row-group }
tfoot { display: table-footer-group }
tr { display: table-row }
td, th { display: table-cell; padding: 1px }
col { display: table-column }
colgroup { display: table-column-group }
caption { display: table-caption }
img { display: inline-block }
`

// rule is a compiled style rule with a single selector.
type rule struct {
	sel         cascadia.Selector
	specificity [3]int
	order       int
	decls       []*css.Declaration
}

// Sheet is a list of style rules in cascade order.
type Sheet struct {
	rules []rule
}

// ParseSheet parses a style sheet. Rules with invalid selectors are skipped
// and reported; @-rules are ignored.
func ParseSheet(text string) (*Sheet, error) {
	sheet := &Sheet{}
	return sheet, sheet.Append(text)
}

// Append adds the rules of a style sheet after the existing rules.
func (sheet *Sheet) Append(text string) error {
	stylesheet, err := parser.Parse(text)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "style sheet")
	}
	var errs error
	for _, r := range stylesheet.Rules {
		if r.Kind != css.QualifiedRule {
			tracer().Debugf("ignoring @%s rule", r.Name)
			continue
		}
		for _, s := range r.Selectors {
			sel, err := cascadia.Compile(s)
			if err != nil {
				errs = multierror.Append(errs, core.WrapError(err, core.EINVALID, "selector %q", s))
				continue
			}
			sheet.rules = append(sheet.rules, rule{
				sel:         sel,
				specificity: specificity(s),
				order:       len(sheet.rules),
				decls:       r.Declarations,
			})
		}
	}
	return errs
}

// Len returns the number of rules of a sheet, counting a rule once per
// selector.
func (sheet *Sheet) Len() int {
	if sheet == nil {
		return 0
	}
	return len(sheet.rules)
}

// match returns the declarations of all rules matching an element, in
// cascade order.
func (sheet *Sheet) match(n *html.Node) []*css.Declaration {
	var matching []*rule
	for i := range sheet.rules {
		if sheet.rules[i].sel.Match(n) {
			matching = append(matching, &sheet.rules[i])
		}
	}
	sort.SliceStable(matching, func(i, j int) bool {
		si, sj := matching[i].specificity, matching[j].specificity
		for k := range si {
			if si[k] != sj[k] {
				return si[k] < sj[k]
			}
		}
		return matching[i].order < matching[j].order
	})
	var decls []*css.Declaration
	for _, r := range matching {
		decls = append(decls, r.decls...)
	}
	return decls
}

// specificity counts ids, classes (including attributes and pseudo-classes)
// and type selectors of a selector.
func specificity(sel string) [3]int {
	var s [3]int
	start := true // at the start of a compound selector
	for i := 0; i < len(sel); i++ {
		switch c := sel[i]; {
		case c == '#':
			s[0]++
		case c == '.' || c == '[' || c == ':':
			s[1]++
			if c == '[' {
				if j := strings.IndexByte(sel[i:], ']'); j > 0 {
					i += j
				}
			}
		case c == ' ' || c == '>' || c == '+' || c == '~':
			start = true
			continue
		case start && (isNameChar(c)):
			s[2]++
		}
		if c := sel[i]; c == '#' || c == '.' || c == ':' || isNameChar(c) || c == ']' {
			for i+1 < len(sel) && isNameChar(sel[i+1]) {
				i++
			}
		}
		start = false
	}
	return s
}

func isNameChar(c byte) bool {
	return c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
