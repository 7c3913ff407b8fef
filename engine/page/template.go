package page

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame/layout"
)

// part is one item of a content template: a literal, a counter or a named
// string.
type part struct {
	literal string
	counter string // counter name, for counter(…)
	format  string // counter style
	named   string // string name, for string(…)
	policy  layout.StringPolicy
}

// Template is a parsed value of property `content` for margin boxes.
type Template []part

// ParseTemplate parses a content template: a sequence of quoted strings,
// counter(name[, style]) and string(name[, first|start|last|first-except]).
func ParseTemplate(content string) (Template, error) {
	var t Template
	s := scanner.New(content)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return t, nil
		case scanner.TokenError:
			return nil, core.Error(core.EINVALID, "content template: %s", tok.Value)
		case scanner.TokenS, scanner.TokenComment:
		case scanner.TokenString:
			t = append(t, part{literal: unquote(tok.Value)})
		case scanner.TokenFunction:
			args, err := arguments(s)
			if err != nil {
				return nil, err
			}
			p, err := function(strings.TrimSuffix(tok.Value, "("), args)
			if err != nil {
				return nil, err
			}
			t = append(t, p)
		default:
			return nil, core.Error(core.EINVALID, "content template: unexpected %q", tok.Value)
		}
	}
}

// arguments collects the comma separated identifiers of a function call up
// to the closing parenthesis.
func arguments(s *scanner.Scanner) ([]string, error) {
	var args []string
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenIdent:
			args = append(args, tok.Value)
		case scanner.TokenS:
		case scanner.TokenChar:
			switch tok.Value {
			case ")":
				return args, nil
			case ",":
				continue
			}
			return nil, core.Error(core.EINVALID, "content template: unexpected %q", tok.Value)
		default:
			return nil, core.Error(core.EINVALID, "content template: unterminated function")
		}
	}
}

func function(name string, args []string) (part, error) {
	if len(args) == 0 || len(args) > 2 {
		return part{}, core.Error(core.EINVALID, "content template: %s() takes 1 or 2 arguments", name)
	}
	switch name {
	case "counter":
		p := part{counter: args[0], format: "decimal"}
		if len(args) == 2 {
			p.format = args[1]
		}
		return p, nil
	case "string":
		p := part{named: args[0]}
		if len(args) == 2 {
			p.policy = layout.ParseStringPolicy(args[1])
		}
		return p, nil
	}
	return part{}, core.Error(core.EINVALID, "content template: unknown function %s()", name)
}

// Resolve produces the text of a template for a page state.
func (t Template) Resolve(ps *layout.PageState) string {
	var b strings.Builder
	for _, p := range t {
		switch {
		case p.counter != "":
			b.WriteString(FormatCounter(ps.Counter(p.counter), p.format))
		case p.named != "":
			b.WriteString(ps.NamedString(p.named, p.policy))
		default:
			b.WriteString(p.literal)
		}
	}
	return b.String()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

// FormatCounter formats a counter value in a list style: decimal,
// lower-roman, upper-roman, lower-alpha or upper-alpha. Unknown styles and
// values out of range of a style are formatted as decimal numbers.
func FormatCounter(n int, format string) string {
	switch format {
	case "lower-roman":
		if r, ok := roman(n); ok {
			return strings.ToLower(r)
		}
	case "upper-roman":
		if r, ok := roman(n); ok {
			return r
		}
	case "lower-alpha", "lower-latin":
		if a, ok := alpha(n); ok {
			return a
		}
	case "upper-alpha", "upper-latin":
		if a, ok := alpha(n); ok {
			return strings.ToUpper(a)
		}
	}
	return strconv.Itoa(n)
}

var romanDigits = []struct {
	v int
	s string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"}, {100, "C"}, {90, "XC"},
	{50, "L"}, {40, "XL"}, {10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) (string, bool) {
	if n <= 0 || n >= 4000 {
		return "", false
	}
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.v {
			b.WriteString(d.s)
			n -= d.v
		}
	}
	return b.String(), true
}

// alpha formats n in bijective base 26: a … z, aa, ab …
func alpha(n int) (string, bool) {
	if n <= 0 {
		return "", false
	}
	var r []byte
	for n > 0 {
		n--
		r = append([]byte{byte('a' + n%26)}, r...)
		n /= 26
	}
	return string(r), true
}
