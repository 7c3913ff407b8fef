/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"fmt"

	"github.com/npillmayer/schuko"
	"golang.org/x/text/language"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/npillmayer/folio/core/percent"
)

// LayoutParameter is a key for a layout register.
type LayoutParameter int

const (
	none LayoutParameter = iota
	P_LANGUAGE
	P_ORPHANS
	P_WIDOWS
	P_LINEHEIGHT
	P_HYPHENCHAR
	P_MINHYPHENLENGTH
	P_FOOTNOTERETRIES
	P_MAXPAGES
	P_BALANCEITERATIONS
	P_PREMEASUREWORKERS
	P_EMERGENCYSTRETCH
	P_STOPPER
)

var parameterNames = [P_STOPPER]string{
	"none", "language", "orphans", "widows", "lineheight", "hyphen.char",
	"hyphen.minlength", "footnote.retries", "maxpages", "columns.balance",
	"premeasure.workers", "emergencystretch",
}

func (p LayoutParameter) String() string {
	if p <= none || p >= P_STOPPER {
		return fmt.Sprintf("LayoutParameter(%d)", int(p))
	}
	return parameterNames[p]
}

// ConfigKey returns the configuration key for a parameter, e.g. `layout.orphans`.
func (p LayoutParameter) ConfigKey() string {
	return "layout." + p.String()
}

type ParameterGroup struct {
	params map[LayoutParameter]interface{}
	level  int
	next   *ParameterGroup
}

// LayoutRegisters hold engine-wide defaults for layout. Registers may be
// overridden inside groups, similar to TeX's grouping: values pushed inside
// a group are forgotten when the group ends.
type LayoutRegisters struct {
	base       [P_STOPPER]interface{}
	groups     *ParameterGroup
	grouplevel int
}

// ----------------------------------------------------------------------

// NewLayoutRegisters creates a set of registers with default values.
func NewLayoutRegisters() *LayoutRegisters {
	regs := &LayoutRegisters{}
	initParameters(&regs.base)
	return regs
}

func initParameters(p *[P_STOPPER]interface{}) {
	p[P_LANGUAGE] = language.AmericanEnglish   // a language.Tag
	p[P_ORPHANS] = 2                            // minimum lines before a break
	p[P_WIDOWS] = 2                             // minimum lines after a break
	p[P_LINEHEIGHT] = percent.FromInt(120)      // 'normal' line height, relative to font size
	p[P_HYPHENCHAR] = int('-')                  // a rune
	p[P_MINHYPHENLENGTH] = 5                    // in runes
	p[P_FOOTNOTERETRIES] = 1                    // shrink-and-retry attempts per page
	p[P_MAXPAGES] = 10000                       // hard page limit
	p[P_BALANCEITERATIONS] = 12                 // column balancing steps
	p[P_PREMEASUREWORKERS] = 4                  // fork-join width for pre-measuring
	p[P_EMERGENCYSTRETCH] = dimen.Dimen(0)      // slack accepted before emergency breaks
}

// FromConfig creates layout registers and overrides defaults with values
// found in a configuration. Keys are of the form `layout.<parameter>`, e.g.
//
//     layout.orphans = 3
//     layout.language = de-CH
//
// Invalid values are reported as an error, but do not keep the remaining keys
// from being read.
func FromConfig(conf schuko.Configuration) (*LayoutRegisters, error) {
	regs := NewLayoutRegisters()
	if conf == nil {
		return regs, nil
	}
	var firstErr error
	for p := P_LANGUAGE; p < P_STOPPER; p++ {
		key := p.ConfigKey()
		if !conf.IsSet(key) {
			continue
		}
		switch regs.base[p].(type) {
		case int:
			regs.base[p] = conf.GetInt(key)
		case language.Tag:
			tag, err := language.Parse(conf.GetString(key))
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("config key %s: %w", key, err)
				}
				continue
			}
			regs.base[p] = tag
		case percent.Percent:
			pc, err := percent.FromString(conf.GetString(key))
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("config key %s: %w", key, err)
				}
				continue
			}
			regs.base[p] = pc
		case dimen.Dimen:
			d, _, err := dimen.ParseDimen(conf.GetString(key))
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("config key %s: %w", key, err)
				}
				continue
			}
			regs.base[p] = d
		}
		tracer().Debugf("layout register %s set from configuration", p)
	}
	return regs, firstErr
}

func (regs *LayoutRegisters) Begingroup() {
	regs.grouplevel++
}

func (regs *LayoutRegisters) Endgroup() {
	if regs.grouplevel > 0 {
		if regs.groups != nil && regs.groups.level == regs.grouplevel {
			regs.groups = regs.groups.next
		}
		regs.grouplevel--
	}
}

func (regs *LayoutRegisters) Push(key LayoutParameter, value interface{}) {
	if regs.grouplevel > 0 {
		var g *ParameterGroup
		if regs.groups == nil || regs.groups.level < regs.grouplevel {
			g = &ParameterGroup{}
			g.params = make(map[LayoutParameter]interface{})
			g.level = regs.grouplevel
			g.next = regs.groups
			regs.groups = g
		} else {
			g = regs.groups
		}
		g.params[key] = value
	} else {
		regs.base[key] = value
	}
}

func (regs *LayoutRegisters) Get(key LayoutParameter) interface{} {
	if key <= 0 || key >= P_STOPPER {
		panic("parameter key outside range of layout parameters")
	}
	var value interface{}
	if regs.grouplevel > 0 {
		for g := regs.groups; g != nil; g = g.next {
			value = g.params[key]
			if value != nil {
				break
			}
		}
	}
	if value == nil {
		value = regs.base[key]
	}
	return value
}

func (regs *LayoutRegisters) N(key LayoutParameter) int {
	return regs.Get(key).(int)
}

func (regs *LayoutRegisters) D(key LayoutParameter) dimen.Dimen {
	return regs.Get(key).(dimen.Dimen)
}

func (regs *LayoutRegisters) P(key LayoutParameter) percent.Percent {
	return regs.Get(key).(percent.Percent)
}

func (regs *LayoutRegisters) Lang(key LayoutParameter) language.Tag {
	return regs.Get(key).(language.Tag)
}
