package layout

import "github.com/npillmayer/folio/core/dimen"

// collapse is a set of adjoining vertical margins.
//
// “When two or more margins collapse, the resulting margin width is the
// maximum of the collapsing margins' widths. In the case of negative
// margins, the maximum of the absolute values of the negative adjoining
// margins is deducted from the maximum of the positive adjoining margins.”
//
// Margins are collected while walking down and along the flow and are
// resolved lazily, as soon as content separates them.
type collapse struct {
	pos dimen.Dimen // largest positive margin
	neg dimen.Dimen // most negative margin, ≤ 0
}

// marginOf starts a collapse set with a single margin.
func marginOf(m dimen.Dimen) collapse {
	return collapse{}.adjoin(m)
}

func (c collapse) adjoin(m dimen.Dimen) collapse {
	if m > 0 {
		c.pos = dimen.Max(c.pos, m)
	} else {
		c.neg = dimen.Min(c.neg, m)
	}
	return c
}

func (c collapse) join(o collapse) collapse {
	return collapse{pos: dimen.Max(c.pos, o.pos), neg: dimen.Min(c.neg, o.neg)}
}

// solve returns the resulting margin.
func (c collapse) solve() dimen.Dimen {
	return c.pos + c.neg
}

func (c collapse) isZero() bool {
	return c.pos == 0 && c.neg == 0
}
