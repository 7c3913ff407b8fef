package page

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame/layout"
)

func TestFormatCounter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	cases := []struct {
		n      int
		format string
		out    string
	}{
		{4, "decimal", "4"},
		{4, "lower-roman", "iv"},
		{1994, "upper-roman", "MCMXCIV"},
		{0, "upper-roman", "0"},
		{4000, "lower-roman", "4000"},
		{1, "lower-alpha", "a"},
		{27, "lower-alpha", "aa"},
		{52, "upper-alpha", "AZ"},
		{-3, "lower-alpha", "-3"},
		{7, "klingon", "7"},
	}
	for _, c := range cases {
		assert.Equal(t, c.out, FormatCounter(c.n, c.format), "%d as %s", c.n, c.format)
	}
}

func TestTemplate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	tmpl, err := ParseTemplate(`"Chapter " counter(chapter, upper-roman) ": " string(title, last) ` +
		`' (' counter(page) ")"`)
	require.NoError(t, err)
	require.Len(t, tmpl, 7)
	ps := layout.NewPageState()
	ps.BeginPage()
	ps.BeginPage()
	ps.Apply(css(t, "counter-reset: chapter 3"), nil)
	ps.Apply(css(t, `string-set: title "Methods"`), nil)
	ps.Apply(css(t, `string-set: title "Results"`), nil)
	assert.Equal(t, "Chapter III: Results (2)", tmpl.Resolve(ps))
	//
	tmpl, err = ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, "", tmpl.Resolve(ps))
}

func TestTemplateErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.page")
	defer teardown()
	//
	for _, content := range []string{
		`counter()`,
		`counter(page, decimal, extra)`,
		`attr(title)`,
		`counter(page`,
		`"a" 12px`,
		`string(chapter; first)`,
	} {
		_, err := ParseTemplate(content)
		if assert.Error(t, err, content) {
			assert.Equal(t, core.EINVALID, core.Code(err), content)
		}
	}
}
