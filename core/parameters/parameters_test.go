package parameters

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/npillmayer/folio/core/dimen"
)

func TestRegisterGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	regs := NewLayoutRegisters()
	assert.Equal(t, 2, regs.N(P_ORPHANS))
	regs.Begingroup()
	regs.Push(P_ORPHANS, 4)
	assert.Equal(t, 4, regs.N(P_ORPHANS))
	regs.Begingroup()
	regs.Push(P_WIDOWS, 3)
	assert.Equal(t, 4, regs.N(P_ORPHANS))
	assert.Equal(t, 3, regs.N(P_WIDOWS))
	regs.Endgroup()
	assert.Equal(t, 2, regs.N(P_WIDOWS))
	regs.Endgroup()
	assert.Equal(t, 2, regs.N(P_ORPHANS))
}

func TestFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "folio.core")
	defer teardown()
	//
	conf := testconfig.Conf{
		"layout.orphans":          "3",
		"layout.language":         "de-CH",
		"layout.emergencystretch": "4pt",
	}
	regs, err := FromConfig(conf)
	require.NoError(t, err)
	assert.Equal(t, 3, regs.N(P_ORPHANS))
	assert.Equal(t, 2, regs.N(P_WIDOWS))
	assert.Equal(t, language.MustParse("de-CH"), regs.Lang(P_LANGUAGE))
	assert.Equal(t, 4*dimen.PT, regs.D(P_EMERGENCYSTRETCH))
	//
	conf = testconfig.Conf{"layout.language": "not a language tag!"}
	regs, err = FromConfig(conf)
	assert.Error(t, err)
	assert.Equal(t, language.AmericanEnglish, regs.Lang(P_LANGUAGE))
}
