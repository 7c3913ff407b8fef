package percent

import (
	"testing"

	"github.com/npillmayer/folio/core/dimen"
	"github.com/stretchr/testify/assert"
)

func TestPercentOf(t *testing.T) {
	p, err := FromString("25%")
	assert.NoError(t, err)
	assert.Equal(t, 25*dimen.BP, p.Of(100*dimen.BP))
	assert.Equal(t, "25%", p.String())
	//
	p = FromFloat(12.5)
	assert.Equal(t, dimen.Dimen(25*dimen.BP/2), p.Of(100*dimen.BP))
	assert.Equal(t, Hundred, FromInt(100))
	assert.Equal(t, dimen.Dimen(-10*dimen.BP), FromInt(-10).Of(100*dimen.BP))
}
