package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, NOERROR, Code(nil))
	assert.Equal(t, EINTERNAL, Code(errSentinel))
	//
	err := WrapError(errSentinel, EORACLE, "measuring run %q", "abc")
	assert.Equal(t, EORACLE, Code(err))
	assert.True(t, errors.Is(err, errSentinel))
	assert.Equal(t, `measuring run "abc"`, UserMessage(err))
	//
	outer := fmt.Errorf("layout: %w", err)
	assert.Equal(t, EORACLE, Code(outer))
	//
	err = ErrorWithCode(nil, ELIMIT)
	assert.Equal(t, ELIMIT, Code(err))
	assert.Equal(t, "limit exceeded", UserMessage(err))
	//
	err = Error(EINVALID, "page size %d", 0)
	assert.Equal(t, EINVALID, Code(err))
	assert.Equal(t, "page size 0", UserMessage(err))
	//
	assert.Equal(t, "oracle failure", EORACLE.String())
	assert.Equal(t, "undefined error", ErrorCode(7).String())
}

func TestErrorChains(t *testing.T) {
	oracle := WrapError(errSentinel, EORACLE, "measuring")
	err := WrapError(oracle, EINVALID, "paragraph %d", 3)
	assert.Equal(t, EINVALID, Code(err), "the outermost code wins")
	assert.True(t, Is(err, EORACLE))
	assert.False(t, Is(err, ELIMIT))
	//
	var diag *multierror.Error
	diag = multierror.Append(diag, Error(EMISSING, "image a.png"), oracle)
	assert.True(t, Is(diag, EORACLE))
	assert.True(t, Is(diag, EMISSING))
	assert.False(t, Is(nil, EORACLE))
}
