package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := InvalidInput("bad sample size")
	err := Wrap(base, "describe failed")

	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "describe failed: bad sample size", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("disk full"), "write %s", "out.json")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeFindsNestedAppError(t *testing.T) {
	err := fmt.Errorf("service: %w", LoadFailed("data.csv", stderrors.New("eof")))
	assert.Equal(t, CodeLoadFailed, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeNotFound, stderrors.New("no such sheet"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "no such sheet: no such sheet", err.Error())

	recoded := WithCode(CodeExportFailed, ExportFailed("a.json", stderrors.New("denied")))
	assert.Equal(t, CodeExportFailed, GetCode(recoded))
}
