package native

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHResult(t *testing.T) {
	assert.False(t, StatusOK.Failed())
	assert.False(t, StatusFalse.Failed())
	assert.True(t, StatusFail.Failed())
	assert.True(t, StatusChangedMode.Failed())

	assert.Equal(t, "unknown name (0x80020006)", StatusUnknownName.Error())
	assert.Equal(t, "status 0x80001234", HResult(-0x7fffedcc).Error())
}

func TestException(t *testing.T) {
	ex := &Exception{Code: StatusFail, Source: "Renga", Description: "operation is not started"}
	assert.Equal(t, "Renga: operation is not started (0x80004005)", ex.Error())
	assert.ErrorIs(t, ex, StatusFail)

	assert.Equal(t, "E_FAIL (0x80004005)", (&Exception{Code: StatusFail}).Error())
}

func TestNewCallError(t *testing.T) {
	ce := newCallError("Foo", CallMethod, StatusUnknownName)
	assert.Equal(t, StatusUnknownName, ce.Code)
	assert.ErrorIs(t, ce, ErrMemberNotFound)
	assert.Equal(t, `native: call "Foo" failed: unknown name (0x80020006)`, ce.Error())

	wrapped := newCallError("Bar", CallGet, fmt.Errorf("proxy: %w", &Exception{Code: StatusDisconnected}))
	assert.Equal(t, StatusDisconnected, wrapped.Code)
	assert.NotErrorIs(t, wrapped, ErrMemberNotFound)

	conv := newCallError("Baz", CallPut, &ConversionError{From: KindRecord, To: "VARIANT"})
	assert.Equal(t, StatusTypeMismatch, conv.Code)
	assert.ErrorIs(t, conv, ErrConversion)

	opaque := newCallError("Qux", CallGet, errors.New("boom"))
	assert.Equal(t, StatusFail, opaque.Code)
}

func TestRuntimeInitError(t *testing.T) {
	err := error(&RuntimeInitError{Code: StatusUnexpected})
	assert.Equal(t, "native: runtime initialization failed with error code 0x8000FFFF", err.Error())

	var hr HResult
	require.True(t, errors.As(err, &hr))
	assert.Equal(t, StatusUnexpected, hr)
}

func TestCallKind_String(t *testing.T) {
	assert.Equal(t, "call", CallMethod.String())
	assert.Equal(t, "get", CallGet.String())
	assert.Equal(t, "put", CallPut.String())
	assert.Equal(t, "unknown", CallKind(8).String())
}
