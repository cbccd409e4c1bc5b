package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	err := &ParseError{Type: "GUID", Value: "nope"}
	assert.Equal(t, `renga: invalid GUID value "nope"`, err.Error())

	cause := stderrors.New("bad length")
	wrapped := &ParseError{Type: "GUID", Value: "x", Err: cause}
	assert.Contains(t, wrapped.Error(), "bad length")
	assert.ErrorIs(t, wrapped, cause)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "renga: invalid Config.ClassName: required",
		(&ValidationError{Type: "Config", Field: "ClassName", Reason: "required"}).Error())
	assert.Equal(t, "renga: invalid Config: empty",
		(&ValidationError{Type: "Config", Reason: "empty"}).Error())
}
