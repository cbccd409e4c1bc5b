package renga

import (
	"errors"
	"fmt"

	"github.com/hupe1980/renga/native"
)

var (
	// ErrInvalidOperation is returned when the application refuses a
	// request in the current session state.
	ErrInvalidOperation = errors.New("renga: invalid operation")

	// ErrAlreadyOpened is returned when a project cannot be created or
	// opened because another one is current.
	ErrAlreadyOpened = errors.New("renga: project already opened")

	// ErrNonexistentPath is returned before any foreign call when a path
	// the request depends on does not exist.
	ErrNonexistentPath = errors.New("renga: path does not exist")

	// ErrNoActiveTransaction is returned for edits outside a transaction
	// and for finishing a transaction twice.
	ErrNoActiveTransaction = errors.New("renga: no active transaction")

	// ErrInternal reports an application state that contradicts a call
	// that just succeeded.
	ErrInternal = errors.New("renga: internal error")

	// ErrNotFound is returned by collection lookups that match nothing.
	ErrNotFound = errors.New("renga: not found")
)

// Errors of the invocation layer, re-exported for errors.Is checks.
var (
	ErrNullHandle     = native.ErrNullHandle
	ErrMemberNotFound = native.ErrMemberNotFound
	ErrConversion     = native.ErrConversion
)

// Error types of the invocation layer, re-exported for errors.As checks.
type (
	RuntimeInitError = native.RuntimeInitError
	CallError        = native.CallError
	ConversionError  = native.ConversionError
)

// StatusError is a non-zero status code returned by an application method.
type StatusError struct {
	Op   string
	Code int32
	Kind error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s failed with status %d", e.Kind, e.Op, e.Code)
}

// Unwrap returns the error class.
func (e *StatusError) Unwrap() error { return e.Kind }

func checkStatus(op string, code int32, kind error) error {
	if code == 0 {
		return nil
	}
	return &StatusError{Op: op, Code: code, Kind: kind}
}

// PathError is returned when a filesystem precondition fails.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %s %q", e.Err, e.Op, e.Path)
}

// Unwrap returns the error class.
func (e *PathError) Unwrap() error { return e.Err }
