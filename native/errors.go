package native

import (
	"errors"
	"fmt"
)

var (
	// ErrNullHandle is returned by every operation on a null Dispatch. No
	// foreign call is attempted.
	ErrNullHandle = errors.New("native: null object handle")

	// ErrMemberNotFound matches call errors caused by an unresolvable
	// member name.
	ErrMemberNotFound = errors.New("native: member not found")

	// ErrConversion matches every *ConversionError.
	ErrConversion = errors.New("native: value conversion failed")

	// ErrUnsupportedPlatform is returned by the default backend on
	// platforms without an automation subsystem.
	ErrUnsupportedPlatform = errors.New("native: automation is not supported on this platform")
)

// RuntimeInitError is returned when the automation subsystem refuses to
// initialize.
type RuntimeInitError struct {
	Code HResult
}

// Error implements the error interface.
func (e *RuntimeInitError) Error() string {
	return fmt.Sprintf("native: runtime initialization failed with error code 0x%08X", uint32(e.Code))
}

// Unwrap exposes the status code.
func (e *RuntimeInitError) Unwrap() error { return e.Code }

// CallError wraps a failure of the foreign call layer.
type CallError struct {
	Member string
	Kind   CallKind
	Code   HResult
	Err    error
}

func newCallError(member string, kind CallKind, err error) *CallError {
	ce := &CallError{Member: member, Kind: kind, Code: StatusFail, Err: err}

	var hr HResult
	if errors.As(err, &hr) {
		ce.Code = hr
	}
	var conv *ConversionError
	if errors.As(err, &conv) {
		ce.Code = StatusTypeMismatch
	}
	return ce
}

// Error implements the error interface.
func (e *CallError) Error() string {
	return fmt.Sprintf("native: %s %q failed: %v", e.Kind, e.Member, e.Err)
}

// Unwrap returns the underlying failure.
func (e *CallError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMemberNotFound) match unknown-name failures.
func (e *CallError) Is(target error) bool {
	return target == ErrMemberNotFound && (e.Code == StatusUnknownName || e.Code == StatusMemberNotFound)
}

// ConversionError reports a tag mismatch or an out-of-range conversion.
type ConversionError struct {
	From   Kind
	To     string
	Reason string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("native: cannot convert %s value to %s", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is makes errors.Is(err, ErrConversion) match.
func (e *ConversionError) Is(target error) bool { return target == ErrConversion }
