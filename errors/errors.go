// Package errors provides the typed error values shared by the parsers in
// this module (identifiers, categories, versions, configuration).
//
// The types are plain value carriers with stable message formats so callers
// can recognize them with errors.As and surface them directly in diagnostics.
// Packages that expose their own parse helpers typically re-export them with a
// type alias:
//
//	type ParseError = errors.ParseError
package errors

import "fmt"

// ParseError is returned when textual input cannot be interpreted as the
// requested type.
type ParseError struct {
	// Type is the logical name of the target type (for example "GUID").
	Type string
	// Value is the exact input that was rejected.
	Value string
	// Err optionally carries the underlying parser failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("renga: invalid %s value %q: %v", e.Type, e.Value, e.Err)
	}
	return fmt.Sprintf("renga: invalid %s value %q", e.Type, e.Value)
}

// Unwrap returns the underlying parser failure, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is returned when a structured value fails its constraints.
type ValidationError struct {
	// Type is the logical name of the validated type.
	Type string
	// Field names the offending field; empty when the whole value is invalid.
	Field string
	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "renga: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "renga: invalid " + e.Type + ": " + e.Reason
}
