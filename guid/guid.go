// Package guid implements the 128-bit identifiers the Renga object model uses
// for entity types, unique ids and class ids.
//
// The object model hands identifiers out as text, sometimes wrapped in braces
// ("{D547F002-4A74-41BF-B1F0-ED8F5846098F}") and sometimes not. Parse accepts
// both; String always renders the canonical upper-case form without braces.
package guid

import (
	"bytes"
	"strings"

	"github.com/google/uuid"

	rerrors "github.com/hupe1980/renga/errors"
)

// GUID is a 128-bit identifier. The zero value is the nil identifier.
// GUID values are comparable and may be used as map keys.
type GUID uuid.UUID

// Nil is the all-zero identifier.
var Nil GUID

// ParseError is returned when a string is not a valid identifier.
type ParseError = rerrors.ParseError

// Parse parses the hyphenated textual form, optionally enclosed in braces.
func Parse(s string) (GUID, error) {
	text := strings.TrimSpace(s)

	hasOpen, hasClose := strings.HasPrefix(text, "{"), strings.HasSuffix(text, "}")
	if hasOpen != hasClose {
		return Nil, &ParseError{Type: "GUID", Value: s}
	}
	if hasOpen {
		text = text[1 : len(text)-1]
	}

	// uuid.Parse also accepts urn and compact forms; the object model never
	// produces those, so anything but the hyphenated layout is rejected.
	if len(text) != 36 {
		return Nil, &ParseError{Type: "GUID", Value: s}
	}

	u, err := uuid.Parse(text)
	if err != nil {
		return Nil, &ParseError{Type: "GUID", Value: s, Err: err}
	}
	return GUID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// package-level tables of well-known identifiers.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// New returns a random identifier.
func New() GUID { return GUID(uuid.New()) }

// NewNameBased derives a stable identifier for name within namespace.
func NewNameBased(namespace GUID, name string) GUID {
	return GUID(uuid.NewSHA1(uuid.UUID(namespace), []byte(name)))
}

// String returns the canonical sanitized form, e.g.
// "D547F002-4A74-41BF-B1F0-ED8F5846098F".
func (g GUID) String() string {
	return strings.ToUpper(uuid.UUID(g).String())
}

// Braced returns the canonical form enclosed in braces.
func (g GUID) Braced() string {
	return "{" + g.String() + "}"
}

// IsZero reports whether g is the nil identifier.
func (g GUID) IsZero() bool { return g == Nil }

// Compare orders identifiers by their byte representation.
func Compare(a, b GUID) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether g sorts before o.
func (g GUID) Less(o GUID) bool { return Compare(g, o) < 0 }

// MarshalText implements encoding.TextMarshaler.
func (g GUID) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *GUID) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
