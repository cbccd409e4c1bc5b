// Package version models the Renga application version.
//
// The object model reports its version as a fixed-layout record of three
// integers (major, minor, build). Version maps that record onto semantic
// versioning so callers can compare releases with the usual precedence rules;
// the build number becomes the patch component.
package version

import (
	"fmt"
	"strings"

	bsemver "github.com/blang/semver/v4"

	rerrors "github.com/hupe1980/renga/errors"
)

// Version is a semantic version Major.Minor.Patch.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Target is the application release this module is developed against.
var Target = Version{Major: 8, Minor: 1, Patch: 0}

// ParseError is returned when a version string is malformed.
type ParseError = rerrors.ParseError

// New builds a Version from its components.
func New(major, minor, patch uint64) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// FromComponents builds a Version from the signed integers of the native
// version record. Negative components are rejected.
func FromComponents(major, minor, build int32) (Version, error) {
	if major < 0 || minor < 0 || build < 0 {
		return Version{}, &rerrors.ValidationError{
			Type:   "Version",
			Reason: fmt.Sprintf("negative component in %d.%d.%d", major, minor, build),
		}
	}
	return New(uint64(major), uint64(minor), uint64(build)), nil
}

// Parse parses "Major.Minor.Patch", tolerating a leading "v". Pre-release and
// build metadata are accepted by the grammar but dropped, since the object
// model never reports them.
func Parse(s string) (Version, error) {
	bv, err := bsemver.Parse(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return Version{}, &ParseError{Type: "Version", Value: s, Err: err}
	}
	return Version{Major: bv.Major, Minor: bv.Minor, Patch: bv.Patch}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns "Major.Minor.Patch".
func (v Version) String() string {
	return v.semver().String()
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after o.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool { return v.Compare(o) >= 0 }

// IsZero reports whether v is 0.0.0.
func (v Version) IsZero() bool { return v == Version{} }

func (v Version) semver() bsemver.Version {
	return bsemver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
