// Package category holds the catalogue of importable Renga entity categories
// and their fixed type identifiers.
//
// The session layer never validates identifiers against this table; it passes
// whatever identifier string the caller supplies through to the import call.
// Category exists so callers do not have to spell the identifiers by hand.
package category

import (
	"sort"
	"strings"

	rerrors "github.com/hupe1980/renga/errors"
	"github.com/hupe1980/renga/guid"
)

// Category enumerates the category kinds the object model can import.
type Category int

const (
	// Unknown is the zero value and never names a real category.
	Unknown Category = iota
	DuctAccessory
	DuctFitting
	ElectricDistributionBoard
	Equipment
	LightingFixture
	MechanicalEquipment
	PipeAccessory
	PipeFitting
	PlumbingFixture
	WiringAccessory
)

// ParseError is returned by Parse for unrecognized names.
type ParseError = rerrors.ParseError

type entry struct {
	name string // snake_case key accepted by Parse
	id   guid.GUID
}

var table = map[Category]entry{
	DuctAccessory:             {"duct_accessory", guid.MustParse("46c07d12-8f76-4537-a473-08d52395baba")},
	DuctFitting:               {"duct_fitting", guid.MustParse("68eff079-2b52-4e05-a51b-6875d1cdb9fc")},
	ElectricDistributionBoard: {"electric_distribution_board", guid.MustParse("d547f002-4a74-41bf-b1f0-ed8f5846098f")},
	Equipment:                 {"equipment", guid.MustParse("4cd3bc4c-14da-43ca-bbc5-d7679566b8dd")},
	LightingFixture:           {"lighting_fixture", guid.MustParse("c59fd4c5-4050-47a0-b11a-f52c4799470c")},
	MechanicalEquipment:       {"mechanical_equipment", guid.MustParse("d7e202ce-791c-4123-adbe-5f6357bf85e6")},
	PipeAccessory:             {"pipe_accessory", guid.MustParse("17c36f59-54dc-4440-8b78-034b0adb8716")},
	PipeFitting:               {"pipe_fitting", guid.MustParse("8b5cf8f2-a391-4701-8cb9-d6a6ba5ee46f")},
	PlumbingFixture:           {"plumbing_fixture", guid.MustParse("10bc8911-5931-471a-9c0e-74ad36a7ee8a")},
	WiringAccessory:           {"wiring_accessory", guid.MustParse("2c07d135-8343-418d-a1c2-ea074d98db31")},
}

// All returns every known category in declaration order.
func All() []Category {
	out := make([]Category, 0, len(table))
	for c := range table {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Valid reports whether c names a known category.
func (c Category) Valid() bool {
	_, ok := table[c]
	return ok
}

// ID returns the fixed type identifier, or guid.Nil for invalid values.
func (c Category) ID() guid.GUID {
	return table[c].id
}

// Key returns the snake_case name accepted by Parse.
func (c Category) Key() string {
	if e, ok := table[c]; ok {
		return e.name
	}
	return "unknown"
}

// String returns the CamelCase name, e.g. "ElectricDistributionBoard".
func (c Category) String() string {
	e, ok := table[c]
	if !ok {
		return "Unknown"
	}
	parts := strings.Split(e.name, "_")
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// Parse resolves a category name. It accepts the snake_case key with an
// optional "_category" suffix ("pipe_fitting", "pipe_fitting_category") as
// well as the CamelCase name ("PipeFitting"), case-insensitively.
func Parse(s string) (Category, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_category")
	compact := strings.ReplaceAll(key, "_", "")
	for c, e := range table {
		if e.name == key || strings.ReplaceAll(e.name, "_", "") == compact {
			return c, nil
		}
	}
	return Unknown, &ParseError{Type: "Category", Value: s}
}

// ByID returns the category whose identifier is id.
func ByID(id guid.GUID) (Category, bool) {
	for c, e := range table {
		if e.id == id {
			return c, true
		}
	}
	return Unknown, false
}

// MarshalText implements encoding.TextMarshaler using the snake_case key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, &rerrors.ValidationError{Type: "Category", Reason: "unknown value"}
	}
	return []byte(c.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
