package category

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/renga/guid"
)

func TestID_Sanitized(t *testing.T) {
	assert.Equal(t, "D547F002-4A74-41BF-B1F0-ED8F5846098F", ElectricDistributionBoard.ID().String())
	assert.Equal(t, "4CD3BC4C-14DA-43CA-BBC5-D7679566B8DD", Equipment.ID().String())
	assert.Equal(t, guid.Nil, Unknown.ID())
}

func TestParse(t *testing.T) {
	cases := map[string]Category{
		"equipment":                   Equipment,
		"Equipment":                   Equipment,
		"  EQUIPMENT ":                Equipment,
		"pipe_fitting_category":       PipeFitting,
		"ElectricDistributionBoard":   ElectricDistributionBoard,
		"electric_distribution_board": ElectricDistributionBoard,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("roof")
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestAllAndLookup(t *testing.T) {
	all := All()
	require.Len(t, all, 10)
	assert.Equal(t, DuctAccessory, all[0])
	assert.Equal(t, WiringAccessory, all[len(all)-1])

	seen := map[guid.GUID]bool{}
	for _, c := range all {
		assert.True(t, c.Valid())
		assert.False(t, seen[c.ID()], "duplicate id for %s", c)
		seen[c.ID()] = true

		back, ok := ByID(c.ID())
		assert.True(t, ok)
		assert.Equal(t, c, back)

		parsed, err := Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, ok := ByID(guid.New())
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Category(99).String())
}

func TestTextMarshaling(t *testing.T) {
	type doc struct {
		Category Category `yaml:"category"`
	}

	out, err := yaml.Marshal(doc{Category: LightingFixture})
	require.NoError(t, err)
	assert.Equal(t, "category: lighting_fixture\n", string(out))

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte("category: PlumbingFixture\n"), &d))
	assert.Equal(t, PlumbingFixture, d.Category)

	_, err = Unknown.MarshalText()
	assert.Error(t, err)
}
