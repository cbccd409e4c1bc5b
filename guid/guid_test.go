package guid

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BracedAndBareAreEqual(t *testing.T) {
	braced, err := Parse("{D547F002-4A74-41BF-B1F0-ED8F5846098F}")
	require.NoError(t, err)

	bare, err := Parse("D547F002-4A74-41BF-B1F0-ED8F5846098F")
	require.NoError(t, err)

	assert.Equal(t, bare, braced)
	assert.Equal(t, "D547F002-4A74-41BF-B1F0-ED8F5846098F", braced.String())
	assert.Equal(t, "D547F002-4A74-41BF-B1F0-ED8F5846098F", bare.String())
}

func TestParse_LowerCaseIsCanonicalized(t *testing.T) {
	g, err := Parse("d547f002-4a74-41bf-b1f0-ed8f5846098f")
	require.NoError(t, err)
	assert.Equal(t, "D547F002-4A74-41BF-B1F0-ED8F5846098F", g.String())
	assert.Equal(t, "{D547F002-4A74-41BF-B1F0-ED8F5846098F}", g.Braced())
}

func TestParse_Rejects(t *testing.T) {
	cases := []string{
		"",
		"{}",
		"{D547F002-4A74-41BF-B1F0-ED8F5846098F",
		"D547F002-4A74-41BF-B1F0-ED8F5846098F}",
		"D547F0024A7441BFB1F0ED8F5846098F",
		"urn:uuid:d547f002-4a74-41bf-b1f0-ed8f5846098f",
		"Z547F002-4A74-41BF-B1F0-ED8F5846098F",
	}
	for _, c := range cases {
		_, err := Parse(c)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "input %q", c)
	}
}

func TestCompareAndSort(t *testing.T) {
	a := MustParse("00000000-0000-0000-0000-000000000001")
	b := MustParse("00000000-0000-0000-0000-000000000002")
	c := MustParse("10000000-0000-0000-0000-000000000000")

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(c, b))
	assert.Equal(t, 0, Compare(a, a))
	assert.True(t, a.Less(b))

	ids := []GUID{c, a, b}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	assert.Equal(t, []GUID{a, b, c}, ids)

	set := map[GUID]int{a: 1}
	set[MustParse("{00000000-0000-0000-0000-000000000001}")]++
	assert.Len(t, set, 1)
}

func TestTextRoundTrip(t *testing.T) {
	g := MustParse("4cd3bc4c-14da-43ca-bbc5-d7679566b8dd")
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `"4CD3BC4C-14DA-43CA-BBC5-D7679566B8DD"`, string(data))

	var back GUID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g, back)

	assert.Error(t, back.UnmarshalText([]byte("bogus")))
}

func TestNameBasedIsStable(t *testing.T) {
	ns := MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, NewNameBased(ns, "Renga.Application.1"), NewNameBased(ns, "Renga.Application.1"))
	assert.NotEqual(t, NewNameBased(ns, "a"), NewNameBased(ns, "b"))
	assert.True(t, Nil.IsZero())
	assert.False(t, New().IsZero())
}
