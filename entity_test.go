package renga_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/renga"
	"github.com/hupe1980/renga/category"
	rerrors "github.com/hupe1980/renga/errors"
	"github.com/hupe1980/renga/guid"
	"github.com/hupe1980/renga/internal/testutil"
	"github.com/hupe1980/renga/native"
)

func entityObject(uniqueID string) *testutil.Object {
	return testutil.NewObject("Entity").
		Property("Id", native.Int32(17)).
		Property("Name", native.String("Pump")).
		Property("TypeIdS", native.String("{4CD3BC4C-14DA-43CA-BBC5-D7679566B8DD}")).
		Property("UniqueIdS", native.String(uniqueID))
}

func TestNewEntity_ReadsIdentityEagerly(t *testing.T) {
	obj := entityObject("{00000000-0000-0000-0000-0000000000AB}")

	e, err := renga.NewEntity(native.NewDispatch(obj))
	require.NoError(t, err)
	defer e.Release()

	assert.Equal(t, int32(17), e.ID)
	assert.Equal(t, "Pump", e.Name)
	assert.Equal(t, category.Equipment.ID(), e.TypeID)
	assert.Equal(t, guid.MustParse("00000000-0000-0000-0000-0000000000AB"), e.UniqueID)
	assert.Equal(t, "Pump (id 17, type 4CD3BC4C-14DA-43CA-BBC5-D7679566B8DD, uuid 00000000-0000-0000-0000-0000000000AB)", e.String())

	c, ok := e.Category()
	require.True(t, ok)
	assert.Equal(t, category.Equipment, c)

	require.NoError(t, e.Handle().Set("Name", native.String("Boiler")))
	assert.Equal(t, "Pump", e.Name)
	require.NoError(t, e.Refresh())
	assert.Equal(t, "Boiler", e.Name)
}

func TestNewEntity_NullHandle(t *testing.T) {
	_, err := renga.NewEntity(native.NewDispatch(nil))
	assert.ErrorIs(t, err, renga.ErrInternal)
}

func TestNewEntity_MalformedIdentifierReleasesHandle(t *testing.T) {
	obj := entityObject("not-a-guid")

	_, err := renga.NewEntity(native.NewDispatch(obj))
	var perr *rerrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "not-a-guid", perr.Value)
	assert.Zero(t, obj.Refs())
}

func TestNewEntity_WrongKind(t *testing.T) {
	obj := testutil.NewObject("Entity").Property("Id", native.String("17"))

	_, err := renga.NewEntity(native.NewDispatch(obj))
	assert.ErrorIs(t, err, renga.ErrConversion)
}
