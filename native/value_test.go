package native

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsEmpty(t *testing.T) {
	var v Value
	assert.True(t, v.IsEmpty())
	assert.Equal(t, KindEmpty, v.Kind())
	assert.Equal(t, "<empty>", v.String())
}

func TestValue_RoundTripPerKind(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	i16, err := Int16(-12).AsInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-12), i16)

	u16, err := Uint16(65535).AsUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)

	i32, err := Int32(math.MinInt32).AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(math.MinInt32), i32)

	u32, err := Uint32(math.MaxUint32).AsUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), u32)

	i64, err := Int64(math.MinInt64).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i64)

	u64, err := Uint64(math.MaxUint64).AsUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u64)

	f32, err := Float32(1.5).AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), f32)

	f64, err := Float64(-2.25).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, -2.25, f64)

	s, err := String("Renga").AsString()
	require.NoError(t, err)
	assert.Equal(t, "Renga", s)
}

func TestValue_IntegerConversionsWithinRange(t *testing.T) {
	i32, err := Int16(-7).AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	u16, err := Int64(42).AsUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(42), u16)

	i64, err := Uint32(math.MaxUint32).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxUint32), i64)
}

func TestValue_IntegerOverflowFails(t *testing.T) {
	_, err := Int32(70000).AsInt16()
	require.ErrorIs(t, err, ErrConversion)

	_, err = Int16(-1).AsUint32()
	require.ErrorIs(t, err, ErrConversion)

	_, err = Uint64(math.MaxUint64).AsInt64()
	require.ErrorIs(t, err, ErrConversion)

	var conv *ConversionError
	require.True(t, errors.As(err, &conv))
	assert.Equal(t, KindUint64, conv.From)
	assert.Equal(t, "int64", conv.To)
	assert.Equal(t, "value out of range", conv.Reason)
}

func TestValue_FloatConversions(t *testing.T) {
	f64, err := Float32(0.5).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, 0.5, f64)

	f32, err := Float64(0.25).AsFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), f32)

	_, err = Float64(0.1).AsFloat32()
	assert.ErrorIs(t, err, ErrConversion)
}

func TestValue_CrossFamilyMismatchFails(t *testing.T) {
	cases := []struct {
		name string
		fn   func() error
	}{
		{"int as bool", func() error { _, err := Int32(1).AsBool(); return err }},
		{"bool as int", func() error { _, err := Bool(true).AsInt32(); return err }},
		{"float as int", func() error { _, err := Float64(1).AsInt64(); return err }},
		{"int as float", func() error { _, err := Int32(1).AsFloat64(); return err }},
		{"string as int", func() error { _, err := String("1").AsInt32(); return err }},
		{"int as string", func() error { _, err := Int32(1).AsString(); return err }},
		{"empty as string", func() error { _, err := Empty().AsString(); return err }},
		{"string as object", func() error { _, err := String("x").AsDispatch(); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.fn(), ErrConversion)
		})
	}
}

func TestValueOf(t *testing.T) {
	cases := []struct {
		in   any
		kind Kind
	}{
		{nil, KindEmpty},
		{true, KindBool},
		{int8(-1), KindInt16},
		{uint8(1), KindUint16},
		{int16(1), KindInt16},
		{uint16(1), KindUint16},
		{int32(1), KindInt32},
		{uint32(1), KindUint32},
		{int64(1), KindInt64},
		{uint64(1), KindUint64},
		{7, KindInt32},
		{math.MaxInt32 + 1, KindInt64},
		{uint(7), KindUint32},
		{float32(1), KindFloat32},
		{1.0, KindFloat64},
		{"s", KindString},
		{Int16(3), KindInt16},
	}
	for _, tc := range cases {
		v, err := ValueOf(tc.in)
		require.NoError(t, err, "input %#v", tc.in)
		assert.Equal(t, tc.kind, v.Kind(), "input %#v", tc.in)
	}

	_, err := ValueOf(struct{}{})
	assert.ErrorIs(t, err, ErrConversion)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "-3", Int32(-3).String())
	assert.Equal(t, "3", Uint64(3).String())
	assert.Equal(t, "1.5", Float64(1.5).String())
	assert.Equal(t, `"a"`, String("a").String())
	assert.Equal(t, "<null object>", ObjectValue(nil).String())
	assert.Equal(t, "int32", KindInt32.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}

func TestValue_NullObject(t *testing.T) {
	v := ObjectValue(nil)
	assert.True(t, v.IsNullObject())
	assert.Nil(t, v.Object())

	_, err := v.AsDispatch()
	var conv *ConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "null reference", conv.Reason)
}

func TestRecord_DecodeAndExpire(t *testing.T) {
	v := NewRecordFrom(VersionRecord{Major: 8, Minor: 1, Build: 3})
	assert.Equal(t, KindRecord, v.Kind())
	assert.Equal(t, "<record>", v.String())

	rec, err := DecodeVersionRecord(v)
	require.NoError(t, err)
	assert.Equal(t, VersionRecord{Major: 8, Minor: 1, Build: 3}, rec)

	released := 0
	v = RecordValue(v.rec.data, nil, func() { released++ })
	v.expire()
	assert.Equal(t, 1, released)
	assert.Equal(t, KindRecord, v.Kind())
	assert.Equal(t, "<expired record>", v.String())

	_, err = DecodeVersionRecord(v)
	var conv *ConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "record is no longer valid", conv.Reason)

	v.Clear()
	assert.Equal(t, 1, released)
	assert.True(t, v.IsEmpty())
}

func TestRecord_DecodeNonRecordFails(t *testing.T) {
	_, err := DecodeVersionRecord(Int32(8))
	assert.ErrorIs(t, err, ErrConversion)
}
