package native

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

// Kind is the tag of a Value.
type Kind uint8

// Value kinds.
const (
	KindEmpty Kind = iota
	KindBool
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindObject
	KindRecord
)

var kindNames = [...]string{
	KindEmpty:   "empty",
	KindBool:    "bool",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindObject:  "object",
	KindRecord:  "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) signed() bool   { return k == KindInt16 || k == KindInt32 || k == KindInt64 }
func (k Kind) unsigned() bool { return k == KindUint16 || k == KindUint32 || k == KindUint64 }
func (k Kind) float() bool    { return k == KindFloat32 || k == KindFloat64 }

// Record is a fixed-layout blob owned by the foreign call that produced it.
type Record struct {
	data     unsafe.Pointer
	typeInfo unsafe.Pointer
	release  func()
}

// Value is the tagged union every argument and result is marshalled through.
//
// The zero Value is empty. Values are small and copied by value; an object
// Value holds one foreign reference which Clear drops.
type Value struct {
	kind Kind
	bits uint64
	str  string
	obj  Object
	rec  *Record
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int16 wraps a signed 16-bit integer.
func Int16(i int16) Value { return Value{kind: KindInt16, bits: uint64(int64(i))} }

// Uint16 wraps an unsigned 16-bit integer.
func Uint16(u uint16) Value { return Value{kind: KindUint16, bits: uint64(u)} }

// Int32 wraps a signed 32-bit integer.
func Int32(i int32) Value { return Value{kind: KindInt32, bits: uint64(int64(i))} }

// Uint32 wraps an unsigned 32-bit integer.
func Uint32(u uint32) Value { return Value{kind: KindUint32, bits: uint64(u)} }

// Int64 wraps a signed 64-bit integer.
func Int64(i int64) Value { return Value{kind: KindInt64, bits: uint64(i)} }

// Uint64 wraps an unsigned 64-bit integer.
func Uint64(u uint64) Value { return Value{kind: KindUint64, bits: u} }

// Float32 wraps a 32-bit float.
func Float32(f float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(f))} }

// Float64 wraps a 64-bit float.
func Float64(f float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(f)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// ObjectValue wraps a foreign reference. The Value takes over the reference;
// a nil obj produces a null object reference.
func ObjectValue(obj Object) Value { return Value{kind: KindObject, obj: obj} }

// DispatchValue wraps the object behind d for use as an argument. The
// reference stays owned by d.
func DispatchValue(d *Dispatch) Value {
	if d == nil {
		return ObjectValue(nil)
	}
	return ObjectValue(d.obj)
}

// RecordValue wraps a record produced by a foreign call. release, if set,
// frees the record memory once the producing scope ends.
func RecordValue(data, typeInfo unsafe.Pointer, release func()) Value {
	return Value{kind: KindRecord, rec: &Record{data: data, typeInfo: typeInfo, release: release}}
}

// ValueOf converts a Go value into a Value. Supported inputs are nil, bool,
// the sized integer and float types, int, uint, string and *Dispatch.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Empty(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int8:
		return Int16(int16(t)), nil
	case uint8:
		return Uint16(uint16(t)), nil
	case int16:
		return Int16(t), nil
	case uint16:
		return Uint16(t), nil
	case int32:
		return Int32(t), nil
	case uint32:
		return Uint32(t), nil
	case int64:
		return Int64(t), nil
	case uint64:
		return Uint64(t), nil
	case int:
		if t >= math.MinInt32 && t <= math.MaxInt32 {
			return Int32(int32(t)), nil
		}
		return Int64(int64(t)), nil
	case uint:
		if uint64(t) <= math.MaxUint32 {
			return Uint32(uint32(t)), nil
		}
		return Uint64(uint64(t)), nil
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case string:
		return String(t), nil
	case *Dispatch:
		return DispatchValue(t), nil
	default:
		return Value{}, &ConversionError{From: KindEmpty, To: "value", Reason: fmt.Sprintf("unsupported Go type %T", x)}
	}
}

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v carries no payload.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsNullObject reports whether v is an object reference to nothing.
func (v Value) IsNullObject() bool { return v.kind == KindObject && v.obj == nil }

// Object returns the raw foreign reference of an object value, or nil.
// Backends use it when marshalling arguments; it does not add a reference.
func (v Value) Object() Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

func (v Value) mismatch(to string) error {
	return &ConversionError{From: v.kind, To: to}
}

func (v Value) overflow(to string) error {
	return &ConversionError{From: v.kind, To: to, Reason: "value out of range"}
}

// AsBool extracts a boolean. Only bool values convert.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch("bool")
	}
	return v.bits != 0, nil
}

// integer returns the payload of an integer kind widened to 64 bits. neg is
// set for negative signed values, in which case mag holds the signed value.
func (v Value) integer(to string) (mag uint64, signedVal int64, neg bool, err error) {
	switch {
	case v.kind.signed():
		s := int64(v.bits)
		return uint64(s), s, s < 0, nil
	case v.kind.unsigned():
		return v.bits, 0, false, nil
	default:
		return 0, 0, false, v.mismatch(to)
	}
}

func (v Value) asSigned(to string, lo, hi int64) (int64, error) {
	mag, s, neg, err := v.integer(to)
	if err != nil {
		return 0, err
	}
	if neg {
		if s < lo {
			return 0, v.overflow(to)
		}
		return s, nil
	}
	if mag > uint64(hi) {
		return 0, v.overflow(to)
	}
	return int64(mag), nil
}

func (v Value) asUnsigned(to string, hi uint64) (uint64, error) {
	mag, _, neg, err := v.integer(to)
	if err != nil {
		return 0, err
	}
	if neg || mag > hi {
		return 0, v.overflow(to)
	}
	return mag, nil
}

// AsInt16 extracts an int16 from any integer kind that fits.
func (v Value) AsInt16() (int16, error) {
	i, err := v.asSigned("int16", math.MinInt16, math.MaxInt16)
	return int16(i), err
}

// AsUint16 extracts a uint16 from any integer kind that fits.
func (v Value) AsUint16() (uint16, error) {
	u, err := v.asUnsigned("uint16", math.MaxUint16)
	return uint16(u), err
}

// AsInt32 extracts an int32 from any integer kind that fits.
func (v Value) AsInt32() (int32, error) {
	i, err := v.asSigned("int32", math.MinInt32, math.MaxInt32)
	return int32(i), err
}

// AsUint32 extracts a uint32 from any integer kind that fits.
func (v Value) AsUint32() (uint32, error) {
	u, err := v.asUnsigned("uint32", math.MaxUint32)
	return uint32(u), err
}

// AsInt64 extracts an int64 from any integer kind that fits.
func (v Value) AsInt64() (int64, error) {
	return v.asSigned("int64", math.MinInt64, math.MaxInt64)
}

// AsUint64 extracts a uint64 from any non-negative integer.
func (v Value) AsUint64() (uint64, error) {
	return v.asUnsigned("uint64", math.MaxUint64)
}

// AsFloat64 extracts a float64 from either float kind.
func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case KindFloat32:
		return float64(math.Float32frombits(uint32(v.bits))), nil
	case KindFloat64:
		return math.Float64frombits(v.bits), nil
	default:
		return 0, v.mismatch("float64")
	}
}

// AsFloat32 extracts a float32. A float64 converts only when the narrowing
// is exact.
func (v Value) AsFloat32() (float32, error) {
	switch v.kind {
	case KindFloat32:
		return math.Float32frombits(uint32(v.bits)), nil
	case KindFloat64:
		f := math.Float64frombits(v.bits)
		n := float32(f)
		if float64(n) != f && !math.IsNaN(f) {
			return 0, v.overflow("float32")
		}
		return n, nil
	default:
		return 0, v.mismatch("float32")
	}
}

// AsString extracts a string. Only string values convert.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch("string")
	}
	return v.str, nil
}

// AsDispatch returns an independent handle to the referenced object. The
// value keeps its own reference.
func (v Value) AsDispatch() (*Dispatch, error) {
	if v.kind != KindObject {
		return nil, v.mismatch("object")
	}
	if v.obj == nil {
		return nil, &ConversionError{From: v.kind, To: "object", Reason: "null reference"}
	}
	v.obj.AddRef()
	return NewDispatch(v.obj), nil
}

// RecordTypeInfo returns the type descriptor of a live record, or nil.
func (v Value) RecordTypeInfo() unsafe.Pointer {
	if v.kind != KindRecord || v.rec == nil {
		return nil
	}
	return v.rec.typeInfo
}

// Clear drops the reference or record held by v. Calling Clear on a value
// that has already been cleared is a no-op.
func (v *Value) Clear() {
	switch v.kind {
	case KindObject:
		if v.obj != nil {
			v.obj.Release()
		}
	case KindRecord:
		v.expire()
	}
	*v = Value{}
}

// expire frees the record memory and detaches v from it. The tag is kept so
// later decode attempts report an expired record rather than a mismatch.
func (v *Value) expire() {
	if v.kind != KindRecord || v.rec == nil {
		return
	}
	if v.rec.release != nil {
		v.rec.release()
	}
	v.rec.data, v.rec.typeInfo, v.rec.release = nil, nil, nil
}

// String renders v for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindEmpty:
		return "<empty>"
	case KindBool:
		return strconv.FormatBool(v.bits != 0)
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(int64(v.bits), 10)
	case KindUint16, KindUint32, KindUint64:
		return strconv.FormatUint(v.bits, 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(v.bits))), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(math.Float64frombits(v.bits), 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindObject:
		if v.obj == nil {
			return "<null object>"
		}
		return "<object>"
	case KindRecord:
		if v.rec == nil || v.rec.data == nil {
			return "<expired record>"
		}
		return "<record>"
	default:
		return v.kind.String()
	}
}
