package native

import (
	"fmt"
	"unsafe"
)

// VersionRecord is the fixed layout of the application version record.
type VersionRecord struct {
	Major int32
	Minor int32
	Build int32
}

// UnsafeDecodeRecord copies the record held by v into a T.
//
// The record carries no schema. The caller asserts that the foreign memory
// has exactly the layout of T; a wrong T reads arbitrary memory. Callers that
// can check the type descriptor (RecordTypeInfo) should do so first.
//
// Only records observed inside Dispatch.GetRecord are live. Records returned
// from Get or Call have already been released and fail to decode.
func UnsafeDecodeRecord[T any](v Value) (T, error) {
	var zero T
	if v.kind != KindRecord {
		return zero, v.mismatch(fmt.Sprintf("record %T", zero))
	}
	if v.rec == nil || v.rec.data == nil {
		return zero, &ConversionError{From: v.kind, To: fmt.Sprintf("record %T", zero), Reason: "record is no longer valid"}
	}
	return *(*T)(v.rec.data), nil
}

// DecodeVersionRecord decodes the application version record.
func DecodeVersionRecord(v Value) (VersionRecord, error) {
	return UnsafeDecodeRecord[VersionRecord](v)
}

// NewRecordFrom copies rec into fresh memory and wraps it as a live record.
// Backends that synthesize records (and tests) use it instead of handing out
// pointers into their own state.
func NewRecordFrom[T any](rec T) Value {
	p := new(T)
	*p = rec
	return RecordValue(unsafe.Pointer(p), nil, nil)
}
