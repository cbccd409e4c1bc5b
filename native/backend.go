package native

import "github.com/hupe1980/renga/guid"

// CallKind selects how a member is invoked.
type CallKind uint16

// Call kinds. The numeric values match the automation protocol flags.
const (
	CallMethod CallKind = 1
	CallGet    CallKind = 2
	CallPut    CallKind = 4
)

// String returns a short lower-case name used in logs, metrics and spans.
func (k CallKind) String() string {
	switch k {
	case CallMethod:
		return "call"
	case CallGet:
		return "get"
	case CallPut:
		return "put"
	default:
		return "unknown"
	}
}

// MemberID is the numeric id a member name resolves to.
type MemberID int32

// MemberPropertyPut is the reserved named-argument id that marks the value
// argument of a property put.
const MemberPropertyPut MemberID = -3

// Params is a wire-level argument list. Args are in wire order, which is the
// reverse of the caller's declared order. NamedArgs lists the ids of the
// leading named arguments.
type Params struct {
	Args      []Value
	NamedArgs []MemberID
}

// Backend is the process-level entry point of an automation subsystem.
type Backend interface {
	// Initialize prepares the subsystem for use by the process. A failure
	// code aborts runtime acquisition; StatusChangedMode means it is already
	// initialized in another mode and remains usable.
	Initialize() HResult
	// Uninitialize undoes a successful Initialize.
	Uninitialize()
	// ClassID resolves a registered class name to its identifier.
	ClassID(className string) (guid.GUID, error)
	// CreateInstance instantiates a class. The returned object carries one
	// reference owned by the caller.
	CreateInstance(clsid guid.GUID) (Object, error)
}

// Object is one reference to a foreign object.
type Object interface {
	// MemberID resolves a member name.
	MemberID(name string) (MemberID, error)
	// Invoke issues a request against a resolved member. Object values in
	// the result carry a reference owned by the caller.
	Invoke(id MemberID, kind CallKind, params Params) (Value, error)
	// AddRef adds a reference to the foreign object.
	AddRef()
	// Release drops a reference to the foreign object.
	Release()
}
