package native

import (
	"fmt"

	"github.com/hupe1980/renga/guid"
)

// Dispatch is an owned handle to one foreign object.
//
// A Dispatch is either valid or null. Every operation except IsNull and
// Release fails with ErrNullHandle on a null handle without touching the
// foreign side. Each Dispatch owns exactly one foreign reference; Clone adds
// another and Release drops it.
type Dispatch struct {
	obj Object
}

// NewDispatch wraps obj, taking over the reference the caller holds. A nil
// obj yields a null handle.
func NewDispatch(obj Object) *Dispatch {
	return &Dispatch{obj: obj}
}

// FromClassName resolves className to a class id and instantiates it.
func FromClassName(backend Backend, className string) (*Dispatch, error) {
	clsid, err := backend.ClassID(className)
	if err != nil {
		return nil, fmt.Errorf("native: resolve class %q: %w", className, err)
	}
	logger().Debug("renga.dispatch.create_instance", "class", className, "clsid", clsid.Braced())
	return FromClassID(backend, clsid)
}

// FromClassID instantiates the class identified by clsid.
func FromClassID(backend Backend, clsid guid.GUID) (*Dispatch, error) {
	obj, err := backend.CreateInstance(clsid)
	if err != nil {
		return nil, fmt.Errorf("native: create instance of %s: %w", clsid.Braced(), err)
	}
	return NewDispatch(obj), nil
}

// IsNull reports whether the handle references nothing.
func (d *Dispatch) IsNull() bool { return d == nil || d.obj == nil }

// Clone returns an independent handle to the same foreign object.
func (d *Dispatch) Clone() (*Dispatch, error) {
	if d.IsNull() {
		return nil, ErrNullHandle
	}
	d.obj.AddRef()
	return NewDispatch(d.obj), nil
}

// Release drops the handle's reference. The handle is null afterwards.
func (d *Dispatch) Release() {
	if d.IsNull() {
		return
	}
	d.obj.Release()
	d.obj = nil
}

// Get reads a property.
//
// Record results are released before Get returns; use GetRecord to decode
// them.
func (d *Dispatch) Get(member string) (Value, error) {
	v, err := d.invoke(CallGet, member, nil)
	if err != nil {
		return Value{}, err
	}
	v.expire()
	return v, nil
}

// Set writes a property.
func (d *Dispatch) Set(member string, value Value) error {
	v, err := d.invoke(CallPut, member, []Value{value})
	if err != nil {
		return err
	}
	v.Clear()
	return nil
}

// Call invokes a method with args in declared order.
//
// Record results are released before Call returns.
func (d *Dispatch) Call(member string, args ...Value) (Value, error) {
	v, err := d.invoke(CallMethod, member, args)
	if err != nil {
		return Value{}, err
	}
	v.expire()
	return v, nil
}

// GetRecord reads a record-valued property and hands it to fn. The record
// is valid only while fn runs.
func (d *Dispatch) GetRecord(member string, fn func(Value) error) error {
	v, err := d.invoke(CallGet, member, nil)
	if err != nil {
		return err
	}
	defer v.Clear()
	return fn(v)
}

// GetObject reads an object-valued property and returns an independent
// handle to it.
func (d *Dispatch) GetObject(member string) (*Dispatch, error) {
	v, err := d.Get(member)
	if err != nil {
		return nil, err
	}
	defer v.Clear()
	return v.AsDispatch()
}

// CallObject invokes an object-returning method and returns an independent
// handle to the result.
func (d *Dispatch) CallObject(member string, args ...Value) (*Dispatch, error) {
	v, err := d.Call(member, args...)
	if err != nil {
		return nil, err
	}
	defer v.Clear()
	return v.AsDispatch()
}

// invoke resolves member and issues one request. Member ids are resolved on
// every call because the member table may differ between application
// versions.
func (d *Dispatch) invoke(kind CallKind, member string, args []Value) (result Value, err error) {
	if d.IsNull() {
		return Value{}, ErrNullHandle
	}

	done := observeCall(kind, member, len(args))
	defer func() { done(err) }()

	id, err := d.obj.MemberID(member)
	if err != nil {
		return Value{}, newCallError(member, kind, err)
	}

	result, err = d.obj.Invoke(id, kind, wireParams(kind, args))
	if err != nil {
		return Value{}, newCallError(member, kind, err)
	}
	return result, nil
}

// wireParams lays args out the way the automation protocol reads them: last
// declared argument first. A property put additionally marks its value as
// the named put argument.
func wireParams(kind CallKind, args []Value) Params {
	var p Params
	if len(args) == 0 {
		return p
	}
	p.Args = make([]Value, len(args))
	for i, a := range args {
		p.Args[len(args)-1-i] = a
	}
	if kind == CallPut {
		p.NamedArgs = []MemberID{MemberPropertyPut}
	}
	return p
}
