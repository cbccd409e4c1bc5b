package testutil

import (
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/renga/native"
)

// Invocation records one request an Object received.
type Invocation struct {
	Member string
	Kind   native.CallKind
	// Args are in the caller's declared order.
	Args []native.Value
	// Wire is the parameter block exactly as it arrived.
	Wire native.Params
}

type member struct {
	name   string
	get    func() (native.Value, error)
	put    func(native.Value) error
	method func(args []native.Value) (native.Value, error)
}

// Object is a scripted foreign object. Members are matched case-insensitively
// and get ids in registration order, starting at 1.
//
// Handlers run without the object's lock held, so they may call back into
// other objects.
type Object struct {
	name string

	mu           sync.Mutex
	refs         int
	disconnected bool
	members      []*member
	byName       map[string]int
	resolutions  map[string]int
	invocations  []Invocation
}

// NewObject returns an object holding one reference.
// Example:
//
//	obj := NewObject("Counter").Property("Value", native.Int32(0)).Method("Reset", reset)
func NewObject(name string) *Object {
	return &Object{
		name:        name,
		refs:        1,
		byName:      map[string]int{},
		resolutions: map[string]int{},
	}
}

// Name returns the diagnostic name given at construction.
func (o *Object) Name() string { return o.name }

func (o *Object) member(name string) *member {
	o.mu.Lock()
	defer o.mu.Unlock()
	key := strings.ToLower(name)
	if i, ok := o.byName[key]; ok {
		return o.members[i]
	}
	m := &member{name: name}
	o.byName[key] = len(o.members)
	o.members = append(o.members, m)
	return m
}

// Getter registers a property-get handler (chainable).
func (o *Object) Getter(name string, fn func() (native.Value, error)) *Object {
	o.member(name).get = fn
	return o
}

// Setter registers a property-put handler (chainable).
func (o *Object) Setter(name string, fn func(native.Value) error) *Object {
	o.member(name).put = fn
	return o
}

// Method registers a method handler (chainable). args arrive in declared
// order.
func (o *Object) Method(name string, fn func(args []native.Value) (native.Value, error)) *Object {
	o.member(name).method = fn
	return o
}

// Property registers a stored read/write property with an initial value
// (chainable).
func (o *Object) Property(name string, initial native.Value) *Object {
	var (
		mu  sync.Mutex
		val = initial
	)
	o.Getter(name, func() (native.Value, error) {
		mu.Lock()
		defer mu.Unlock()
		return val, nil
	})
	o.Setter(name, func(v native.Value) error {
		mu.Lock()
		defer mu.Unlock()
		val = v
		return nil
	})
	return o
}

// Ref adds a reference and wraps the object as a result value. Handlers
// returning objects use it so the caller owns the reference it receives.
func (o *Object) Ref() native.Value {
	o.AddRef()
	return native.ObjectValue(o)
}

// Disconnect makes every later request fail with StatusDisconnected, the way
// a proxy behaves once the server object is gone.
func (o *Object) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.disconnected = true
}

// Disconnected reports whether Disconnect was called.
func (o *Object) Disconnected() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.disconnected
}

// Refs returns the current reference count.
func (o *Object) Refs() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.refs
}

// Resolutions returns how many times name was resolved to an id.
func (o *Object) Resolutions(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resolutions[strings.ToLower(name)]
}

// Invocations returns a copy of every request received so far.
func (o *Object) Invocations() []Invocation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.invocations)
}

// Calls returns the invocations of one member.
func (o *Object) Calls(name string) []Invocation {
	var out []Invocation
	for _, inv := range o.Invocations() {
		if strings.EqualFold(inv.Member, name) {
			out = append(out, inv)
		}
	}
	return out
}

// AddRef implements native.Object.
func (o *Object) AddRef() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refs++
}

// Release implements native.Object.
func (o *Object) Release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refs--
}

// MemberID implements native.Object.
func (o *Object) MemberID(name string) (native.MemberID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.disconnected {
		return 0, native.StatusDisconnected
	}
	key := strings.ToLower(name)
	o.resolutions[key]++
	i, ok := o.byName[key]
	if !ok {
		return 0, native.StatusUnknownName
	}
	return native.MemberID(i + 1), nil
}

// Invoke implements native.Object.
func (o *Object) Invoke(id native.MemberID, kind native.CallKind, params native.Params) (native.Value, error) {
	o.mu.Lock()
	if o.disconnected {
		o.mu.Unlock()
		return native.Value{}, native.StatusDisconnected
	}
	i := int(id) - 1
	if i < 0 || i >= len(o.members) {
		o.mu.Unlock()
		return native.Value{}, native.StatusMemberNotFound
	}
	m := o.members[i]

	args := slices.Clone(params.Args)
	slices.Reverse(args)
	o.invocations = append(o.invocations, Invocation{Member: m.name, Kind: kind, Args: args, Wire: params})
	o.mu.Unlock()

	switch kind {
	case native.CallGet:
		if m.get == nil {
			return native.Value{}, native.StatusMemberNotFound
		}
		return m.get()
	case native.CallPut:
		if m.put == nil {
			return native.Value{}, native.StatusMemberNotFound
		}
		if len(args) != 1 || !slices.Equal(params.NamedArgs, []native.MemberID{native.MemberPropertyPut}) {
			return native.Value{}, native.StatusParamNotFound
		}
		return native.Value{}, m.put(args[0])
	case native.CallMethod:
		if m.method == nil {
			return native.Value{}, native.StatusMemberNotFound
		}
		return m.method(args)
	default:
		return native.Value{}, native.StatusNotImplemented
	}
}

var _ native.Object = (*Object)(nil)
