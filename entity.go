package renga

import (
	"fmt"
	"math"

	"github.com/hupe1980/renga/category"
	"github.com/hupe1980/renga/guid"
	"github.com/hupe1980/renga/native"
)

// Entity is a model object's identity, read when the Entity was created.
type Entity struct {
	ID       int32
	Name     string
	TypeID   guid.GUID
	UniqueID guid.GUID

	handle *native.Dispatch
}

// NewEntity takes over handle and reads the identity fields. The handle is
// released if any read fails.
func NewEntity(handle *native.Dispatch) (*Entity, error) {
	if handle.IsNull() {
		return nil, fmt.Errorf("%w: entity handle is null", ErrInternal)
	}

	e := &Entity{handle: handle}
	if err := e.Refresh(); err != nil {
		handle.Release()
		return nil, err
	}

	return e, nil
}

// Refresh re-reads the identity fields.
func (e *Entity) Refresh() error {
	v, err := e.handle.Get("Id")
	if err != nil {
		return err
	}
	id, err := v.AsInt32()
	if err != nil {
		return err
	}

	v, err = e.handle.Get("Name")
	if err != nil {
		return err
	}
	name, err := v.AsString()
	if err != nil {
		return err
	}

	typeID, err := e.guid("TypeIdS")
	if err != nil {
		return err
	}

	uniqueID, err := e.guid("UniqueIdS")
	if err != nil {
		return err
	}

	e.ID, e.Name, e.TypeID, e.UniqueID = id, name, typeID, uniqueID

	return nil
}

func (e *Entity) guid(member string) (guid.GUID, error) {
	v, err := e.handle.Get(member)
	if err != nil {
		return guid.Nil, err
	}
	s, err := v.AsString()
	if err != nil {
		return guid.Nil, err
	}
	return guid.Parse(s)
}

// Category returns the catalogue category of the entity's type, if it is
// one.
func (e *Entity) Category() (category.Category, bool) { return category.ByID(e.TypeID) }

// Handle returns the underlying object handle.
func (e *Entity) Handle() *native.Dispatch { return e.handle }

// Release drops the entity's reference. The identity fields stay readable.
func (e *Entity) Release() { e.handle.Release() }

func (e *Entity) String() string {
	return fmt.Sprintf("%s (id %d, type %s, uuid %s)", e.Name, e.ID, e.TypeID, e.UniqueID)
}

// EntityCollection is a live view of a collection of entities.
type EntityCollection struct {
	handle *native.Dispatch
}

func newEntityCollection(handle *native.Dispatch) (*EntityCollection, error) {
	if handle.IsNull() {
		return nil, fmt.Errorf("%w: entity collection handle is null", ErrInternal)
	}
	return &EntityCollection{handle: handle}, nil
}

// Len returns the number of entities.
func (c *EntityCollection) Len() (int, error) {
	v, err := c.handle.Get("Count")
	if err != nil {
		return 0, err
	}
	n, err := v.AsInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative collection length %d", ErrInternal, n)
	}
	return int(n), nil
}

// At returns the entity at index i.
func (c *EntityCollection) At(i int) (*Entity, error) {
	if i < 0 || i > math.MaxInt32 {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidOperation, i)
	}
	return c.entity(c.handle.Call("GetByIndex", native.Int32(int32(i))))
}

// ByID returns the entity with the given id. It fails with ErrNotFound if
// there is none.
func (c *EntityCollection) ByID(id int32) (*Entity, error) {
	e, err := c.entity(c.handle.Call("GetById", native.Int32(id)))
	if err != nil {
		return nil, fmt.Errorf("entity %d: %w", id, err)
	}
	return e, nil
}

// ByUniqueID returns the entity with the given unique id. It fails with
// ErrNotFound if there is none.
func (c *EntityCollection) ByUniqueID(id guid.GUID) (*Entity, error) {
	e, err := c.entity(c.handle.Call("GetByUniqueIdS", native.String(id.String())))
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", id, err)
	}
	return e, nil
}

// ContainsID reports whether an entity with the given id exists.
func (c *EntityCollection) ContainsID(id int32) (bool, error) {
	v, err := c.handle.Call("Contains", native.Int32(id))
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// ContainsUniqueID reports whether an entity with the given unique id exists.
func (c *EntityCollection) ContainsUniqueID(id guid.GUID) (bool, error) {
	v, err := c.handle.Call("ContainsUniqueIdS", native.String(id.String()))
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// Entities returns every entity in collection order.
func (c *EntityCollection) Entities() ([]*Entity, error) {
	n, err := c.Len()
	if err != nil {
		return nil, err
	}

	out := make([]*Entity, 0, n)
	for i := range n {
		e, err := c.At(i)
		if err != nil {
			for _, prev := range out {
				prev.Release()
			}
			return nil, err
		}
		out = append(out, e)
	}

	return out, nil
}

// Release drops the collection reference.
func (c *EntityCollection) Release() { c.handle.Release() }

func (c *EntityCollection) entity(v native.Value, err error) (*Entity, error) {
	if err != nil {
		return nil, err
	}
	defer v.Clear()

	if v.IsNullObject() {
		return nil, ErrNotFound
	}

	handle, err := v.AsDispatch()
	if err != nil {
		return nil, err
	}

	return NewEntity(handle)
}
