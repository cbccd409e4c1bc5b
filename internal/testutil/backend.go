package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/renga/guid"
	"github.com/hupe1980/renga/native"
)

// classNamespace seeds the deterministic class ids handed out by Register.
var classNamespace = guid.MustParse("{6F1A3C52-0D8B-4E2A-9C71-2B5E8D4F0A13}")

// Backend is a scripted automation subsystem.
type Backend struct {
	mu         sync.Mutex
	initStatus native.HResult
	classes    map[string]guid.GUID
	factories  map[guid.GUID]func() *Object
	inits      int
	uninits    int
}

// NewBackend returns a backend whose Initialize succeeds.
func NewBackend() *Backend {
	return &Backend{
		classes:   map[string]guid.GUID{},
		factories: map[guid.GUID]func() *Object{},
	}
}

// SetInitStatus makes later Initialize calls return code (chainable).
func (b *Backend) SetInitStatus(code native.HResult) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initStatus = code
	return b
}

// Register makes className instantiable. The class id is derived from the
// name, so it is stable across backends.
func (b *Backend) Register(className string, factory func() *Object) guid.GUID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := guid.NewNameBased(classNamespace, strings.ToLower(className))
	b.classes[strings.ToLower(className)] = id
	b.factories[id] = factory
	return id
}

// Inits returns how many times Initialize was called.
func (b *Backend) Inits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inits
}

// Uninits returns how many times Uninitialize was called.
func (b *Backend) Uninits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uninits
}

// Initialize implements native.Backend.
func (b *Backend) Initialize() native.HResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inits++
	return b.initStatus
}

// Uninitialize implements native.Backend.
func (b *Backend) Uninitialize() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uninits++
}

// ClassID implements native.Backend.
func (b *Backend) ClassID(className string) (guid.GUID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.classes[strings.ToLower(className)]
	if !ok {
		return guid.Nil, native.StatusClassNotReg
	}
	return id, nil
}

// CreateInstance implements native.Backend.
func (b *Backend) CreateInstance(clsid guid.GUID) (native.Object, error) {
	b.mu.Lock()
	factory, ok := b.factories[clsid]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("testutil: class %s: %w", clsid.Braced(), native.StatusClassNotReg)
	}
	return factory(), nil
}

var _ native.Backend = (*Backend)(nil)
