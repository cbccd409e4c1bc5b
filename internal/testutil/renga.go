package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hupe1980/renga/guid"
	"github.com/hupe1980/renga/native"
)

// ApplicationClass is the class name the simulated application registers.
const ApplicationClass = "Renga.Application.1"

// Status codes returned by the simulated application's status methods.
const (
	CodeOK                 int32 = 0
	CodeProjectAlreadyOpen int32 = 1
	CodeNoProject          int32 = 2
	CodeUnsavedChanges     int32 = 3
	CodeNoFilePath         int32 = 4
	CodeFileExists         int32 = 5
)

type simEntity struct {
	obj      *Object
	id       int32
	name     string
	typeID   guid.GUID
	uniqueID guid.GUID
}

type simOperation struct {
	obj     *Object
	started bool
	done    bool
	pending []*simEntity
}

type simProject struct {
	obj        *Object
	categories *Object
	path       string
	unsaved    bool
	op         *simOperation
	entities   []*simEntity
}

// Renga simulates the application object graph on a scripted Backend.
type Renga struct {
	Backend *Backend

	mu        sync.Mutex
	version   native.VersionRecord
	app       *Object
	project   *simProject
	nextID    int32
	instances int
	quit      bool
}

// NewRenga registers ApplicationClass on a fresh backend. The reported
// version defaults to 8.1.0.
func NewRenga() *Renga {
	r := &Renga{
		Backend: NewBackend(),
		version: native.VersionRecord{Major: 8, Minor: 1, Build: 0},
		nextID:  1,
	}
	r.Backend.Register(ApplicationClass, r.newApplication)
	return r
}

// SetVersion changes the version record the application reports (chainable).
func (r *Renga) SetVersion(major, minor, build int32) *Renga {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version = native.VersionRecord{Major: major, Minor: minor, Build: build}
	return r
}

// App returns the most recently created application object.
func (r *Renga) App() *Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.app
}

// Instances returns how many application objects were created.
func (r *Renga) Instances() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.instances
}

// ProjectObject returns the open project object, or nil.
func (r *Renga) ProjectObject() *Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.project == nil {
		return nil
	}
	return r.project.obj
}

// ProjectPath returns the file path of the open project.
func (r *Renga) ProjectPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.project == nil {
		return ""
	}
	return r.project.path
}

// EntityCount returns the number of committed entities in the open project.
func (r *Renga) EntityCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.project == nil {
		return 0
	}
	return len(r.project.entities)
}

// Quit reports whether the application was asked to quit.
func (r *Renga) Quit() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quit
}

func (r *Renga) newApplication() *Object {
	app := NewObject("Application")
	app.Property("Enabled", native.Bool(false)).
		Property("Visible", native.Bool(false)).
		Getter("Version", func() (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.NewRecordFrom(r.version), nil
		}).
		Getter("Project", func() (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.project == nil {
				return native.ObjectValue(nil), nil
			}
			return r.project.obj.Ref(), nil
		}).
		Method("HasProject", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.Bool(r.project != nil), nil
		}).
		Method("CreateProject", func([]native.Value) (native.Value, error) {
			return r.openProject("")
		}).
		Method("OpenProject", func(args []native.Value) (native.Value, error) {
			path, err := stringArg(args, 0, 1)
			if err != nil {
				return native.Value{}, err
			}
			return r.openProject(path)
		}).
		Method("CloseProject", r.closeProject).
		Method("Quit", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.quit = true
			if r.project != nil {
				r.dropProject()
			}
			app.Disconnect()
			return native.Empty(), nil
		})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.app = app
	r.instances++
	r.quit = false
	return app
}

func (r *Renga) openProject(path string) (native.Value, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.project != nil {
		return native.Int32(CodeProjectAlreadyOpen), nil
	}
	p := &simProject{path: path}
	p.obj = r.newProject(p)
	p.categories = r.newCollection(p)
	r.project = p
	return native.Int32(CodeOK), nil
}

func (r *Renga) closeProject(args []native.Value) (native.Value, error) {
	if len(args) != 1 {
		return native.Value{}, native.StatusBadParamCount
	}
	discard, err := args[0].AsBool()
	if err != nil {
		return native.Value{}, native.StatusTypeMismatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.project == nil:
		return native.Int32(CodeNoProject), nil
	case r.project.unsaved && !discard:
		return native.Int32(CodeUnsavedChanges), nil
	}
	r.dropProject()
	return native.Int32(CodeOK), nil
}

// dropProject disconnects every object of the open project. r.mu is held.
func (r *Renga) dropProject() {
	p := r.project
	r.project = nil
	p.obj.Disconnect()
	p.categories.Disconnect()
	if p.op != nil {
		p.op.obj.Disconnect()
	}
	for _, e := range p.entities {
		e.obj.Disconnect()
	}
}

func (r *Renga) active(p *simProject) bool {
	return p.op != nil && p.op.started && !p.op.done
}

func (r *Renga) newProject(p *simProject) *Object {
	return NewObject("Project").
		Method("HasUnsavedChanges", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.Bool(p.unsaved), nil
		}).
		Method("HasActiveOperation", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.Bool(r.active(p)), nil
		}).
		Method("CreateOperation", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			op := &simOperation{}
			op.obj = r.newOperation(p, op)
			return native.ObjectValue(op.obj), nil
		}).
		Method("ImportCategoryS", func(args []native.Value) (native.Value, error) {
			typeID, err := stringArg(args, 0, 2)
			if err != nil {
				return native.Value{}, err
			}
			path, err := stringArg(args, 1, 2)
			if err != nil {
				return native.Value{}, err
			}
			return r.importCategory(p, typeID, path)
		}).
		Getter("FilePath", func() (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.String(p.path), nil
		}).
		Method("Save", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if p.path == "" {
				return native.Int32(CodeNoFilePath), nil
			}
			if err := writeProjectFile(p.path); err != nil {
				return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: err.Error()}
			}
			p.unsaved = false
			return native.Int32(CodeOK), nil
		}).
		Method("SaveAs", func(args []native.Value) (native.Value, error) {
			path, err := stringArg(args, 0, 2)
			if err != nil {
				return native.Value{}, err
			}
			overwrite, err := args[1].AsBool()
			if err != nil {
				return native.Value{}, native.StatusTypeMismatch
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			if _, statErr := os.Stat(path); statErr == nil && !overwrite {
				return native.Int32(CodeFileExists), nil
			}
			if err := writeProjectFile(path); err != nil {
				return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: err.Error()}
			}
			p.path = path
			p.unsaved = false
			return native.Int32(CodeOK), nil
		}).
		Getter("Categories", func() (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return p.categories.Ref(), nil
		})
}

func (r *Renga) importCategory(p *simProject, typeID, path string) (native.Value, error) {
	id, err := guid.Parse(typeID)
	if err != nil {
		return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: "invalid category id " + typeID}
	}
	if _, err := os.Stat(path); err != nil {
		return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: "cannot read " + path}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active(p) {
		return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: "operation is not started"}
	}
	e := &simEntity{
		id:       r.nextID,
		name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		typeID:   id,
		uniqueID: guid.New(),
	}
	r.nextID++
	e.obj = newEntityObject(e)
	p.op.pending = append(p.op.pending, e)
	return e.obj.Ref(), nil
}

func (r *Renga) newOperation(p *simProject, op *simOperation) *Object {
	failure := func(desc string) error {
		return &native.Exception{Code: native.StatusFail, Source: "Renga", Description: desc}
	}
	return NewObject("Operation").
		Method("Start", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if op.started || r.active(p) {
				return native.Value{}, failure("operation already started")
			}
			op.started = true
			p.op = op
			return native.Empty(), nil
		}).
		Method("Apply", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if p.op != op || !r.active(p) {
				return native.Value{}, failure("operation is not active")
			}
			p.entities = append(p.entities, op.pending...)
			op.pending = nil
			op.done = true
			p.unsaved = true
			return native.Empty(), nil
		}).
		Method("Rollback", func([]native.Value) (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			if p.op != op || !r.active(p) {
				return native.Value{}, failure("operation is not active")
			}
			for _, e := range op.pending {
				e.obj.Disconnect()
			}
			op.pending = nil
			op.done = true
			return native.Empty(), nil
		})
}

func (r *Renga) newCollection(p *simProject) *Object {
	find := func(match func(*simEntity) bool) *simEntity {
		for _, e := range p.entities {
			if match(e) {
				return e
			}
		}
		return nil
	}
	byUniqueID := func(args []native.Value) (*simEntity, error) {
		s, err := stringArg(args, 0, 1)
		if err != nil {
			return nil, err
		}
		id, err := guid.Parse(s)
		if err != nil {
			return nil, native.StatusTypeMismatch
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return find(func(e *simEntity) bool { return e.uniqueID == id }), nil
	}
	byID := func(args []native.Value) (*simEntity, error) {
		if len(args) != 1 {
			return nil, native.StatusBadParamCount
		}
		id, err := args[0].AsInt32()
		if err != nil {
			return nil, native.StatusTypeMismatch
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return find(func(e *simEntity) bool { return e.id == id }), nil
	}
	ref := func(e *simEntity) native.Value {
		if e == nil {
			return native.ObjectValue(nil)
		}
		return e.obj.Ref()
	}

	return NewObject("EntityCollection").
		Getter("Count", func() (native.Value, error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			return native.Int32(int32(len(p.entities))), nil
		}).
		Method("GetByIndex", func(args []native.Value) (native.Value, error) {
			if len(args) != 1 {
				return native.Value{}, native.StatusBadParamCount
			}
			i, err := args[0].AsInt32()
			if err != nil {
				return native.Value{}, native.StatusTypeMismatch
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			if i < 0 || int(i) >= len(p.entities) {
				return native.Value{}, &native.Exception{Code: native.StatusFail, Source: "Renga", Description: "index out of range"}
			}
			return p.entities[i].obj.Ref(), nil
		}).
		Method("GetById", func(args []native.Value) (native.Value, error) {
			e, err := byID(args)
			if err != nil {
				return native.Value{}, err
			}
			return ref(e), nil
		}).
		Method("Contains", func(args []native.Value) (native.Value, error) {
			e, err := byID(args)
			if err != nil {
				return native.Value{}, err
			}
			return native.Bool(e != nil), nil
		}).
		Method("GetByUniqueIdS", func(args []native.Value) (native.Value, error) {
			e, err := byUniqueID(args)
			if err != nil {
				return native.Value{}, err
			}
			return ref(e), nil
		}).
		Method("ContainsUniqueIdS", func(args []native.Value) (native.Value, error) {
			e, err := byUniqueID(args)
			if err != nil {
				return native.Value{}, err
			}
			return native.Bool(e != nil), nil
		})
}

func newEntityObject(e *simEntity) *Object {
	return NewObject("Entity").
		Getter("Id", func() (native.Value, error) { return native.Int32(e.id), nil }).
		Getter("Name", func() (native.Value, error) { return native.String(e.name), nil }).
		Getter("TypeIdS", func() (native.Value, error) { return native.String(e.typeID.Braced()), nil }).
		Getter("UniqueIdS", func() (native.Value, error) { return native.String(e.uniqueID.Braced()), nil })
}

func stringArg(args []native.Value, i, want int) (string, error) {
	if len(args) != want {
		return "", native.StatusBadParamCount
	}
	s, err := args[i].AsString()
	if err != nil {
		return "", native.StatusTypeMismatch
	}
	return s, nil
}

func writeProjectFile(path string) error {
	return os.WriteFile(path, []byte("renga project\n"), 0o600)
}
