package renga

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hupe1980/renga/category"
	rerrors "github.com/hupe1980/renga/errors"
	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/native"
)

// Project is the project currently open in an Application.
//
// A Project keeps its own reference to the application because closing a
// project is an application request.
type Project struct {
	parent *native.Dispatch
	handle *native.Dispatch
	logger logging.Logger
}

func newProject(parent, handle *native.Dispatch, logger logging.Logger) (*Project, error) {
	if parent.IsNull() || handle.IsNull() {
		parent.Release()
		handle.Release()
		return nil, fmt.Errorf("%w: project handle is null", ErrInternal)
	}
	return &Project{parent: parent, handle: handle, logger: logger}, nil
}

// HasUnsavedChanges reports whether the project was modified since it was
// last saved.
func (p *Project) HasUnsavedChanges() (bool, error) {
	return p.callBool("HasUnsavedChanges")
}

// HasTransaction reports whether a transaction is active.
func (p *Project) HasTransaction() (bool, error) {
	return p.callBool("HasActiveOperation")
}

func (p *Project) callBool(member string) (bool, error) {
	v, err := p.handle.Call(member)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// Close closes the project. With discard unset, a project with unsaved
// changes is not closed and ErrInvalidOperation is returned.
//
// The Project stays usable as a value but every later request fails, a
// second Close included.
func (p *Project) Close(discard bool) error {
	v, err := p.parent.Call("CloseProject", native.Bool(discard))
	if err != nil {
		return err
	}

	code, err := v.AsInt32()
	if err != nil {
		return err
	}

	if err := checkStatus("close project", code, ErrInvalidOperation); err != nil {
		return err
	}

	p.logger.Info("renga.project.close", "discard", discard)
	logging.Transition(p.logger, "project_open", "no_project")

	return nil
}

// StartTransaction opens a transaction. It fails with ErrInvalidOperation if
// one is already active.
func (p *Project) StartTransaction() (*Transaction, error) {
	active, err := p.HasTransaction()
	if err != nil {
		return nil, err
	}

	if active {
		return nil, fmt.Errorf("%w: project already has an active transaction", ErrInvalidOperation)
	}

	handle, err := p.handle.CallObject("CreateOperation")
	if err != nil {
		return nil, err
	}

	return newTransaction(handle, p.logger)
}

// FilePath returns the project file path; empty for a project that was
// never saved.
func (p *Project) FilePath() (string, error) {
	v, err := p.handle.Get("FilePath")
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// Save writes the project to its file path.
func (p *Project) Save() error {
	v, err := p.handle.Call("Save")
	if err != nil {
		return err
	}

	code, err := v.AsInt32()
	if err != nil {
		return err
	}

	return checkStatus("save project", code, ErrInvalidOperation)
}

// SaveAs writes the project to path. The parent directory must exist.
func (p *Project) SaveAs(path string, overwrite bool) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return &PathError{Op: "save project", Path: dir, Err: ErrNonexistentPath}
	}

	v, err := p.handle.Call("SaveAs", native.String(path), native.Bool(overwrite))
	if err != nil {
		return err
	}

	code, err := v.AsInt32()
	if err != nil {
		return err
	}

	if err := checkStatus("save project", code, ErrInvalidOperation); err != nil {
		return err
	}

	p.logger.Info("renga.project.saved", "path", path)

	return nil
}

// Categories returns the entities created from imported categories.
func (p *Project) Categories() (*EntityCollection, error) {
	handle, err := p.handle.GetObject("Categories")
	if err != nil {
		return nil, err
	}
	return newEntityCollection(handle)
}

// ImportCategory imports the category file at path as an entity of the type
// typeID. typeID is passed to the application unchanged. The import must
// run inside a transaction.
func (p *Project) ImportCategory(typeID, path string) (*Entity, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &PathError{Op: "import category", Path: path, Err: ErrNonexistentPath}
	}

	active, err := p.HasTransaction()
	if err != nil {
		return nil, err
	}

	if !active {
		return nil, fmt.Errorf("%w: import category %s", ErrNoActiveTransaction, typeID)
	}

	handle, err := p.handle.CallObject("ImportCategoryS", native.String(typeID), native.String(path))
	if err != nil {
		return nil, err
	}

	e, err := NewEntity(handle)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("renga.project.import_category", "type_id", typeID, "path", path, "entity_id", e.ID)

	return e, nil
}

// ImportCategoryOf imports a category file as an entity of category c.
func (p *Project) ImportCategoryOf(c category.Category, path string) (*Entity, error) {
	if !c.Valid() {
		return nil, &rerrors.ValidationError{Type: "Category", Reason: fmt.Sprintf("unknown category %d", int(c))}
	}
	return p.ImportCategory(c.ID().Braced(), path)
}

// Release drops the project's references. The project stays open in the
// application.
func (p *Project) Release() {
	p.handle.Release()
	p.parent.Release()
}
