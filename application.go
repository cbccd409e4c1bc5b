package renga

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/multierr"

	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/native"
	"github.com/hupe1980/renga/version"
)

// Application is a running application instance.
//
// An Application holds the automation runtime for as long as it lives; call
// Close to quit the application and release it.
type Application struct {
	handle  *native.Dispatch
	runtime *native.Runtime
	logger  logging.Logger

	closeOnce sync.Once
}

// New starts the application with user input enabled and the user interface
// visible unless Options.Hidden is set. On failure everything acquired so far
// is released.
func New(optFns ...func(o *Options)) (*Application, error) {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := logging.OrNoOp(opts.Logger)

	rt, err := native.AcquireRuntime(opts.Backend)
	if err != nil {
		return nil, err
	}

	handle, err := native.FromClassName(opts.Backend, opts.ClassName)
	if err != nil {
		rt.Release()
		return nil, err
	}

	a := &Application{handle: handle, runtime: rt, logger: logger}

	if err := a.SetEnabled(true); err != nil {
		a.release()
		return nil, err
	}

	if err := a.SetVisible(!opts.Hidden); err != nil {
		a.release()
		return nil, err
	}

	logger.Debug("renga.application.started", "class", opts.ClassName, "hidden", opts.Hidden)
	logging.Transition(logger, "disabled", "ready")

	return a, nil
}

// NewHidden starts the application without showing its user interface.
func NewHidden(optFns ...func(o *Options)) (*Application, error) {
	return New(append([]func(o *Options){WithHidden}, optFns...)...)
}

// Enabled reports whether user input is enabled.
func (a *Application) Enabled() (bool, error) { return a.getBool("Enabled") }

// SetEnabled enables or disables user input.
func (a *Application) SetEnabled(enabled bool) error {
	return a.handle.Set("Enabled", native.Bool(enabled))
}

// Visible reports whether the user interface is shown.
func (a *Application) Visible() (bool, error) { return a.getBool("Visible") }

// SetVisible shows or hides the user interface.
func (a *Application) SetVisible(visible bool) error {
	return a.handle.Set("Visible", native.Bool(visible))
}

func (a *Application) getBool(member string) (bool, error) {
	v, err := a.handle.Get(member)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// Version returns the application version.
func (a *Application) Version() (version.Version, error) {
	var rec native.VersionRecord
	err := a.handle.GetRecord("Version", func(v native.Value) error {
		var err error
		rec, err = native.DecodeVersionRecord(v)
		return err
	})
	if err != nil {
		return version.Version{}, err
	}
	return version.FromComponents(rec.Major, rec.Minor, rec.Build)
}

// HasProject reports whether a project is open. Applications without a
// HasProject member are asked for their current project instead.
func (a *Application) HasProject() (bool, error) {
	v, err := a.handle.Call("HasProject")
	if errors.Is(err, ErrMemberNotFound) {
		return a.projectPresent()
	}
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

func (a *Application) projectPresent() (bool, error) {
	v, err := a.handle.Get("Project")
	if err != nil {
		return false, err
	}
	defer v.Clear()

	if v.IsNullObject() {
		return false, nil
	}
	h, err := v.AsDispatch()
	if err != nil {
		return false, err
	}
	h.Release()
	return true, nil
}

// Project returns the open project. Failures are logged and reported the
// same way as the absence of a project.
func (a *Application) Project() (*Project, bool) {
	p, err := a.currentProject()
	if err != nil {
		a.logger.Warn("renga.application.project_failed", "error", err)
		return nil, false
	}
	return p, p != nil
}

// currentProject returns nil without error when no project is open.
func (a *Application) currentProject() (*Project, error) {
	v, err := a.handle.Get("Project")
	if err != nil {
		return nil, err
	}
	defer v.Clear()

	if v.IsNullObject() {
		return nil, nil
	}

	handle, err := v.AsDispatch()
	if err != nil {
		return nil, err
	}

	parent, err := a.handle.Clone()
	if err != nil {
		handle.Release()
		return nil, err
	}

	return newProject(parent, handle, a.logger)
}

// NewProject creates a project and makes it current. It fails with
// ErrAlreadyOpened if a project is already open.
func (a *Application) NewProject() (*Project, error) {
	code, err := a.callStatus("CreateProject")
	if err != nil {
		return nil, err
	}

	if err := checkStatus("create project", code, ErrAlreadyOpened); err != nil {
		return nil, err
	}

	p, err := a.reopened("create project")
	if err != nil {
		return nil, err
	}

	logging.Transition(a.logger, "no_project", "project_open")

	return p, nil
}

// OpenProject opens the project file at path and makes it current. The
// path must exist.
func (a *Application) OpenProject(path string) (*Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &PathError{Op: "open project", Path: path, Err: ErrNonexistentPath}
	}

	code, err := a.callStatus("OpenProject", native.String(path))
	if err != nil {
		return nil, err
	}

	if err := checkStatus("open project", code, ErrAlreadyOpened); err != nil {
		return nil, err
	}

	p, err := a.reopened("open project")
	if err != nil {
		return nil, err
	}

	a.logger.Info("renga.project.opened", "path", path)
	logging.Transition(a.logger, "no_project", "project_open")

	return p, nil
}

func (a *Application) reopened(op string) (*Project, error) {
	p, err := a.currentProject()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s succeeded but no project is current", ErrInternal, op)
	}
	return p, nil
}

func (a *Application) callStatus(member string, args ...native.Value) (int32, error) {
	v, err := a.handle.Call(member, args...)
	if err != nil {
		return 0, err
	}
	return v.AsInt32()
}

// TryQuit asks the application to quit.
func (a *Application) TryQuit() error {
	if _, err := a.handle.Call("Quit"); err != nil {
		return err
	}
	a.logger.Debug("renga.application.quit")
	return nil
}

// Quit is TryQuit with the error logged instead of returned.
func (a *Application) Quit() {
	if err := a.TryQuit(); err != nil {
		a.logger.Error("renga.application.quit_failed", "error", err)
	}
}

// Close closes the open project discarding its changes, quits the
// application and releases the runtime. Close never fails; problems are
// logged. Calling Close more than once has no further effect.
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		var errs error

		if p, ok := a.Project(); ok {
			errs = multierr.Append(errs, p.Close(true))
			p.Release()
		}

		errs = multierr.Append(errs, a.TryQuit())

		for _, err := range multierr.Errors(errs) {
			a.logger.Error("renga.application.close_failed", "error", err)
		}

		a.release()
		logging.Transition(a.logger, "ready", "closed")
	})
}

func (a *Application) release() {
	a.handle.Release()
	a.runtime.Release()
}
