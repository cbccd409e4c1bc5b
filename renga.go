// Package renga drives the Renga BIM application through its late-bound
// automation interface.
//
// A session is layered as Application → Project → Transaction:
//  1. New (or NewHidden) acquires the automation runtime, instantiates the
//     application and enables user input
//  2. NewProject or OpenProject makes a project current
//  3. Project.StartTransaction opens an operation; every model edit, such as
//     ImportCategory, happens inside it and is committed or rolled back
//
// Every query reads through to the application; the wrappers cache nothing
// except the identity fields of an Entity. Application.Close tears the
// session down and never fails.
//
// The invocation layer underneath lives in package native and can be used
// directly against any object reachable from the application.
package renga

import (
	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/native"
)

// DefaultClassName is the registered class name of the application.
const DefaultClassName = "Renga.Application.1"

// Options configures an Application.
type Options struct {
	// ClassName is the class instantiated by New.
	ClassName string

	// Hidden starts the application without showing its user interface.
	// User input stays enabled either way.
	Hidden bool

	// Backend is the automation subsystem (defaults to the platform backend).
	Backend native.Backend

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

func defaultOptions() Options {
	return Options{
		ClassName: DefaultClassName,
		Backend:   native.DefaultBackend(),
		Logger:    logging.NoOpLogger{},
	}
}

// WithHidden is an option function starting the application hidden.
func WithHidden(o *Options) { o.Hidden = true }
