// Package native is the late-bound invocation layer of renga.
//
// It talks to the automation object model through three pieces:
//
//   - Runtime: a reference-counted guard around the process-wide automation
//     subsystem. The subsystem is initialized by the first guard and torn
//     down when the last one is released.
//   - Dispatch: an opaque handle to one foreign object. Members are resolved
//     by name on every call and invoked as property get, property put or
//     method call.
//   - Value: the tagged union every argument and result is marshalled
//     through.
//
// The foreign side is reached through the Backend and Object interfaces.
// DefaultBackend returns the COM implementation on Windows; tests plug in a
// scripted backend instead.
//
// Handles are not synchronized. Callers issuing concurrent calls against the
// same foreign object must serialize them themselves.
package native
