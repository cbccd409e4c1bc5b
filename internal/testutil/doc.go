// Package testutil provides an in-process automation backend for tests.
//
// Backend and Object implement the native backend contract with scripted
// members, counting every resolution and recording every invocation so tests
// can assert on wire-level behavior. Renga builds on them to simulate the
// application object graph (application, project, operation, entities)
// closely enough to drive full sessions without the real application. These
// helpers are not intended for production usage.
package testutil
