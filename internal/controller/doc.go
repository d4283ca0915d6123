// Package controller owns the generator lifecycle: a two-state machine
// (STOPPED, RUNNING) that guarantees at most one producer task at a time.
//
// Start and Stop are idempotent and never block on the task. Shutdown is the
// only call that waits for the in-flight task to exit, and is meant for process
// teardown.
package controller
