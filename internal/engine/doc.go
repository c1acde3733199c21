// Package engine invokes the external CSV normalization engine as a child
// process and reports its exit status.
//
// The process contract is three positional arguments: absolute input path,
// run token, absolute attempt-log path. The invoker sets the child's working
// directory and PYTHONPATH to the configured engine root so the engine's own
// package imports resolve, blocks until the child terminates, and never
// parses its output. Exit statuses are protocol, not errors; Invoke returns
// an error only when no status was produced at all.
package engine
