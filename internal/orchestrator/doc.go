// Package orchestrator composes one finite ingestion pass over the incoming
// directory.
//
// A pass is single-threaded and filesystem-mediated: the instance lock is the
// only concurrency primitive, candidates are processed sequentially in
// lexical order, and every coordination artifact (lock marker, run logs,
// quarantined files) lives on disk. Per-file failures are absorbed so one bad
// file never aborts its neighbors; only unusable-installation conditions
// (lock or directory creation failures) make Run return an error. Each
// invocation is one pass and exits; repetition belongs to an external
// scheduler.
package orchestrator
