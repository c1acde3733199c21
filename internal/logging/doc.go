// Package logging builds the slog loggers used across sweeper and owns the
// shared attribute vocabulary for structured fields.
//
// Two handler formats are supported: a human-oriented console format and JSON
// for machine consumption. NewFromConfig tees output to stdout and the
// configured log directory. CleanupOldLogs prunes aged per-run logs so the
// audit trail does not grow without bound.
//
// This logger is the orchestrator's own diagnostic channel; the append-only
// per-attempt run logs written for the external engine live in
// internal/runlog and are never pruned mid-pass or rewritten.
package logging
