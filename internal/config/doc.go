// Package config loads, normalizes, and validates sweeper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and derives the incoming/quarantine/log
// directories from a single data_dir when they are not set individually. The
// Config type centralizes every knob the orchestrator and CLI need, including
// the process contract with the external normalization engine.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, a validated soft-exit-code list, and clear
// validation errors.
package config
