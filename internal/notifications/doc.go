// Package notifications delivers pass and quarantine events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when no topic is set, so the
// orchestrator can call it unconditionally. Failures are reported to the
// caller but are never load-bearing: a lost notification must not change file
// disposition.
package notifications
