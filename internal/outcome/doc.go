// Package outcome classifies engine exit statuses and performs the resulting
// filesystem action.
//
// The exit-code protocol is modeled as a closed enumeration with an explicit
// table: 0 is success, the configured soft codes are deliberate skips, 1 is
// the engine's declared crash, and everything else is an unknown crash.
// Unknown statuses quarantine conservatively so no file is ever silently
// dropped. Success and soft-skip never touch the file; disposition on those
// paths belongs to the engine.
package outcome
