// Package history records one SQLite row per processing attempt so operators
// can answer "what happened to this file" without grepping run logs.
//
// Rows carry the pass session id, run token, classified result, raw exit
// status, and the paths to the attempt log and any quarantined copy. The
// database is an audit convenience rather than coordination state: the
// orchestrator never reads it to make decisions, and a history write failure
// degrades to a logged warning instead of failing the file.
package history
