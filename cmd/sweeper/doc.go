// Command sweeper performs one ingestion pass over a watched directory of
// incoming CSV files.
//
// A bare invocation runs a single pass and exits 0; per-file outcomes are
// reported through run logs, the quarantine directory, and the attempt
// history rather than the process exit status. Subcommands expose history
// queries, configuration utilities, and a notification test.
package main
