package main

import (
	"testing"

	"sweeper/internal/testsupport"
)

func TestHistoryWithNoAttempts(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No attempts recorded.")
}

func TestHistoryListsRecordedAttempts(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteIncoming(t, env.cfg.Paths.IncomingDir, "ledger.csv", "a,b\n1,2\n")

	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err != nil {
		t.Fatalf("run pass: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "ledger.csv")
	requireContains(t, out, "success")

	out, _, err = runCLI(t, []string{"history", "--file", "ledger.csv"}, env.configPath)
	if err != nil {
		t.Fatalf("history --file: %v", err)
	}
	requireContains(t, out, "ledger.csv")

	out, _, err = runCLI(t, []string{"history", "--file", "missing.csv"}, env.configPath)
	if err != nil {
		t.Fatalf("history --file missing: %v", err)
	}
	requireContains(t, out, "No attempts recorded.")
}
