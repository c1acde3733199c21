package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"sweeper/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAttempt(session, token, file, result string) history.Attempt {
	now := time.Now()
	return history.Attempt{
		SessionID:  session,
		RunToken:   token,
		FileName:   file,
		Result:     result,
		LogPath:    "/logs/" + token + "-" + file + ".log",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := uuid.NewString()

	status := 1
	attempt := sampleAttempt(session, "20260301-120000", "bank.csv", history.ResultCrash)
	attempt.ExitStatus = &status
	attempt.QuarantinePath = "/failed/20260301-120000-bank.csv-failed.csv"

	recorded, err := store.Record(ctx, attempt)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if recorded.ID == 0 {
		t.Fatal("expected assigned id")
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(recent))
	}
	got := recent[0]
	if got.SessionID != session || got.RunToken != "20260301-120000" || got.FileName != "bank.csv" {
		t.Fatalf("unexpected attempt: %#v", got)
	}
	if got.Result != history.ResultCrash || got.ExitStatus == nil || *got.ExitStatus != 1 {
		t.Fatalf("unexpected result fields: %#v", got)
	}
	if got.QuarantinePath == "" {
		t.Fatal("quarantine path not persisted")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	session := uuid.NewString()

	for _, file := range []string{"a.csv", "b.csv", "c.csv"} {
		if _, err := store.Record(ctx, sampleAttempt(session, "tok", file, history.ResultSuccess)); err != nil {
			t.Fatalf("Record %s failed: %v", file, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("limit not applied: got %d", len(recent))
	}
	if recent[0].FileName != "c.csv" || recent[1].FileName != "b.csv" {
		t.Fatalf("unexpected order: %s, %s", recent[0].FileName, recent[1].FileName)
	}
}

func TestByFile(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, sampleAttempt(uuid.NewString(), "t1", "bank.csv", history.ResultUnstable)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := store.Record(ctx, sampleAttempt(uuid.NewString(), "t2", "bank.csv", history.ResultSuccess)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := store.Record(ctx, sampleAttempt(uuid.NewString(), "t3", "other.csv", history.ResultSuccess)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	attempts, err := store.ByFile(ctx, "bank.csv")
	if err != nil {
		t.Fatalf("ByFile failed: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts for bank.csv, got %d", len(attempts))
	}
	if attempts[0].RunToken != "t2" {
		t.Fatalf("expected newest first, got token %q", attempts[0].RunToken)
	}
}

func TestRecordValidation(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, history.Attempt{FileName: "x.csv"}); err == nil {
		t.Fatal("expected error for missing identifiers")
	}
	attempt := sampleAttempt(uuid.NewString(), "tok", "x.csv", "")
	if _, err := store.Record(ctx, attempt); err == nil {
		t.Fatal("expected error for missing result")
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := store.Record(context.Background(), sampleAttempt(uuid.NewString(), "tok", "a.csv", history.ResultSuccess)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	recent, err := reopened.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected persisted attempt after reopen, got %d", len(recent))
	}
}
