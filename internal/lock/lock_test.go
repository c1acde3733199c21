package lock_test

import (
	"os"
	"path/filepath"
	"testing"

	"sweeper/internal/lock"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.lock")
	guard := lock.New(path)

	ok, err := guard.Acquire()
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !ok {
		t.Fatal("expected to acquire fresh lock")
	}
	if !guard.Held() {
		t.Fatal("guard should report held")
	}

	guard.Release()
	if guard.Held() {
		t.Fatal("guard should not report held after release")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("marker file should be removed on release")
	}
}

func TestSecondGuardDoesNotBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.lock")
	first := lock.New(path)
	second := lock.New(path)

	ok, err := first.Acquire()
	if err != nil || !ok {
		t.Fatalf("first Acquire: ok=%v err=%v", ok, err)
	}
	defer first.Release()

	ok, err = second.Acquire()
	if err != nil {
		t.Fatalf("second Acquire errored: %v", err)
	}
	if ok {
		t.Fatal("second guard must not acquire a held lock")
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.lock")
	first := lock.New(path)
	second := lock.New(path)

	if ok, err := first.Acquire(); err != nil || !ok {
		t.Fatalf("first Acquire: ok=%v err=%v", ok, err)
	}
	first.Release()

	ok, err := second.Acquire()
	if err != nil {
		t.Fatalf("second Acquire errored: %v", err)
	}
	if !ok {
		t.Fatal("released lock should be acquirable")
	}
	second.Release()
}

func TestReleaseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.lock")
	guard := lock.New(path)

	if ok, err := guard.Acquire(); err != nil || !ok {
		t.Fatalf("Acquire: ok=%v err=%v", ok, err)
	}
	guard.Release()
	guard.Release()
	guard.Release()

	other := lock.New(path)
	if ok, err := other.Acquire(); err != nil || !ok {
		t.Fatalf("lock should be free after repeated release: ok=%v err=%v", ok, err)
	}
	other.Release()
}

func TestAcquireIdempotentWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeper.lock")
	guard := lock.New(path)

	if ok, err := guard.Acquire(); err != nil || !ok {
		t.Fatalf("Acquire: ok=%v err=%v", ok, err)
	}
	ok, err := guard.Acquire()
	if err != nil {
		t.Fatalf("re-Acquire errored: %v", err)
	}
	if !ok {
		t.Fatal("holder should see Acquire succeed")
	}
	guard.Release()
}
