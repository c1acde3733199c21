package engine_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sweeper/internal/config"
	"sweeper/internal/engine"
)

type fakeExecutor struct {
	status  int
	err     error
	lastCmd engine.Command
}

func (f *fakeExecutor) Run(_ context.Context, cmd engine.Command) (int, error) {
	f.lastCmd = cmd
	return f.status, f.err
}

func testEngineConfig(t *testing.T) config.Engine {
	t.Helper()
	return config.Engine{
		Interpreter: "python3",
		Script:      "/opt/engine/process_csv.py",
		Root:        "/opt/engine",
	}
}

func TestInvokePassesPositionalArguments(t *testing.T) {
	fake := &fakeExecutor{status: 0}
	inv, err := engine.New(testEngineConfig(t), engine.WithExecutor(fake))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "attempt.log")
	status, err := inv.Invoke(context.Background(), "/data/incoming/bank.csv", "20260301-120000", logPath)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if status != 0 {
		t.Fatalf("unexpected status: %d", status)
	}

	want := []string{"/opt/engine/process_csv.py", "/data/incoming/bank.csv", "20260301-120000", logPath}
	if len(fake.lastCmd.Args) != len(want) {
		t.Fatalf("unexpected args: %v", fake.lastCmd.Args)
	}
	for i := range want {
		if fake.lastCmd.Args[i] != want[i] {
			t.Fatalf("arg %d: got %q want %q", i, fake.lastCmd.Args[i], want[i])
		}
	}
	if fake.lastCmd.Dir != "/opt/engine" {
		t.Fatalf("unexpected working dir: %q", fake.lastCmd.Dir)
	}

	var pythonPath string
	for _, kv := range fake.lastCmd.Env {
		if strings.HasPrefix(kv, "PYTHONPATH=") {
			pythonPath = kv
		}
	}
	if pythonPath != "PYTHONPATH=/opt/engine" {
		t.Fatalf("engine root not exported: %q", pythonPath)
	}
}

func TestInvokeReturnsNonzeroStatusWithoutError(t *testing.T) {
	fake := &fakeExecutor{status: 100}
	inv, err := engine.New(testEngineConfig(t), engine.WithExecutor(fake))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	status, err := inv.Invoke(context.Background(), "/in/a.csv", "tok", filepath.Join(t.TempDir(), "a.log"))
	if err != nil {
		t.Fatalf("nonzero exit must not be an error: %v", err)
	}
	if status != 100 {
		t.Fatalf("unexpected status: %d", status)
	}
}

func TestNewRequiresScript(t *testing.T) {
	if _, err := engine.New(config.Engine{Interpreter: "python3"}); err == nil {
		t.Fatal("expected error when script missing")
	}
}

func TestInvokeRealSubprocess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "engine.sh")
	// Stub engine: records its argv into the provided log and exits 1.
	stub := "#!/bin/sh\necho \"args: $1 $2\" >> \"$3\"\nexit 1\n"
	if err := os.WriteFile(script, []byte(stub), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	inv, err := engine.New(config.Engine{
		Interpreter: "/bin/sh",
		Script:      script,
		Root:        dir,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logPath := filepath.Join(dir, "attempt.log")
	status, err := inv.Invoke(context.Background(), "/in/bank.csv", "20260301-120000", logPath)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if status != 1 {
		t.Fatalf("unexpected status: %d", status)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "args: /in/bank.csv 20260301-120000") {
		t.Fatalf("engine did not receive its arguments: %q", data)
	}
}

func TestInvokeTimeout(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "engine.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	inv, err := engine.New(config.Engine{
		Interpreter:    "/bin/sh",
		Script:         script,
		Root:           dir,
		TimeoutSeconds: 1,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = inv.Invoke(context.Background(), "/in/slow.csv", "tok", filepath.Join(dir, "slow.log"))
	if !errors.Is(err, engine.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
