package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteStubEngine writes a shell script honoring the engine's argument
// contract (input path, run token, log path) that appends a marker line to
// the attempt log and exits with the given code. It returns the script path;
// run it with interpreter /bin/sh.
func WriteStubEngine(t testing.TB, dir string, exitCode int) string {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\necho \"stub engine: file=$1 token=$2\" >> \"$3\"\nexit %d\n", exitCode)
	return writeScript(t, dir, "engine.sh", script)
}

// WriteConsumingStubEngine writes a stub engine that deletes its input file
// before exiting, mimicking an engine that performed its own disposition.
func WriteConsumingStubEngine(t testing.TB, dir string, exitCode int) string {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\necho \"stub engine consumed $1\" >> \"$3\"\nrm -f \"$1\"\nexit %d\n", exitCode)
	return writeScript(t, dir, "consuming_engine.sh", script)
}

func writeScript(t testing.TB, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}
