package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteIncoming drops a candidate CSV into the config's incoming directory
// and returns its path.
func WriteIncoming(t testing.TB, incomingDir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(incomingDir, 0o755); err != nil {
		t.Fatalf("mkdir incoming: %v", err)
	}
	path := filepath.Join(incomingDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
