package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Guard enforces single-instance execution through a filesystem marker. A
// second Acquire against the same path returns false immediately without
// blocking. The kernel drops the flock when the holding process dies, so a
// crashed pass never wedges the next one even though the marker file may
// linger until the next clean Release.
type Guard struct {
	path string

	mu   sync.Mutex
	lock *flock.Flock
	held bool
}

// New constructs a guard for the given marker path.
func New(path string) *Guard {
	return &Guard{path: path, lock: flock.New(path)}
}

// Acquire attempts to take the lock without blocking. It returns false when
// another instance already holds it; that is a normal outcome, not an error.
func (g *Guard) Acquire() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return true, nil
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return false, fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := g.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	g.held = ok
	return ok, nil
}

// Release drops the lock and removes the marker file. It is idempotent and
// safe to call from deferred cleanup on every exit path.
func (g *Guard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.held {
		return
	}
	_ = g.lock.Unlock()
	_ = os.Remove(g.path)
	g.held = false
}

// Held reports whether this guard currently owns the lock.
func (g *Guard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}

// Path returns the marker file location.
func (g *Guard) Path() string {
	return g.path
}
