package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TokenFormat is the run-token layout: sortable, second resolution. Two
// attempts on the same filename within the same second share a token and
// therefore a log file; accepted as best effort since passes are serialized
// by the instance lock.
const TokenFormat = "20060102-150405"

// NewToken derives a run token from the given wall-clock time.
func NewToken(t time.Time) string {
	return t.Format(TokenFormat)
}

// Run binds one processing attempt to its token and audit log.
type Run struct {
	Token    string
	FileName string
	LogPath  string
}

// Start allocates a token for fileName and creates the attempt log in logDir
// before any processing decision, so even a skip leaves a trace. The log is
// opened append-only and is never truncated by the orchestrator.
func Start(logDir, fileName string, now time.Time) (Run, error) {
	token := NewToken(now)
	run := Run{
		Token:    token,
		FileName: fileName,
		LogPath:  filepath.Join(logDir, fmt.Sprintf("%s-%s.log", token, fileName)),
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return Run{}, fmt.Errorf("create log directory: %w", err)
	}
	if err := run.Append(fmt.Sprintf("Run %s started for %s", token, fileName)); err != nil {
		return Run{}, err
	}
	return run, nil
}

// Append writes one timestamped line to the attempt log. Each append opens
// the file fresh so a crashed pass never holds the log hostage.
func (r Run) Append(message string) error {
	f, err := os.OpenFile(r.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s %s\n", time.Now().Format("2006-01-02 15:04:05"), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	return f.Close()
}

// Appendf is Append with fmt.Sprintf formatting.
func (r Run) Appendf(format string, args ...any) error {
	return r.Append(fmt.Sprintf(format, args...))
}
