package history

import "time"

// Result names the recorded end state of one attempt. Terminal engine
// outcomes reuse the outcome package's strings; the extra values cover
// attempts that never reached the engine.
const (
	ResultSuccess      = "success"
	ResultSoftSkip     = "soft-skip"
	ResultCrash        = "crash"
	ResultCrashUnknown = "crash-unknown"
	ResultUnstable     = "unstable"
	ResultVanished     = "vanished"
	ResultError        = "error"
)

// Attempt is one processed (or skipped) candidate file within a pass.
type Attempt struct {
	ID             int64
	SessionID      string
	RunToken       string
	FileName       string
	Result         string
	ExitStatus     *int
	LogPath        string
	QuarantinePath string
	Detail         string
	StartedAt      time.Time
	FinishedAt     time.Time
}
