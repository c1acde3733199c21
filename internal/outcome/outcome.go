package outcome

// Outcome is the classification of one engine invocation, derived solely from
// the exit status. Exactly one terminal outcome is produced per attempt.
type Outcome int

const (
	// Success means the engine fully handled the file, including its own
	// move/archive/delete. The orchestrator takes no filesystem action.
	Success Outcome = iota
	// SoftSkip is a deliberate non-error decision by the engine, again with
	// the engine owning any file disposition.
	SoftSkip
	// Crash is the engine's declared failure status: it stopped before its
	// internal cleanup ran, so the orchestrator quarantines the input.
	Crash
	// CrashUnknown covers every unrecognized status. Treated like Crash so a
	// misbehaving engine can never silently drop a file; only the log wording
	// differs.
	CrashUnknown
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SoftSkip:
		return "soft-skip"
	case Crash:
		return "crash"
	case CrashUnknown:
		return "crash-unknown"
	default:
		return "invalid"
	}
}

// Quarantines reports whether the outcome requires moving the input file.
func (o Outcome) Quarantines() bool {
	return o == Crash || o == CrashUnknown
}

// crashStatus is the engine's declared crashed-before-cleanup exit status.
const crashStatus = 1

// Table maps raw exit statuses to outcomes. Adding a new soft status is a
// configuration edit, not a code change.
type Table struct {
	soft map[int]struct{}
}

// NewTable builds a classification table from the configured soft exit codes.
func NewTable(softCodes []int) Table {
	soft := make(map[int]struct{}, len(softCodes))
	for _, code := range softCodes {
		if code != 0 {
			soft[code] = struct{}{}
		}
	}
	return Table{soft: soft}
}

// Classify resolves one exit status to its outcome.
func (t Table) Classify(status int) Outcome {
	switch {
	case status == 0:
		return Success
	case status == crashStatus:
		return Crash
	default:
		if _, ok := t.soft[status]; ok {
			return SoftSkip
		}
		return CrashUnknown
	}
}
