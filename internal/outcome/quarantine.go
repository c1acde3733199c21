package outcome

import (
	"fmt"
	"path/filepath"

	"sweeper/internal/fileutil"
)

// QuarantineName returns the token-embedded filename used for quarantined
// originals.
func QuarantineName(token, fileName string) string {
	return fmt.Sprintf("%s-%s-failed.csv", token, fileName)
}

// Quarantine relocates the original input into quarantineDir under its
// token-embedded name. The file's existence is re-checked first: the engine
// may have moved or deleted it even on a crash status, and a missing original
// is a logged skip, never an error. The returned bool reports whether a move
// actually happened.
func Quarantine(path, fileName, token, quarantineDir string) (bool, string, error) {
	dest := filepath.Join(quarantineDir, QuarantineName(token, fileName))
	if !fileutil.Exists(path) {
		return false, dest, nil
	}
	if err := fileutil.MoveFile(path, dest); err != nil {
		return false, dest, fmt.Errorf("quarantine %q: %w", fileName, err)
	}
	return true, dest, nil
}
