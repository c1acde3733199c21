// Package scanner enumerates candidate CSV files awaiting ingestion.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Candidate is one input file observed in the incoming directory.
type Candidate struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Scan lists the *.csv files directly inside dir in lexical name order.
// Subdirectories are not descended; a missing incoming directory yields an
// empty set rather than an error so a fresh installation's first pass is a
// clean no-op.
func Scan(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read incoming directory: %w", err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Disappeared between ReadDir and Stat; it will be seen next pass
			// if it comes back.
			continue
		}
		candidates = append(candidates, Candidate{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Name < candidates[j].Name
	})
	return candidates, nil
}
