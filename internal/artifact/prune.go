package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Prune removes generated diagram files older than the retention window and
// returns how many were deleted. Only files with the generated name prefix
// are considered; anything else in the directory is left alone.
func Prune(dir string, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)

	deleted := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "diagram_") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}
