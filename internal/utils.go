package internal

import (
	"path/filepath"
	"time"
)

// Version is the current subtrans release
const Version = "0.3.0"

// RunStamp creates a timestamp used to name per-run directories
// Format: YYYYMMDD-HHMMSS, or with microseconds when precise is set
func RunStamp(now time.Time, precise bool) string {
	if precise {
		return now.Format("20060102-150405.000000")
	}
	return now.Format("20060102-150405")
}

// StateDir returns the XDG-style state directory used for the journal and backups
func StateDir(home string) string {
	return filepath.Join(home, ".local", "state", "subtrans")
}
