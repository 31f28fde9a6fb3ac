package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/subtrans/internal"
)

// Backup keeps copies of original subtitles before they are overwritten
// by their translations. Each run gets its own timestamped directory.
type Backup struct {
	root string
	dir  string
}

// NewBackup prepares a run directory below baseDir for files under root
func NewBackup(baseDir, root string) (*Backup, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	// Generate timestamp
	now := time.Now()
	runDir := filepath.Join(baseDir, fmt.Sprintf("run-%s", internal.RunStamp(now, false)))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(runDir); err == nil {
		runDir = filepath.Join(baseDir, fmt.Sprintf("run-%s", internal.RunStamp(now, true)))
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &Backup{root: absRoot, dir: runDir}, nil
}

// Dir returns the run directory
func (b *Backup) Dir() string {
	return b.dir
}

// Save copies path to the same relative location inside the run directory
// and returns the copy's path
func (b *Backup) Save(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(b.root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to place %s in backup: %w", path, err)
	}

	dest := filepath.Join(b.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(abs, dest); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return dest, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
