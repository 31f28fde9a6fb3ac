package journal

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS translations (
	path TEXT PRIMARY KEY,
	size INTEGER NOT NULL,
	sha256 TEXT NOT NULL,
	finished_at TEXT NOT NULL
)`

// Journal is a sqlite-backed record of finished files. A nil *Journal is
// valid and remembers nothing.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Done reports whether the translation written to path was recorded and
// path still holds exactly that content. A missing or changed file is not
// done.
func (j *Journal) Done(path string) (bool, error) {
	if j == nil {
		return false, nil
	}

	key, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	var size int64
	var sum string
	err = j.db.QueryRow(`SELECT size, sha256 FROM translations WHERE path = ?`, key).Scan(&size, &sum)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query journal: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() != size {
		return false, nil
	}
	current, err := fileSum(path)
	if err != nil {
		return false, err
	}
	return current == sum, nil
}

// Record stores the size and checksum of the translation at path
func (j *Journal) Record(path string) error {
	if j == nil {
		return nil
	}

	key, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	sum, err := fileSum(path)
	if err != nil {
		return err
	}

	_, err = j.db.Exec(
		`INSERT INTO translations (path, size, sha256, finished_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET size = excluded.size, sha256 = excluded.sha256, finished_at = excluded.finished_at`,
		key, info.Size(), sum, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", path, err)
	}
	return nil
}

func fileSum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Count returns the number of recorded files
func (j *Journal) Count() (int, error) {
	if j == nil {
		return 0, nil
	}

	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

// Close closes the database
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
