package cli

import (
	"time"

	"codeberg.org/snonux/subtrans/internal/discover"
	"codeberg.org/snonux/subtrans/internal/session"
	"codeberg.org/snonux/subtrans/internal/site"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string
	Verbose bool

	// Browser flags
	StatePath string
	URL       string
	Headless  bool
	Timeout   time.Duration
	Install   bool

	// File flags
	Ext       string
	OutputDir string
	Backup    bool

	// Journal flags
	JournalPath string
	Force       bool

	// Pacing flags
	Poll        bool
	PollTimeout time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		StatePath:   session.DefaultStatePath,
		URL:         site.DefaultURL,
		Timeout:     30 * time.Second,
		Ext:         discover.DefaultExt,
		PollTimeout: 30 * time.Second,
	}
}
