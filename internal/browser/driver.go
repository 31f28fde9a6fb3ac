package browser

import "time"

// Launcher starts browser sessions
type Launcher interface {
	// NewSession creates an isolated session. A non-empty statePath restores
	// cookies and storage saved by Session.SaveState; reading or applying
	// it fails the call.
	NewSession(statePath string) (Session, error)
	Close() error
}

// Session is one browser context with its own cookies and storage
type Session interface {
	NewPage() (Page, error)
	// SaveState writes the session's cookies and storage to path,
	// replacing any previous file
	SaveState(path string) error
	Close() error
}

// Page drives a single tab. Every call blocks until the driver reports the
// action done or its timeout expires.
type Page interface {
	Goto(url string) error
	Click(t Target) error
	// ClickAndWaitNavigation clicks t and returns once the navigation it
	// started has finished
	ClickAndWaitNavigation(t Target) error
	Fill(t Target, value string) error
	Text(t Target) (string, error)
	// Count reports how many elements match t's selector, ignoring Index
	Count(t Target) (int, error)
	// Upload clicks t, expects a file chooser to open and hands it path
	Upload(t Target, path string) error
	// Export clicks t expecting both a popup and a download. The download
	// is saved to dest and the popup closed before returning.
	Export(t Target, dest string) error
	Wait(d time.Duration)
	Close() error
}
