package testutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/snonux/subtrans/internal/browser"
)

// FakeLauncher is an in-memory browser.Launcher. Every page action is
// appended to Page.Actions so tests can assert the exact sequence.
type FakeLauncher struct {
	// StateErr is returned by NewSession when a state path is given
	StateErr error
	// SaveErr is returned by SaveState
	SaveErr error
	Page    *FakePage

	// StatePaths lists the statePath of every NewSession call
	StatePaths []string
	// Saved lists the paths state was written to
	Saved  []string
	Closed bool
}

// NewFakeLauncher creates a launcher handing out a single fresh FakePage
func NewFakeLauncher() *FakeLauncher {
	return &FakeLauncher{Page: NewFakePage()}
}

// NewSession implements browser.Launcher
func (l *FakeLauncher) NewSession(statePath string) (browser.Session, error) {
	l.StatePaths = append(l.StatePaths, statePath)
	if statePath != "" && l.StateErr != nil {
		return nil, l.StateErr
	}
	return &fakeSession{launcher: l}, nil
}

// Close implements browser.Launcher
func (l *FakeLauncher) Close() error {
	l.Closed = true
	return nil
}

type fakeSession struct {
	launcher *FakeLauncher
}

func (s *fakeSession) NewPage() (browser.Page, error) {
	return s.launcher.Page, nil
}

func (s *fakeSession) SaveState(path string) error {
	if s.launcher.SaveErr != nil {
		return s.launcher.SaveErr
	}
	s.launcher.Saved = append(s.launcher.Saved, path)
	return os.WriteFile(path, []byte(`{"cookies":[],"origins":[]}`), 0600)
}

func (s *fakeSession) Close() error {
	return nil
}

// FakePage records actions instead of driving a browser
type FakePage struct {
	Actions []string
	// Texts answers Text calls by target name
	Texts map[string]string
	// Counts answers Count calls by target name; each call consumes one
	// value and the last one repeats
	Counts map[string][]int
	// Errors fails the action whose recorded string starts with the key
	Errors map[string]error
	// ExportData is written to the destination of every Export
	ExportData []byte
	// Waited sums every fixed wait
	Waited time.Duration
	Closed bool
}

// NewFakePage creates an empty FakePage
func NewFakePage() *FakePage {
	return &FakePage{
		Texts:      map[string]string{},
		Counts:     map[string][]int{},
		Errors:     map[string]error{},
		ExportData: []byte("translated"),
	}
}

func (p *FakePage) record(action string) error {
	p.Actions = append(p.Actions, action)
	for prefix, err := range p.Errors {
		if strings.HasPrefix(action, prefix) {
			return err
		}
	}
	return nil
}

// Goto implements browser.Page
func (p *FakePage) Goto(url string) error {
	return p.record("goto " + url)
}

// Click implements browser.Page
func (p *FakePage) Click(t browser.Target) error {
	return p.record("click " + t.Name)
}

// ClickAndWaitNavigation implements browser.Page
func (p *FakePage) ClickAndWaitNavigation(t browser.Target) error {
	return p.record("navigate " + t.Name)
}

// Fill implements browser.Page
func (p *FakePage) Fill(t browser.Target, value string) error {
	return p.record(fmt.Sprintf("fill %s=%s", t.Name, value))
}

// Text implements browser.Page
func (p *FakePage) Text(t browser.Target) (string, error) {
	if err := p.record("text " + t.Name); err != nil {
		return "", err
	}
	return p.Texts[t.Name], nil
}

// Count implements browser.Page
func (p *FakePage) Count(t browser.Target) (int, error) {
	if err := p.record("count " + t.Name); err != nil {
		return 0, err
	}
	values := p.Counts[t.Name]
	switch len(values) {
	case 0:
		return 0, nil
	case 1:
		return values[0], nil
	}
	p.Counts[t.Name] = values[1:]
	return values[0], nil
}

// Upload implements browser.Page
func (p *FakePage) Upload(t browser.Target, path string) error {
	return p.record(fmt.Sprintf("upload %s %s", t.Name, path))
}

// Export implements browser.Page
func (p *FakePage) Export(t browser.Target, dest string) error {
	if err := p.record("export " + t.Name); err != nil {
		return err
	}
	return os.WriteFile(dest, p.ExportData, 0644)
}

// Wait implements browser.Page
func (p *FakePage) Wait(d time.Duration) {
	p.Waited += d
	p.Actions = append(p.Actions, "wait "+d.String())
}

// Close implements browser.Page
func (p *FakePage) Close() error {
	p.Closed = true
	return nil
}

// ActionsWithPrefix filters the recorded actions
func (p *FakePage) ActionsWithPrefix(prefix string) []string {
	var out []string
	for _, a := range p.Actions {
		if strings.HasPrefix(a, prefix) {
			out = append(out, a)
		}
	}
	return out
}
