package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"codeberg.org/snonux/subtrans/internal/archive"
	"codeberg.org/snonux/subtrans/internal/browser"
	"codeberg.org/snonux/subtrans/internal/cli"
	"codeberg.org/snonux/subtrans/internal/discover"
	"codeberg.org/snonux/subtrans/internal/journal"
	"codeberg.org/snonux/subtrans/internal/poll"
	"codeberg.org/snonux/subtrans/internal/site"
)

// Fixed settle delays, used unless polling is enabled
const (
	AfterUploadDelay   = 2 * time.Second
	AfterOpenDelay     = 2 * time.Second
	BeforeConfirmDelay = 2 * time.Second
	AfterDeleteDelay   = 1 * time.Second
)

// Stats counts what a folder run did
type Stats struct {
	Discovered int
	Processed  int
	Skipped    int
}

// Processor runs the per-file workflow on one logged-in page
type Processor struct {
	flags   *cli.Flags
	site    site.Site
	page    browser.Page
	journal *journal.Journal
	backup  *archive.Backup
	out     io.Writer
	logger  hclog.Logger
	stats   Stats
}

// NewProcessor creates a processor driving page
func NewProcessor(flags *cli.Flags, s site.Site, page browser.Page, logger hclog.Logger) *Processor {
	return &Processor{
		flags:  flags,
		site:   s,
		page:   page,
		out:    os.Stdout,
		logger: logger,
	}
}

// SetJournal enables skipping files translated by an earlier run
func (p *Processor) SetJournal(j *journal.Journal) {
	p.journal = j
}

// SetBackup enables copying originals before they are overwritten
func (p *Processor) SetBackup(b *archive.Backup) {
	p.backup = b
}

// SetOutput redirects progress messages
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// Stats returns the counters of the last ProcessFolder call
func (p *Processor) Stats() Stats {
	return p.stats
}

// ProcessFolder translates every matching file below root. Files are taken
// as discovery finds them; the first error ends the run and is returned.
func (p *Processor) ProcessFolder(ctx context.Context, root string) error {
	p.stats = Stats{}

	for path, err := range discover.Files(root, p.flags.Ext) {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		p.stats.Discovered++

		dest, err := p.destination(root, path)
		if err != nil {
			return err
		}

		// The journal knows translations by where they were written
		if !p.flags.Force {
			done, err := p.journal.Done(dest)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(p.out, "  ✓ Skipping %s - already translated\n", path)
				p.stats.Skipped++
				continue
			}
		}

		if p.backup != nil && dest == path {
			saved, err := p.backup.Save(path)
			if err != nil {
				return err
			}
			p.logger.Debug("original backed up", "path", path, "backup", saved)
		}

		fmt.Fprintf(p.out, "\nProcessing %d: %s\n", p.stats.Discovered, path)
		if err := p.ProcessFile(ctx, path, dest); err != nil {
			return fmt.Errorf("failed to process %s: %w", path, err)
		}

		if err := p.journal.Record(dest); err != nil {
			return err
		}
		p.stats.Processed++
	}

	p.printSummary()
	return nil
}

// destination is where the translation of path is written: path itself, or
// its mirror below the output directory
func (p *Processor) destination(root, path string) (string, error) {
	if p.flags.OutputDir == "" {
		return path, nil
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to map %s to output directory: %w", path, err)
	}
	return filepath.Join(p.flags.OutputDir, rel), nil
}

// ProcessFile runs one file through the service: create project, upload,
// submit, download to dest, delete project. Steps are not verified beyond
// the driver's own errors.
func (p *Processor) ProcessFile(ctx context.Context, path, dest string) error {
	proj := p.site.Project

	// Create project
	if err := p.page.Click(proj.New); err != nil {
		return err
	}
	if err := p.page.Click(proj.Subtitle); err != nil {
		return err
	}

	// Upload
	if err := p.page.Upload(proj.AddFile, path); err != nil {
		return err
	}

	// Wait + submit
	if err := p.settle(ctx, "upload to register", AfterUploadDelay, p.present(proj.Submit)); err != nil {
		return err
	}
	if err := p.page.Click(proj.Submit); err != nil {
		return err
	}

	if err := p.download(ctx, dest); err != nil {
		return err
	}

	return p.deleteProject(ctx)
}

// deleteProject removes the project that was just downloaded
func (p *Processor) deleteProject(ctx context.Context) error {
	proj := p.site.Project

	if err := p.page.Click(proj.Timestamp); err != nil {
		return err
	}
	if err := p.page.Click(proj.Remove); err != nil {
		return err
	}
	if err := p.settle(ctx, "delete dialog", BeforeConfirmDelay, p.present(proj.RemoveConfirm)); err != nil {
		return err
	}
	if err := p.page.Click(proj.RemoveConfirm); err != nil {
		return err
	}
	if err := p.settle(ctx, "delete dialog to close", AfterDeleteDelay, p.gone(proj.RemoveConfirm)); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "delete item complete")
	return nil
}

// settle pauses for delay, or with polling enabled waits until ready holds
func (p *Processor) settle(ctx context.Context, what string, delay time.Duration, ready poll.Condition) error {
	if !p.flags.Poll {
		p.page.Wait(delay)
		return nil
	}
	p.logger.Debug("waiting", "for", what)
	return poll.Until(ctx, what, poll.DefaultInterval, p.flags.PollTimeout, ready)
}

// present holds once t's ordinal position exists on the page
func (p *Processor) present(t browser.Target) poll.Condition {
	return func(context.Context) (bool, error) {
		n, err := p.page.Count(t)
		return n >= t.Ordinal(), err
	}
}

// gone holds once nothing matches t
func (p *Processor) gone(t browser.Target) poll.Condition {
	return func(context.Context) (bool, error) {
		n, err := p.page.Count(t)
		return n == 0, err
	}
}

func (p *Processor) printSummary() {
	fmt.Fprintf(p.out, "\n=== Translation Summary ===\n")
	fmt.Fprintf(p.out, "Subtitle files: %d\n", p.stats.Discovered)
	fmt.Fprintf(p.out, "Translated: %d\n", p.stats.Processed)
	if p.stats.Skipped > 0 {
		fmt.Fprintf(p.out, "Skipped (already translated): %d\n", p.stats.Skipped)
	}
	fmt.Fprintf(p.out, "===========================\n")
}
