package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// download opens the newest project, exports its translation to dest and
// returns to the project list. The export lands in a temporary sibling
// first and replaces dest only once it is complete.
func (p *Processor) download(ctx context.Context, dest string) error {
	proj := p.site.Project

	if err := p.page.ClickAndWaitNavigation(proj.FirstCard); err != nil {
		return err
	}
	if err := p.settle(ctx, "project to open", AfterOpenDelay, p.present(proj.Title)); err != nil {
		return err
	}

	title, err := p.page.Text(proj.Title)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, title)

	if err := p.page.Click(proj.Export); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	part := partPath(dest)
	if err := p.page.Export(proj.Confirm, part); err != nil {
		_ = os.Remove(part)
		return err
	}
	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	p.logger.Debug("translation saved", "path", dest, "title", title)

	return p.page.Click(proj.Back)
}

// partPath names a hidden temporary file next to dest
func partPath(dest string) string {
	dir, name := filepath.Split(dest)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", name, uuid.NewString()))
}
