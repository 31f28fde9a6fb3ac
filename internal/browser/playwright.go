package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/playwright-community/playwright-go"
)

// Config controls how the Chromium instance is started
type Config struct {
	Headless bool
	// Timeout is the default wait for every driver action
	Timeout time.Duration
	// Install downloads the driver and Chromium before starting
	Install bool
}

// Playwright is a Launcher backed by playwright-go and Chromium
type Playwright struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	timeout time.Duration
	logger  hclog.Logger
}

// NewPlaywright starts the playwright driver and launches Chromium
func NewPlaywright(cfg Config, logger hclog.Logger) (*Playwright, error) {
	if cfg.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Debug("browser launched", "headless", cfg.Headless, "version", b.Version())
	return &Playwright{pw: pw, browser: b, timeout: cfg.Timeout, logger: logger}, nil
}

// NewSession implements Launcher
func (p *Playwright) NewSession(statePath string) (Session, error) {
	opts := playwright.BrowserNewContextOptions{}
	if statePath != "" {
		opts.StorageStatePath = playwright.String(statePath)
	}

	bctx, err := p.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if p.timeout > 0 {
		bctx.SetDefaultTimeout(float64(p.timeout.Milliseconds()))
	}

	return &pwSession{ctx: bctx, logger: p.logger}, nil
}

// Close shuts down Chromium and the driver process
func (p *Playwright) Close() error {
	var errs []error
	if err := p.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := p.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type pwSession struct {
	ctx    playwright.BrowserContext
	logger hclog.Logger
}

func (s *pwSession) NewPage() (Page, error) {
	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	return &pwPage{page: page, logger: s.logger}, nil
}

func (s *pwSession) SaveState(path string) error {
	if _, err := s.ctx.StorageState(path); err != nil {
		return fmt.Errorf("failed to save storage state to %s: %w", path, err)
	}
	return nil
}

func (s *pwSession) Close() error {
	return s.ctx.Close()
}

type pwPage struct {
	page   playwright.Page
	logger hclog.Logger
}

// locate resolves a Target to a playwright locator
func (p *pwPage) locate(t Target) playwright.Locator {
	var loc playwright.Locator
	if t.Frame != "" {
		loc = p.page.FrameLocator(t.Frame).First().Locator(t.Selector)
	} else {
		loc = p.page.Locator(t.Selector)
	}
	if t.Index != Only {
		loc = loc.Nth(t.Index)
	}
	return loc
}

// explain turns a timeout on an ordinal target that has too few matches
// into ErrNoMatch
func (p *pwPage) explain(t Target, action string, err error) error {
	if err == nil {
		return nil
	}
	if t.Index != Only && errors.Is(err, playwright.ErrTimeout) {
		if n, cerr := p.Count(t); cerr == nil && n < t.Ordinal() {
			return fmt.Errorf("%s %s: %d match(es): %w", action, t, n, ErrNoMatch)
		}
	}
	return fmt.Errorf("%s %s: %w", action, t, err)
}

func (p *pwPage) Goto(url string) error {
	p.logger.Debug("goto", "url", url)
	if _, err := p.page.Goto(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func (p *pwPage) Click(t Target) error {
	p.logger.Debug("click", "target", t.Name)
	return p.explain(t, "click", p.locate(t).Click())
}

func (p *pwPage) ClickAndWaitNavigation(t Target) error {
	p.logger.Debug("click and wait for navigation", "target", t.Name)
	_, err := p.page.ExpectNavigation(func() error {
		return p.locate(t).Click()
	})
	return p.explain(t, "navigate via", err)
}

func (p *pwPage) Fill(t Target, value string) error {
	p.logger.Debug("fill", "target", t.Name)
	return p.explain(t, "fill", p.locate(t).Fill(value))
}

func (p *pwPage) Text(t Target) (string, error) {
	text, err := p.locate(t).InnerText()
	if err != nil {
		return "", p.explain(t, "read", err)
	}
	return text, nil
}

func (p *pwPage) Count(t Target) (int, error) {
	whole := t
	whole.Index = Only
	n, err := p.locate(whole).Count()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t, err)
	}
	return n, nil
}

func (p *pwPage) Upload(t Target, path string) error {
	p.logger.Debug("upload", "target", t.Name, "path", path)
	chooser, err := p.page.ExpectFileChooser(func() error {
		return p.locate(t).Click()
	})
	if err != nil {
		return p.explain(t, "open file chooser via", err)
	}
	if err := chooser.SetFiles([]string{path}); err != nil {
		return fmt.Errorf("failed to choose %s: %w", path, err)
	}
	return nil
}

func (p *pwPage) Export(t Target, dest string) error {
	p.logger.Debug("export", "target", t.Name, "dest", dest)

	var popup playwright.Page
	download, err := p.page.ExpectDownload(func() error {
		var perr error
		popup, perr = p.page.ExpectPopup(func() error {
			return p.locate(t).Click()
		})
		return perr
	})
	if err != nil {
		return p.explain(t, "export via", err)
	}

	if err := download.SaveAs(dest); err != nil {
		return fmt.Errorf("failed to save download to %s: %w", dest, err)
	}
	if popup != nil {
		if err := popup.Close(); err != nil {
			return fmt.Errorf("failed to close export popup: %w", err)
		}
	}
	return nil
}

func (p *pwPage) Wait(d time.Duration) {
	p.page.WaitForTimeout(float64(d.Milliseconds()))
}

func (p *pwPage) Close() error {
	return p.page.Close()
}
