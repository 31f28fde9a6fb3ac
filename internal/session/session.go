package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"codeberg.org/snonux/subtrans/internal/browser"
	"codeberg.org/snonux/subtrans/internal/prompt"
	"codeberg.org/snonux/subtrans/internal/site"
)

// DefaultStatePath is where the session is kept between runs
const DefaultStatePath = "youdao.json"

// MissingStateNotice is printed when the saved session cannot be used
const MissingStateNotice = "未发现登录cookie，请先登录"

// Config holds what Establish needs besides the browser
type Config struct {
	Site      site.Site
	StatePath string
	// Username and Password skip the credential prompt when both are set
	Username string
	Password string
}

// Handle is an open, logged-in tab and the session it belongs to
type Handle struct {
	Session browser.Session
	Page    browser.Page
	// LoggedIn is true when the saved state was unusable and the
	// interactive login ran
	LoggedIn bool
}

// Establish opens the service in a session restored from cfg.StatePath. If
// that fails for any reason it prints MissingStateNotice to out, starts a
// fresh session and logs in. A failed login is not detected here.
func Establish(launcher browser.Launcher, cfg Config, p prompt.Prompter, out io.Writer, logger hclog.Logger) (*Handle, error) {
	h := &Handle{}

	sess, err := restore(launcher, cfg.StatePath)
	if err != nil {
		logger.Debug("saved session unusable", "path", cfg.StatePath, "error", err)
		fmt.Fprintln(out, MissingStateNotice)

		sess, err = launcher.NewSession("")
		if err != nil {
			return nil, err
		}
		h.LoggedIn = true
	}
	h.Session = sess

	page, err := sess.NewPage()
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	h.Page = page

	if err := page.Goto(cfg.Site.URL); err != nil {
		_ = h.close()
		return nil, err
	}

	if h.LoggedIn {
		if err := Login(page, cfg, p); err != nil {
			_ = h.close()
			return nil, err
		}
		logger.Info("logged in", "url", cfg.Site.URL)
	}

	return h, nil
}

func restore(launcher browser.Launcher, statePath string) (browser.Session, error) {
	if statePath == "" {
		return nil, errors.New("no state file configured")
	}
	return launcher.NewSession(statePath)
}

// Login fills the embedded login form and waits for the page it leads to
func Login(page browser.Page, cfg Config, p prompt.Prompter) error {
	username, password := cfg.Username, cfg.Password
	if username == "" || password == "" {
		var err error
		username, password, err = prompt.Credentials(p)
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
	}

	form := cfg.Site.Login
	if err := page.Fill(form.Email, username); err != nil {
		return err
	}
	if err := page.Fill(form.Password, password); err != nil {
		return err
	}
	if err := page.ClickAndWaitNavigation(form.Submit); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// Close closes the tab, writes the session state to statePath (replacing
// the previous file) and closes the session. An empty statePath skips the
// save.
func (h *Handle) Close(statePath string) error {
	var errs []error
	if err := h.Page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if statePath != "" {
		if err := h.Session.SaveState(statePath); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.Session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close session: %w", err))
	}
	return errors.Join(errs...)
}

func (h *Handle) close() error {
	return errors.Join(h.Page.Close(), h.Session.Close())
}
