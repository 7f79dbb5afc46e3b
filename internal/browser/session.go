// Package browser owns the Chrome automation session used for listing
// detail pages and map lookups. Index pages do not need script execution
// and are fetched over plain HTTP instead.
package browser

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
)

// Fetcher is the rendered-page capability: fetch a URL through a real
// browser and read back the post-navigation resolved location.
type Fetcher interface {
	// Fetch navigates to url, waits for client-rendered content to settle,
	// and returns the page's outer HTML.
	Fetch(ctx context.Context, url string) (string, error)

	// Navigate drives the browser to url without reading the page body.
	Navigate(ctx context.Context, url string) error

	// Location returns the browser's current resolved URL, which may differ
	// from the navigated one after client-side redirects.
	Location(ctx context.Context) (string, error)
}

// Config controls the Chrome session.
type Config struct {
	Headless    bool
	UserAgent   string
	ProfileDir  string
	NavTimeout  time.Duration
	SettleDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.NavTimeout == 0 {
		c.NavTimeout = 60 * time.Second
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = 3 * time.Second
	}
	if c.ProfileDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = os.TempDir()
		}
		c.ProfileDir = filepath.Join(wd, "chrome_profile")
	}
	return c
}

// Session is a single live Chrome instance. It is not safe for concurrent
// navigation; callers must serialize use.
type Session struct {
	cfg        Config
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// NewSession launches Chrome and returns a ready session. Close must be
// called on every exit path.
func NewSession(parent context.Context, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
		chromedp.UserDataDir(cfg.ProfileDir),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		cfg:        cfg,
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
	}

	// Force the browser process to start now so a broken Chrome install
	// fails the run up front, not on the first listing.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, eris.Wrap(err, "browser: launch chrome")
	}

	return s, nil
}

// Close tears the browser down. Safe to call more than once.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Fetch navigates to url, waits for the body plus the configured settle
// delay, and returns the rendered HTML.
func (s *Session) Fetch(ctx context.Context, url string) (string, error) {
	runCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", eris.Wrapf(err, "browser: fetch %s", url)
	}
	return html, nil
}

// Navigate drives the browser to url and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.opCtx(ctx)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	return eris.Wrapf(err, "browser: navigate %s", url)
}

// Location reads the browser's current resolved URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	runCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return "", eris.Wrap(err, "browser: read location")
	}
	return loc, nil
}

// opCtx derives a chromedp-compatible context bounded by the navigation
// timeout. Cancelling the caller's context stops the operation too.
func (s *Session) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.browserCtx, s.cfg.NavTimeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
