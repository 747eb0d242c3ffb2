package cardtable

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"creditcard-scraper/config"
	"creditcard-scraper/utils"
)

// PageSession is the browser-automation surface the pipeline consumes. A
// session owns exactly one page; callers must not interact with it from
// more than one goroutine — tooltip visibility is global per-page state.
type PageSession interface {
	Navigate(ctx context.Context, url string) error
	OuterHTML(ctx context.Context, selector string) (string, error)
	Evaluate(ctx context.Context, script string, out any) error
	Click(ctx context.Context, selector string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Text(ctx context.Context, selector string) (string, error)
	PressEscape(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close()
}

// interactTimeout bounds individual element operations (click, read). The
// initial navigation has its own, much larger timeout from config.
const interactTimeout = 10 * time.Second

// ChromeSession implements PageSession over a headless Chrome instance.
type ChromeSession struct {
	pageCtx    context.Context
	cancels    []context.CancelFunc
	navTimeout time.Duration
	logger     *utils.Logger
}

// NewChromeSession starts a headless browser and returns a session bound to
// a fresh tab. Call Close to tear the browser down.
func NewChromeSession(cfg *config.Config, logger *utils.Logger) *ChromeSession {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[session] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	pageCtx, cancelPage := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &ChromeSession{
		pageCtx:    pageCtx,
		cancels:    []context.CancelFunc{cancelPage, cancelAlloc},
		navTimeout: time.Duration(cfg.NavTimeoutSeconds) * time.Second,
		logger:     logger,
	}
}

// Navigate loads the page and waits for the document body, bounded by the
// configured navigation timeout.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	err := s.run(ctx, s.navTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// OuterHTML returns the serialized HTML of the first element matching the
// selector.
func (s *ChromeSession) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	if err := s.run(ctx, interactTimeout, chromedp.OuterHTML(selector, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html %q: %w", selector, err)
	}
	return html, nil
}

// Evaluate runs a script in page context, optionally unmarshalling its
// result into out.
func (s *ChromeSession) Evaluate(ctx context.Context, script string, out any) error {
	return s.run(ctx, interactTimeout, chromedp.Evaluate(script, out))
}

// Click clicks the first visible element matching the selector.
func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, interactTimeout, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// WaitVisible blocks until the selector matches a visible element or the
// timeout elapses.
func (s *ChromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// Text reads the visible text of the first element matching the selector.
func (s *ChromeSession) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := s.run(ctx, interactTimeout, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read text %q: %w", selector, err)
	}
	return text, nil
}

// PressEscape sends the Escape key to the page, dismissing open tooltips.
func (s *ChromeSession) PressEscape(ctx context.Context) error {
	return s.run(ctx, interactTimeout, chromedp.KeyEvent(kb.Escape))
}

// Screenshot captures a full-page screenshot.
func (s *ChromeSession) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, s.navTimeout, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts the tab and the browser down.
func (s *ChromeSession) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := s.pageCtx
	if ctx != nil {
		// Honor caller cancellation alongside the page context.
		var cancel context.CancelFunc
		runCtx, cancel = mergeCancel(s.pageCtx, ctx)
		defer cancel()
	}

	runCtx, cancelTimeout := context.WithTimeout(runCtx, timeout)
	defer cancelTimeout()

	return chromedp.Run(runCtx, actions...)
}

// mergeCancel derives a context from page that is also cancelled when the
// caller's context is.
func mergeCancel(page, caller context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(page)
	stop := context.AfterFunc(caller, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
