package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"finscreen/internal/browser"
	flog "finscreen/internal/log"
)

// BrowserConfig configures a BrowserFetcher.
type BrowserConfig struct {
	Browser browser.Config
	Timeout time.Duration
	Delay   time.Duration
	Logger  *slog.Logger
}

// BrowserFetcher loads pages in headless Chromium. The browser is launched on
// the first Fetch and shared by later calls; each call uses its own tab.
type BrowserFetcher struct {
	cfg    BrowserConfig
	logger *slog.Logger

	once    sync.Once
	browser *browser.Browser
	initErr error
}

// NewBrowser creates a BrowserFetcher. Nothing is launched until Fetch.
func NewBrowser(cfg BrowserConfig) *BrowserFetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = flog.Discard()
	}
	return &BrowserFetcher{cfg: cfg, logger: logger}
}

func (f *BrowserFetcher) launch() (*browser.Browser, error) {
	f.once.Do(func() {
		f.logger.Debug("launching browser", "headless", f.cfg.Browser.Headless, "proxy", f.cfg.Browser.ProxyURL)
		f.browser, f.initErr = browser.New(f.cfg.Browser)
	})
	return f.browser, f.initErr
}

// Fetch navigates a new tab to rawURL, waits for the load event and returns
// the rendered HTML. A non-2xx document status is returned as *StatusError.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()
	if err := wait(ctx, f.cfg.Delay); err != nil {
		return nil, err
	}

	b, err := f.launch()
	if err != nil {
		return nil, err
	}

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx)
	if f.cfg.Timeout > 0 {
		p = p.Timeout(f.cfg.Timeout)
	}

	var resp proto.NetworkResponseReceived
	waitResponse := p.WaitEvent(&resp)

	f.logger.Debug("navigating", "url", rawURL)
	if err := p.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", rawURL, err)
	}
	waitResponse()

	status := http.StatusOK
	if resp.Response != nil {
		status = int(resp.Response.Status)
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: status}
	}

	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}
	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	finalURL := rawURL
	if info, err := p.Info(); err == nil {
		finalURL = info.URL
	}

	res := &Result{
		URL:        finalURL,
		StatusCode: status,
		Body:       []byte(html),
		LoadTime:   time.Since(start),
	}
	f.logger.Debug("fetched page", "url", res.URL, "status", res.StatusCode, "bytes", len(res.Body), "load_time", res.LoadTime)
	return res, nil
}

// Close shuts down the browser if it was launched.
func (f *BrowserFetcher) Close() error {
	if f.browser == nil {
		return nil
	}
	return f.browser.Close()
}
