package screener

import (
	"context"
	"fmt"
	"io"

	"finscreen/internal/browser"
	"finscreen/internal/config"
	"finscreen/internal/extract"
	"finscreen/internal/fetcher"
	flog "finscreen/internal/log"
	"finscreen/internal/report"
	"finscreen/internal/scraper"
)

// Name is the registry name of the screener scraper.
const Name = "screener"

func init() {
	scraper.Register(&Scraper{})
}

// Scraper implements scraper.Scraper for screener.in company pages.
type Scraper struct{}

// Name returns site name
func (s *Scraper) Name() string {
	return Name
}

// Scrape fetches the company page for the symbol in target and returns its
// *report.Summary.
func (s *Scraper) Scrape(ctx context.Context, target string, opts scraper.Options) (scraper.Content, error) {
	logger := opts.Logger
	if logger == nil {
		logger = flog.Discard()
	}

	f := opts.Fetcher
	if f == nil {
		built, err := NewFetcher(opts)
		if err != nil {
			return nil, err
		}
		if c, ok := built.(io.Closer); ok {
			defer c.Close()
		}
		f = built
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	client, err := NewClient(f, baseURL, logger)
	if err != nil {
		return nil, err
	}

	page, err := client.CompanyPage(ctx, target, opts.Consolidated)
	if err != nil {
		return nil, err
	}

	e := extract.New(page.Doc, extract.WithLogger(logger.With("symbol", page.Symbol)))
	src := report.Source{Symbol: page.Symbol, URL: page.URL, Consolidated: page.Consolidated}
	return report.Build(e, src, opts.Extra), nil
}

// NewFetcher builds the fetcher selected by opts.FetchMode. A browser fetcher
// must be closed by the caller.
func NewFetcher(opts scraper.Options) (fetcher.Fetcher, error) {
	switch opts.FetchMode {
	case "", config.FetchHTTP:
		f, err := fetcher.NewHTTP(fetcher.HTTPConfig{
			Timeout:    opts.Timeout,
			Delay:      opts.Delay,
			MaxRetries: opts.MaxRetries,
			UserAgent:  opts.UserAgent,
			ProxyURL:   opts.ProxyURL,
			Logger:     opts.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP fetcher: %w", err)
		}
		return f, nil
	case config.FetchBrowser:
		return fetcher.NewBrowser(fetcher.BrowserConfig{
			Browser: browser.Config{ProxyURL: opts.ProxyURL, Headless: !opts.ShowUI},
			Timeout: opts.Timeout,
			Delay:   opts.Delay,
			Logger:  opts.Logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", opts.FetchMode)
	}
}
