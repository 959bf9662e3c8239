package scraper

import (
	"context"
	"log/slog"
	"time"

	"finscreen/internal/fetcher"
)

// Scraper fetches a target from one site and extracts its content.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, target string, opts Options) (Content, error)
}

// Content is a scraped result that can be rendered in every output format.
type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

// Options carries the per-run settings a Scraper needs.
type Options struct {
	BaseURL      string
	FetchMode    string // http or browser
	Delay        time.Duration
	Timeout      time.Duration
	MaxRetries   int
	UserAgent    string
	ShowUI       bool
	ProxyURL     string // --proxy flag or FINSCREEN_PROXY env var
	Consolidated bool
	Logger       *slog.Logger
	Extra        []string // additional metric labels to locate on the page

	// Fetcher, when set, is used instead of building one from the fields
	// above, so batch runs and the API share one fetcher.
	Fetcher fetcher.Fetcher
}
