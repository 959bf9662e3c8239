// Package fetcher retrieves company pages. HTTPFetcher talks to the site
// directly and is the default; BrowserFetcher renders the page in headless
// Chromium for when the plain response is blocked or incomplete.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Result is a fetched page.
type Result struct {
	URL        string        // final URL after redirects
	StatusCode int           // HTTP status of the document
	Body       []byte        // decoded HTML
	LoadTime   time.Duration // time spent fetching, including the politeness delay
}

// Fetcher retrieves the page at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

var (
	// ErrNotFound matches a StatusError for HTTP 404.
	ErrNotFound = errors.New("page not found")

	// ErrRateLimited matches a StatusError for HTTP 429.
	ErrRateLimited = errors.New("rate limited")
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is match ErrNotFound and ErrRateLimited.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// wait sleeps for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
