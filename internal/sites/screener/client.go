// Package screener looks up company pages on screener.in and turns them into
// financial summaries.
package screener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"finscreen/internal/dom"
	"finscreen/internal/fetcher"
	flog "finscreen/internal/log"
)

// SearchResultSelector matches result links on the search page.
const SearchResultSelector = ".results-list a[href]"

// Page is a fetched company page.
type Page struct {
	Symbol       string
	URL          string
	Consolidated bool
	Doc          *dom.Document
}

// Client resolves symbols to company pages.
type Client struct {
	fetcher fetcher.Fetcher
	base    *url.URL
	logger  *slog.Logger
}

// NewClient creates a Client for the site at baseURL.
func NewClient(f fetcher.Fetcher, baseURL string, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	if logger == nil {
		logger = flog.Discard()
	}
	return &Client{fetcher: f, base: base, logger: logger}, nil
}

// NormalizeSymbol trims and upper-cases a trading symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// CompanyURL returns the company page URL for symbol.
func (c *Client) CompanyURL(symbol string, consolidated bool) string {
	path := "company/" + symbol + "/"
	if consolidated {
		path += "consolidated/"
	}
	return c.base.ResolveReference(&url.URL{Path: path}).String()
}

// SearchURL returns the search page URL for query.
func (c *Client) SearchURL(query string) string {
	u := c.base.ResolveReference(&url.URL{Path: "search/"})
	u.RawQuery = url.Values{"q": {query}}.Encode()
	return u.String()
}

// CompanyPage fetches the company page for symbol. When consolidated is set
// the consolidated statements are tried first, then the standalone page.
// A 404 falls through to a site search; any other failure is returned as a
// *FetchError naming the step.
func (c *Client) CompanyPage(ctx context.Context, symbol string, consolidated bool) (*Page, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &FetchError{Symbol: symbol, Step: StepCompany, Err: ErrSymbolNotFound}
	}

	type attempt struct {
		step         string
		consolidated bool
	}
	attempts := []attempt{{StepStandalone, false}}
	if consolidated {
		attempts = append([]attempt{{StepConsolidated, true}}, attempts...)
	}

	for _, a := range attempts {
		pageURL := c.CompanyURL(symbol, a.consolidated)
		c.logger.Info("fetching company page", "symbol", symbol, "url", pageURL)
		page, err := c.fetch(ctx, symbol, a.step, pageURL)
		if err == nil {
			page.Consolidated = a.consolidated
			return page, nil
		}
		if !errors.Is(err, fetcher.ErrNotFound) {
			return nil, err
		}
		c.logger.Warn("company page not found", "symbol", symbol, "url", pageURL)
	}

	pageURL, err := c.search(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.logger.Info("found company via search", "symbol", symbol, "url", pageURL)
	page, err := c.fetch(ctx, symbol, StepCompany, pageURL)
	if err != nil {
		return nil, err
	}
	page.Consolidated = strings.Contains(pageURL, "/consolidated/")
	return page, nil
}

// search returns the URL of the first search result for symbol.
func (c *Client) search(ctx context.Context, symbol string) (string, error) {
	searchURL := c.SearchURL(symbol)
	c.logger.Info("searching for company", "symbol", symbol, "url", searchURL)
	page, err := c.fetch(ctx, symbol, StepSearch, searchURL)
	if err != nil {
		return "", err
	}
	link, ok := page.Doc.SelectOne(SearchResultSelector)
	if !ok {
		return "", &FetchError{Symbol: symbol, Step: StepSearch, Err: ErrSymbolNotFound}
	}
	href, _ := link.Attr("href")
	ref, err := url.Parse(href)
	if err != nil {
		return "", &FetchError{Symbol: symbol, Step: StepSearch, Err: fmt.Errorf("invalid result link %q: %w", href, err)}
	}
	return c.base.ResolveReference(ref).String(), nil
}

func (c *Client) fetch(ctx context.Context, symbol, step, pageURL string) (*Page, error) {
	res, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Step: step, Err: err}
	}
	doc, err := dom.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Step: step, Err: err}
	}
	return &Page{Symbol: symbol, URL: res.URL, Doc: doc}, nil
}
