package screener

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"finscreen/internal/config"
	"finscreen/internal/report"
	"finscreen/internal/scraper"
)

func TestScraperRegistered(t *testing.T) {
	t.Parallel()

	s, ok := scraper.Get(Name)
	if !ok {
		t.Fatalf("scraper %q not registered", Name)
	}
	if s.Name() != Name {
		t.Errorf("Name() = %q, want %q", s.Name(), Name)
	}
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&site{pages: map[string]string{"/company/ACME/consolidated/": companyHTML}})
	t.Cleanup(srv.Close)

	content, err := (&Scraper{}).Scrape(context.Background(), "acme", scraper.Options{
		BaseURL:      srv.URL,
		FetchMode:    config.FetchHTTP,
		Timeout:      5 * time.Second,
		Consolidated: true,
		Extra:        []string{"Industry PE"},
	})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}

	s, ok := content.(*report.Summary)
	if !ok {
		t.Fatalf("Scrape() content is %T, want *report.Summary", content)
	}
	if s.Symbol != "ACME" || s.Company != "Acme Ltd" || !s.Consolidated {
		t.Errorf("summary = {%q %q %v}", s.Symbol, s.Company, s.Consolidated)
	}
	if s.URL != srv.URL+"/company/ACME/consolidated/" {
		t.Errorf("URL = %q", s.URL)
	}
	if v, _ := s.ROE.Get("Mar 2024"); v != "15%" {
		t.Errorf("ROE[Mar 2024] = %q, want 15%%", v)
	}
	if s.PEG == nil || *s.PEG != 1.1 {
		t.Errorf("PEG = %v, want 1.1", s.PEG)
	}
	if v, _ := s.Extra.Get("Industry PE"); v != "21.4" {
		t.Errorf("Extra[Industry PE] = %q, want 21.4", v)
	}
}

func TestNewFetcher(t *testing.T) {
	t.Parallel()

	if _, err := NewFetcher(scraper.Options{FetchMode: "carrier-pigeon"}); err == nil {
		t.Error("NewFetcher() error = nil for unknown mode")
	}
	if _, err := NewFetcher(scraper.Options{ProxyURL: "://bad"}); err == nil {
		t.Error("NewFetcher() error = nil for bad proxy")
	}
	f, err := NewFetcher(scraper.Options{FetchMode: config.FetchBrowser})
	if err != nil {
		t.Fatalf("NewFetcher(browser) error = %v", err)
	}
	if c, ok := f.(interface{ Close() error }); !ok {
		t.Error("browser fetcher does not implement Close")
	} else if err := c.Close(); err != nil {
		t.Errorf("Close() on unlaunched browser = %v", err)
	}
}
