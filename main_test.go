package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"finscreen/internal/extract"
	flog "finscreen/internal/log"
	"finscreen/internal/report"
	"finscreen/internal/scraper"

	"github.com/google/go-cmp/cmp"
)

type fakeScraper struct {
	calls atomic.Int32
}

func (f *fakeScraper) Name() string { return "fake" }

func (f *fakeScraper) Scrape(_ context.Context, target string, _ scraper.Options) (scraper.Content, error) {
	f.calls.Add(1)
	if target == "bad" {
		return nil, errors.New("boom")
	}
	return &report.Summary{Symbol: target, Company: target + " Ltd", ROE: extract.NewSeries("Latest", "10%")}, nil
}

func TestScrapeAll(t *testing.T) {
	t.Parallel()

	f := &fakeScraper{}
	results := scrapeAll(context.Background(), f, []string{"aaa", "bad", "ccc"}, scraper.Options{}, "csv", 2, flog.Discard())

	if got := f.calls.Load(); got != 3 {
		t.Errorf("Scrape() called %d times, want 3", got)
	}
	var symbols []string
	for _, r := range results {
		symbols = append(symbols, r.symbol)
	}
	if diff := cmp.Diff([]string{"AAA", "BAD", "CCC"}, symbols); diff != "" {
		t.Errorf("result order mismatch (-want +got):\n%s", diff)
	}
	if results[1].err == nil {
		t.Error("results[1].err = nil, want error")
	}
	want := "section,metric,period,value\nroe,ROE,Latest,10%\n"
	if results[0].err != nil || results[0].output != want {
		t.Errorf("results[0] = %q, %v", results[0].output, results[0].err)
	}
}

func TestJoinOutputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outputs []string
		format  string
		want    string
	}{
		{name: "single", outputs: []string{"{}"}, format: "json", want: "{}"},
		{name: "json array", outputs: []string{"{}", "{}"}, format: "json", want: "[\n{},\n{}\n]"},
		{name: "text", outputs: []string{"a", "b"}, format: "text", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := joinOutputs(tt.outputs, tt.format); got != tt.want {
				t.Errorf("joinOutputs() = %q, want %q", got, tt.want)
			}
		})
	}
}
