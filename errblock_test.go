package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"

	"finscreen/internal/fetcher"
	"finscreen/internal/sites/screener"
)

func TestErrorBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "symbol not found",
			err:  &screener.FetchError{Symbol: "NOPE", Step: screener.StepSearch, Err: screener.ErrSymbolNotFound},
			want: []string{"Could not find company page for symbol: NOPE", "Try using the full company name", "Failed step: search"},
		},
		{
			name: "page 404",
			err:  &screener.FetchError{Symbol: "NOPE", Step: screener.StepCompany, Err: &fetcher.StatusError{URL: "u", StatusCode: 404}},
			want: []string{"Could not find company page", "Failed step: company"},
		},
		{
			name: "http error",
			err:  &screener.FetchError{Symbol: "NOPE", Step: screener.StepConsolidated, Err: &fetcher.StatusError{URL: "u", StatusCode: 429}},
			want: []string{"ERROR: HTTP Error:", "HTTP 429", "--delay"},
		},
		{
			name: "connection refused",
			err:  fmt.Errorf("fetch: %w", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}),
			want: []string{"ERROR: Connection Error"},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			want: []string{"ERROR: Timeout Error"},
		},
		{
			name: "unexpected",
			err:  errors.New("boom"),
			want: []string{"An unexpected error occurred: boom", "Symbol: NOPE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := errorBlock("NOPE", tt.err)
			lines := strings.Split(strings.TrimSpace(got), "\n")
			if lines[0] != rule || lines[len(lines)-1] != rule {
				t.Errorf("block is not delimited:\n%s", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("errorBlock() missing %q in:\n%s", w, got)
				}
			}
		})
	}
}
