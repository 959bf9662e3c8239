package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"finscreen/internal/fetcher"
	"finscreen/internal/sites/screener"
)

var rule = strings.Repeat("=", 50)

// errorKind classifies a failed lookup for the error block.
type errorKind int

const (
	kindUnexpected errorKind = iota
	kindNotFound
	kindConnection
	kindTimeout
	kindHTTP
)

func classify(err error) errorKind {
	var (
		statusErr *fetcher.StatusError
		netErr    net.Error
		opErr     *net.OpError
	)
	switch {
	case errors.Is(err, screener.ErrSymbolNotFound), errors.Is(err, fetcher.ErrNotFound):
		return kindNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return kindTimeout
	case errors.As(err, &statusErr):
		return kindHTTP
	case errors.As(err, &opErr):
		return kindConnection
	default:
		return kindUnexpected
	}
}

// errorBlock renders the delimited message printed when symbol could not be
// reported.
func errorBlock(symbol string, err error) string {
	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	line("")
	line(rule)
	switch classify(err) {
	case kindNotFound:
		line("ERROR: Could not find company page for symbol: %s", symbol)
		line(rule)
		line("")
		line("Possible reasons:")
		line("1. The symbol may be incorrect")
		line("2. The company may not be listed on screener.in")
		line("3. The website structure may have changed")
		line("")
		line("Suggestions:")
		line("- Check if the symbol is correct")
		line("- Try using the full company name")
		line("- Try increasing the delay between requests (--delay option)")
	case kindConnection:
		line("ERROR: Connection Error")
		line(rule)
		line("")
		line("Failed to connect to screener.in. Please check your internet connection or --proxy.")
	case kindTimeout:
		line("ERROR: Timeout Error")
		line(rule)
		line("")
		line("The request to screener.in timed out. Please try again later or increase --timeout.")
	case kindHTTP:
		line("ERROR: HTTP Error: %v", err)
		line(rule)
		line("")
		line("An HTTP error occurred while accessing screener.in.")
		line("This could be due to rate limiting or changes in the website structure.")
		line("")
		line("Suggestions:")
		line("- Try increasing the delay between requests (--delay option)")
		line("- Try again later")
	default:
		line("ERROR: An unexpected error occurred: %v", err)
		line(rule)
		line("")
		line("Please report this issue with the following details:")
		line("Symbol: %s", symbol)
		line("Error: %v", err)
	}

	var fe *screener.FetchError
	if errors.As(err, &fe) {
		line("Failed step: %s", fe.Step)
	}
	line(rule)
	return b.String()
}
