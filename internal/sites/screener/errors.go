package screener

import (
	"errors"
	"fmt"
)

// ErrSymbolNotFound is returned when the site search has no result for a
// symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Steps of the company page lookup, reported in FetchError.
const (
	StepConsolidated = "consolidated"
	StepStandalone   = "standalone"
	StepSearch       = "search"
	StepCompany      = "company"
)

// FetchError records which lookup step failed for a symbol.
type FetchError struct {
	Symbol string
	Step   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s page: %v", e.Symbol, e.Step, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
