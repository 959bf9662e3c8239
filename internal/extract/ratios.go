package extract

import (
	"strings"
	"unicode/utf8"
)

// Canonical metric names.
const (
	StockPE      = "Stock P/E"
	IndustryPE   = "Industry P/E"
	SalesGrowth  = "Compounded Sales Growth"
	ProfitGrowth = "Compounded Profit Growth"
	PEGRatio     = "PEG Ratio"
	ROE          = "ROE"
)

// TargetMetrics are the label variants searched for when the ratios block
// does not cover valuation, growth and PEG.
var TargetMetrics = []string{
	"Stock P/E", "P/E", "PE", "PE Ratio",
	"Industry P/E", "Industry PE", "Sector P/E", "Sector PE",
	"Compounded Sales Growth", "Sales Growth",
	"Compounded Profit Growth", "Profit Growth",
	"PEG Ratio", "PEG",
}

// metricFamilies must each appear in some raw label for the ratios block to
// count as complete.
var metricFamilies = []string{"P/E", "Growth", "PEG"}

// ROETerms are the labels that denote return on equity.
var ROETerms = []string{"ROE", "Return on Equity"}

// longValueLen is the length above which a raw value is treated as prose and
// reduced to its first number.
const longValueLen = 50

type canonicalRule struct {
	name    string
	any     []string
	exclude []string
}

// canonicalRules is evaluated top to bottom; the first matching rule names
// the metric.
var canonicalRules = []canonicalRule{
	{name: StockPE, any: []string{"Stock P/E", "P/E", "PE Ratio"}, exclude: []string{"Industry", "Sector"}},
	{name: IndustryPE, any: []string{"Industry P/E", "Sector P/E", "Industry PE", "Sector PE"}},
	{name: SalesGrowth, any: []string{"Compounded Sales Growth", "Sales Growth"}, exclude: []string{"Quarterly"}},
	{name: ProfitGrowth, any: []string{"Compounded Profit Growth", "Profit Growth"}, exclude: []string{"Quarterly"}},
	{name: PEGRatio, any: []string{"PEG Ratio", "PEG"}},
	{name: ROE, any: ROETerms},
}

// Canonical maps a raw page label to its canonical metric name. Labels that
// match no rule are returned unchanged.
func Canonical(label string) string {
	for _, r := range canonicalRules {
		if containsAny(label, r.any) && !containsAny(label, r.exclude) {
			return r.name
		}
	}
	return label
}

// CleanValue prepares a raw value for the ratio map. Blank and placeholder
// values are rejected. Values longer than 50 characters (runes, not bytes) are reduced to their
// leading number (or first number anywhere) and rejected when they hold none.
// Growth values of the form "3 Years: 12%" keep the part after the colon.
func CleanValue(label, value string) (string, bool) {
	if isNoise(value) {
		return "", false
	}
	cleaned := value
	if utf8.RuneCountInString(value) > longValueLen {
		num, ok := NumericText(value)
		if !ok {
			return "", false
		}
		cleaned = num
	}
	if strings.Contains(label, "Growth") && strings.Contains(cleaned, ":") {
		parts := strings.Split(cleaned, ":")
		cleaned = strings.TrimSpace(parts[1])
	}
	return cleaned, true
}

// Normalizer turns raw label/value pairs into a canonical RatioMap.
type Normalizer struct {
	// FirstWins keeps the first value seen for a canonical name instead of
	// the last. Off by default: later matches overwrite earlier ones.
	FirstWins bool
}

// Normalize cleans every raw value and files it under its canonical name,
// visiting raw in insertion order.
func (n Normalizer) Normalize(raw *RatioMap) *RatioMap {
	out := &RatioMap{}
	raw.Each(func(label, value string) {
		cleaned, ok := CleanValue(label, value)
		if !ok {
			return
		}
		name := Canonical(label)
		if n.FirstWins && out.Has(name) {
			return
		}
		out.Set(name, cleaned)
	})
	return out
}

func hasAllFamilies(raw *RatioMap) bool {
	for _, f := range metricFamilies {
		if _, ok := raw.KeyContaining(f); !ok {
			return false
		}
	}
	return true
}
