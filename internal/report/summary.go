// Package report assembles the extracted metrics of one company into a
// Summary and renders it as text, Markdown, HTML, JSON or CSV.
package report

import (
	"fmt"

	"finscreen/internal/extract"
)

// Section titles and the messages shown when a section has no data.
const (
	TitleROE       = "ROE (Return on Equity)"
	TitleGrowth    = "Sales Growth"
	TitleQuarterly = "Last Two Quarters Revenue and Profit"
	TitleMetrics   = "Key Metrics"
	TitleExtra     = "Other Metrics"

	NoROE       = "ROE: Data not available"
	NoGrowth    = "3-Year Growth: Data not available"
	NoQuarterly = "Quarterly Data: Not available"
	NoMetrics   = "Additional Metrics: Not available"

	// NotAvailable fills a missing table cell.
	NotAvailable = "N/A"
)

// KeyMetricNames are the ratios listed under Key Metrics, in display order.
var KeyMetricNames = []string{
	extract.StockPE,
	extract.IndustryPE,
	extract.SalesGrowth,
	extract.ProfitGrowth,
	extract.PEGRatio,
}

// Source identifies the page a Summary was built from.
type Source struct {
	Symbol       string
	URL          string
	Consolidated bool
}

// Summary is the financial summary of one company.
type Summary struct {
	Symbol       string                   `json:"symbol"`
	Company      string                   `json:"company"`
	URL          string                   `json:"url,omitempty"`
	Consolidated bool                     `json:"consolidated"`
	About        string                   `json:"about,omitempty"`
	ROE          *extract.Series          `json:"roe"`
	SalesGrowth  *extract.Series          `json:"salesGrowth"`
	Quarterly    extract.QuarterlyResults `json:"quarterly"`
	Ratios       *extract.RatioMap        `json:"ratios"`
	PEG          *float64                 `json:"peg,omitempty"`
	Extra        *extract.Series          `json:"extra,omitempty"`
}

// Build runs every extraction against e. extras are additional labels
// resolved through the locator cascade; labels that cannot be found are kept
// with an empty value.
func Build(e *extract.Extractor, src Source, extras []string) *Summary {
	logger := e.Logger()

	s := &Summary{
		Symbol:       src.Symbol,
		URL:          src.URL,
		Consolidated: src.Consolidated,
		Company:      e.CompanyName(),
	}
	logger.Info("found company", "symbol", src.Symbol, "company", s.Company)

	about, err := e.About()
	if err != nil {
		logger.Warn("could not read company profile", "symbol", src.Symbol, "error", err)
	}
	s.About = about

	s.ROE = e.ROE()
	s.SalesGrowth = e.Growth("Sales Growth")
	s.Quarterly = e.QuarterlyRevenueProfit()
	if peg, ok := e.PEG(); ok {
		s.PEG = &peg
	}
	s.Ratios = e.Ratios(s.PEG)

	if len(extras) > 0 {
		s.Extra = &extract.Series{}
		for _, label := range extras {
			v, ok := e.Locate(label)
			if !ok {
				logger.Warn("metric not found", "symbol", src.Symbol, "metric", label)
			}
			s.Extra.Set(label, v)
		}
	}
	return s
}

// Statement returns "consolidated" or "standalone".
func (s *Summary) Statement() string {
	if s.Consolidated {
		return "consolidated"
	}
	return "standalone"
}

// KeyMetrics returns the Key Metrics rows. The PEG row shows the PEG ratio
// to two decimals, whether read from the page or derived.
func (s *Summary) KeyMetrics() []extract.Pair {
	var out []extract.Pair
	for _, name := range KeyMetricNames {
		if name == extract.PEGRatio {
			if s.PEG != nil {
				out = append(out, extract.Pair{Label: name, Value: fmt.Sprintf("%.2f", *s.PEG)})
			}
			continue
		}
		if v, ok := s.Ratios.Get(name); ok {
			out = append(out, extract.Pair{Label: name, Value: v})
		}
	}
	return out
}

// LastQuarters returns up to the last two quarter labels of the revenue
// series. ok is false unless both revenue and profit have data.
func (s *Summary) LastQuarters() (quarters []string, ok bool) {
	if s.Quarterly.Revenue.Len() == 0 || s.Quarterly.NetProfit.Len() == 0 {
		return nil, false
	}
	keys := s.Quarterly.Revenue.Keys()
	if len(keys) > 2 {
		keys = keys[len(keys)-2:]
	}
	return keys, true
}

// table is a rendered section: a header row and body rows, or a message when
// the section has no data.
type table struct {
	title   string
	header  []string
	rows    [][]string
	missing string
}

func seriesTable(title, metric string, s *extract.Series, missing string) table {
	t := table{title: title, missing: missing}
	if s.Len() == 0 {
		return t
	}
	t.header = append([]string{"Metric"}, s.Keys()...)
	row := []string{metric}
	s.Each(func(_, v string) { row = append(row, v) })
	t.rows = [][]string{row}
	return t
}

func cell(s *extract.Series, key string) string {
	if v, ok := s.Get(key); ok {
		return v
	}
	return NotAvailable
}

// sections returns the report body in display order.
func (s *Summary) sections() []table {
	out := []table{
		seriesTable(TitleROE, "ROE", s.ROE, NoROE),
		seriesTable(TitleGrowth, "Growth", s.SalesGrowth, NoGrowth),
	}

	q := table{title: TitleQuarterly, missing: NoQuarterly}
	if quarters, ok := s.LastQuarters(); ok {
		q.header = append([]string{"Metric"}, quarters...)
		revenue := []string{"Revenue"}
		profit := []string{"Net Profit"}
		for _, k := range quarters {
			revenue = append(revenue, cell(s.Quarterly.Revenue, k))
			profit = append(profit, cell(s.Quarterly.NetProfit, k))
		}
		q.rows = [][]string{revenue, profit}
	}
	out = append(out, q)

	m := table{title: TitleMetrics, missing: NoMetrics}
	if metrics := s.KeyMetrics(); len(metrics) > 0 {
		m.header = []string{"Metric", "Value"}
		for _, p := range metrics {
			m.rows = append(m.rows, []string{p.Label, p.Value})
		}
	}
	out = append(out, m)

	if s.Extra.Len() > 0 {
		e := table{title: TitleExtra, header: []string{"Metric", "Value"}}
		s.Extra.Each(func(k, v string) {
			if v == "" {
				v = NotAvailable
			}
			e.rows = append(e.rows, []string{k, v})
		})
		out = append(out, e)
	}
	return out
}
