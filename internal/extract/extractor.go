// Package extract pulls financial metrics out of a company page whose layout
// has no stable schema. Values are located through an ordered cascade of
// strategies, statement tables are read into ordered tables, and ratio labels
// are folded onto a fixed set of canonical names.
//
// A missing metric is never an error: lookups return an empty container or
// ok=false and the caller renders "not available".
package extract

import (
	"log/slog"
	"strconv"

	"finscreen/internal/dom"
	flog "finscreen/internal/log"
)

// Strategies holds the strategy used for each step of the cascade. A nil
// field disables that step.
type Strategies struct {
	Region    Strategy
	Table     Strategy
	FreeText  Strategy
	Proximity Strategy
}

// DefaultStrategies returns the cascade tuned for the screener company page.
func DefaultStrategies() Strategies {
	return Strategies{
		Region:    RegionStrategy{},
		Table:     TableStrategy{},
		FreeText:  FreeTextStrategy{},
		Proximity: ProximityStrategy{Tags: []string{"span", "div"}},
	}
}

// Cascade returns the enabled strategies as a Locator in priority order.
func (s Strategies) Cascade() *Locator {
	return NewLocator(s.Region, s.Table, s.FreeText, s.Proximity)
}

// Extractor reads metrics from one fetched company page. It keeps no state
// between calls; every method re-reads the immutable document.
type Extractor struct {
	doc        *dom.Document
	logger     *slog.Logger
	strategies Strategies
	locator    *Locator
	normalizer Normalizer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the structured log sink.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrategies replaces the locator cascade.
func WithStrategies(s Strategies) Option {
	return func(e *Extractor) { e.strategies = s }
}

// WithNormalizer replaces the ratio normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(e *Extractor) { e.normalizer = n }
}

// New creates an Extractor for doc.
func New(doc *dom.Document, opts ...Option) *Extractor {
	e := &Extractor{
		doc:        doc,
		logger:     flog.Discard(),
		strategies: DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.locator = e.strategies.Cascade()
	return e
}

// Logger returns the extractor's log sink.
func (e *Extractor) Logger() *slog.Logger {
	return e.logger
}

// Locate runs the full cascade for a set of synonymous labels.
func (e *Extractor) Locate(terms ...string) (string, bool) {
	value, strategy, ok := e.locator.Locate(e.doc, terms)
	if ok {
		e.logger.Debug("located value", "terms", terms, "strategy", strategy, "value", value)
	}
	return value, ok
}

// Table extracts the statement table at selector.
func (e *Extractor) Table(selector string) *MetricTable {
	table, found := ExtractTable(e.doc, selector)
	if !found {
		e.logger.Warn("table not found", "selector", selector)
	}
	return table
}

// Annual returns the profit and loss table.
func (e *Extractor) Annual() *MetricTable {
	e.logger.Info("extracting annual financial data")
	return e.Table(ProfitLossSelector)
}

// Quarterly returns the quarterly results table.
func (e *Extractor) Quarterly() *MetricTable {
	e.logger.Info("extracting quarterly financial data")
	return e.Table(QuarterlySelector)
}

// ROE returns the return-on-equity series. The annual table is preferred;
// otherwise a single "Latest" value from the ratio map, and finally the first
// value found near an "ROE" label anywhere on the page.
func (e *Extractor) ROE() *Series {
	e.logger.Info("extracting ROE data")
	if _, row, ok := e.Annual().FindRow(ROETerms...); ok {
		return row
	}

	ratios := e.Ratios(nil)
	if key, ok := ratios.KeyContaining(ROETerms...); ok {
		v, _ := ratios.Get(key)
		e.logger.Info("found ROE in ratios", "key", key, "value", v)
		return NewSeries("Latest", v)
	}

	if e.strategies.Proximity != nil {
		if p, ok := Locate(e.doc, e.strategies.Proximity, []string{ROE}); ok {
			e.logger.Info("found ROE in page text", "value", p.Value)
			return NewSeries("Latest", p.Value)
		}
	}

	e.logger.Warn("ROE data not found")
	return &Series{}
}

// Growth returns the annual row whose label contains metric, or an empty
// series.
func (e *Extractor) Growth(metric string) *Series {
	e.logger.Info("extracting growth data", "metric", metric)
	if _, row, ok := e.Annual().FindRow(metric); ok {
		return row
	}
	e.logger.Warn("growth data not found", "metric", metric)
	return &Series{}
}

// QuarterlyResults holds the revenue and net profit series of the quarterly
// table. Either may be empty.
type QuarterlyResults struct {
	Revenue   *Series `json:"revenue"`
	NetProfit *Series `json:"netProfit"`
}

// QuarterlyRevenueProfit picks the revenue ("Revenue"/"Sales") and net profit
// ("Net Profit"/"PAT") rows from the quarterly table. When several rows match
// the last one wins.
func (e *Extractor) QuarterlyRevenueProfit() QuarterlyResults {
	e.logger.Info("extracting quarterly revenue and profit")
	res := QuarterlyResults{Revenue: &Series{}, NetProfit: &Series{}}
	e.Quarterly().Rows.Each(func(label string, row *Series) {
		switch {
		case containsAny(label, []string{"Revenue", "Sales"}):
			res.Revenue = row
		case containsAny(label, []string{"Net Profit", "PAT"}):
			res.NetProfit = row
		}
	})
	return res
}

// Ratios gathers label/value pairs from the ratios block, widens the search
// to tables and free text when valuation, growth or PEG labels are missing,
// looks for ROE separately, and normalizes the result. A PEG hint fills the
// PEG Ratio slot when the page has none.
func (e *Extractor) Ratios(pegHint *float64) *RatioMap {
	e.logger.Info("extracting financial ratios")
	raw := &RatioMap{}
	collect := func(s Strategy, terms []string) {
		if s == nil {
			return
		}
		for _, p := range Collect(e.doc, s, terms) {
			raw.Set(p.Label, p.Value)
		}
	}

	collect(e.strategies.Region, nil)

	if !hasAllFamilies(raw) {
		e.logger.Info("ratios block incomplete, searching tables and page text")
		collect(e.strategies.Table, TargetMetrics)
		collect(e.strategies.FreeText, TargetMetrics)
	}

	if _, ok := raw.KeyContaining(ROE); !ok {
		roe := ProximityStrategy{Sibling: true, Tags: []string{"span", "div"}}
		for _, p := range Collect(e.doc, roe, []string{ROE}) {
			raw.Set(ROE, p.Value)
		}
	}

	ratios := e.normalizer.Normalize(raw)

	if !ratios.Has(StockPE) {
		pe := ProximityStrategy{Sibling: true, Exclude: []string{"Industry", "Sector"}}
		if p, ok := Locate(e.doc, pe, []string{"P/E"}); ok {
			if v, ok := CleanValue(StockPE, p.Value); ok {
				ratios.Set(StockPE, v)
			}
		}
	}

	if !ratios.Has(PEGRatio) && pegHint != nil {
		ratios.Set(PEGRatio, strconv.FormatFloat(*pegHint, 'f', 2, 64))
	}

	e.logger.Info("found ratios", "ratios", ratios.Map())
	return ratios
}
