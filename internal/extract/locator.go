package extract

import (
	"strings"

	"finscreen/internal/dom"
)

// NoiseToken is placeholder text the site renders next to some labels
// (an "Alerts" button) that must never be taken as a value.
const NoiseToken = "Alerts"

// Pair is a label found on the page together with the value next to it.
type Pair struct {
	Label string
	Value string
}

// Strategy finds label/value pairs for a set of synonymous label terms.
// Scan reports pairs in page order through emit and stops as soon as emit
// returns false.
type Strategy interface {
	Name() string
	Scan(doc *dom.Document, terms []string, emit func(Pair) bool)
}

// Locate returns the first pair s finds for terms.
func Locate(doc *dom.Document, s Strategy, terms []string) (Pair, bool) {
	var found Pair
	var ok bool
	s.Scan(doc, terms, func(p Pair) bool {
		found, ok = p, true
		return false
	})
	return found, ok
}

// Collect returns every pair s finds for terms.
func Collect(doc *dom.Document, s Strategy, terms []string) []Pair {
	var out []Pair
	s.Scan(doc, terms, func(p Pair) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Locator runs an ordered cascade of strategies; the first strategy that
// yields a value wins.
type Locator struct {
	strategies []Strategy
}

// NewLocator builds a cascade. Nil strategies are skipped, which is how a
// strategy is disabled.
func NewLocator(strategies ...Strategy) *Locator {
	l := &Locator{}
	for _, s := range strategies {
		if s != nil {
			l.strategies = append(l.strategies, s)
		}
	}
	return l
}

// Strategies returns the cascade in priority order.
func (l *Locator) Strategies() []Strategy {
	return append([]Strategy(nil), l.strategies...)
}

// Locate returns the value of the first pair found by the cascade and the
// name of the strategy that found it.
func (l *Locator) Locate(doc *dom.Document, terms []string) (value, strategy string, ok bool) {
	for _, s := range l.strategies {
		if p, found := Locate(doc, s, terms); found {
			return p.Value, s.Name(), true
		}
	}
	return "", "", false
}

func isNoise(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == NoiseToken
}

func matchesExactly(label string, terms []string) bool {
	for _, t := range terms {
		if label == t {
			return true
		}
	}
	return false
}

// Region describes a container of label/value items.
type Region struct {
	Item  string // selector for each label/value item
	Label string // selector for the label inside an item
	Value string // selector for the value inside an item
}

// DefaultRegions covers the current "top ratios" list and the older flex
// layout of the company ratios block.
var DefaultRegions = []Region{
	{Item: ".company-ratios .flex-row .flex-item", Label: ".name", Value: ".value"},
	{Item: "#top-ratios li", Label: ".name", Value: ".value"},
}

// RegionStrategy reads label/value items from known ratio containers and
// matches labels exactly. With no terms it reports every item.
type RegionStrategy struct {
	Regions []Region
}

func (s RegionStrategy) Name() string { return "region" }

func (s RegionStrategy) Scan(doc *dom.Document, terms []string, emit func(Pair) bool) {
	regions := s.Regions
	if regions == nil {
		regions = DefaultRegions
	}
	for _, r := range regions {
		for _, item := range doc.Select(r.Item) {
			label, ok := item.SelectOne(r.Label)
			if !ok {
				continue
			}
			value, ok := item.SelectOne(r.Value)
			if !ok {
				continue
			}
			p := Pair{Label: label.Text(), Value: value.Text()}
			if len(terms) > 0 && !matchesExactly(p.Label, terms) {
				continue
			}
			if isNoise(p.Value) {
				continue
			}
			if !emit(p) {
				return
			}
		}
	}
}

// DefaultTableKeywords are header words that mark a table as holding ratios.
var DefaultTableKeywords = []string{"Ratio", "Valuation", "Growth", "PE", "P/E"}

// TableStrategy searches data tables whose first header cell mentions one of
// Keywords, returning the second cell of rows whose first cell contains a
// term.
type TableStrategy struct {
	Selector string
	Keywords []string
}

func (s TableStrategy) Name() string { return "table" }

func (s TableStrategy) Scan(doc *dom.Document, terms []string, emit func(Pair) bool) {
	selector := s.Selector
	if selector == "" {
		selector = "table.data-table"
	}
	keywords := s.Keywords
	if keywords == nil {
		keywords = DefaultTableKeywords
	}
	for _, table := range doc.Select(selector) {
		header, ok := table.SelectOne("thead th")
		if !ok || !containsAny(header.Text(), keywords) {
			continue
		}
		for _, row := range table.Select("tbody tr") {
			cells := row.Select("td")
			if len(cells) < 2 {
				continue
			}
			p := Pair{Label: cells[0].Text(), Value: cells[1].Text()}
			if !containsAny(p.Label, terms) || isNoise(p.Value) {
				continue
			}
			if !emit(p) {
				return
			}
		}
	}
}

// DefaultFreeTextTags are the leaf elements scanned for free-floating labels.
const DefaultFreeTextTags = "div, span, p, td, th, li"

// FreeTextStrategy scans leaf elements whose text contains a term. Text of
// the form "label: value" is split on the colon; otherwise the value is the
// next sibling element, or failing that the parent's next sibling.
type FreeTextStrategy struct {
	Tags    string
	Exclude []string
}

func (s FreeTextStrategy) Name() string { return "free-text" }

func (s FreeTextStrategy) Scan(doc *dom.Document, terms []string, emit func(Pair) bool) {
	tags := s.Tags
	if tags == "" {
		tags = DefaultFreeTextTags
	}
	for _, el := range doc.Select(tags) {
		if !el.IsLeaf() {
			continue
		}
		text := el.Text()
		if !containsAny(text, terms) || containsAny(text, s.Exclude) {
			continue
		}
		p, ok := freeTextPair(el, text)
		if !ok {
			continue
		}
		if !emit(p) {
			return
		}
	}
}

func freeTextPair(el dom.Node, text string) (Pair, bool) {
	if parts := strings.Split(text, ":"); len(parts) == 2 {
		p := Pair{Label: strings.TrimSpace(parts[0]), Value: strings.TrimSpace(parts[1])}
		return p, !isNoise(p.Value)
	}
	if sib, ok := el.NextSibling(); ok && !isNoise(sib.Text()) {
		return Pair{Label: text, Value: sib.Text()}, true
	}
	if parent, ok := el.Parent(); ok {
		if sib, ok := parent.NextSibling(); ok && !isNoise(sib.Text()) {
			return Pair{Label: text, Value: sib.Text()}, true
		}
	}
	return Pair{}, false
}

// ProximityStrategy handles labels that have no structural value slot, such
// as a metric name embedded in prose. For each text node containing a term it
// optionally tries the holding element's next sibling, then searches forward
// in document order for the first element of each of Tags with usable text.
type ProximityStrategy struct {
	Sibling bool
	Tags    []string
	Exclude []string
}

func (s ProximityStrategy) Name() string { return "proximity" }

func (s ProximityStrategy) Scan(doc *dom.Document, terms []string, emit func(Pair) bool) {
	match := func(text string) bool {
		return containsAny(text, terms) && !containsAny(text, s.Exclude)
	}
	for _, tn := range doc.TextNodes(match) {
		value, ok := s.near(tn.Parent)
		if !ok {
			continue
		}
		if !emit(Pair{Label: tn.Text, Value: value}) {
			return
		}
	}
}

func (s ProximityStrategy) near(holder dom.Node) (string, bool) {
	if s.Sibling {
		if sib, ok := holder.NextSibling(); ok && !isNoise(sib.Text()) {
			return sib.Text(), true
		}
	}
	for _, tag := range s.Tags {
		if n, ok := holder.FindNext(tag); ok && !isNoise(n.Text()) {
			return n.Text(), true
		}
	}
	return "", false
}
