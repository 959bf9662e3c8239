package extract

import (
	"strconv"
	"strings"
)

// DerivePEG computes the PEG ratio as pe / (growth * 100), where growth is a
// fraction (0.18 for 18%). The divisor is the growth rate as a percentage
// number, not the fraction. A growth rate that is not positive yields no PEG.
func DerivePEG(pe, growth float64) (float64, bool) {
	if growth <= 0 {
		return 0, false
	}
	return pe / (growth * 100), true
}

// PEG returns the page's PEG ratio when it shows one, or derives it from the
// stock P/E and the latest sales growth. ok is false when neither works.
func (e *Extractor) PEG() (float64, bool) {
	e.logger.Info("extracting PEG ratio")
	ratios := e.Ratios(nil)

	if key, ok := ratios.KeyContaining("PEG"); ok {
		raw, _ := ratios.Get(key)
		v, err := ParseDecimal(raw)
		if err != nil {
			e.logger.Warn("could not parse PEG value", "value", raw, "error", err)
			return 0, false
		}
		return v, true
	}

	pe, ok := e.priceEarnings(ratios)
	if !ok {
		e.logger.Warn("could not derive PEG ratio", "reason", "no P/E value")
		return 0, false
	}
	growth, ok := e.salesGrowthRate()
	if !ok {
		e.logger.Warn("could not derive PEG ratio", "reason", "no sales growth rate")
		return 0, false
	}
	peg, ok := DerivePEG(pe, growth)
	if !ok {
		e.logger.Warn("could not derive PEG ratio", "reason", "growth rate not positive", "growth", growth)
		return 0, false
	}
	e.logger.Info("derived PEG ratio", "pe", pe, "growth", growth, "peg", peg)
	return peg, true
}

func (e *Extractor) priceEarnings(ratios *RatioMap) (float64, bool) {
	var (
		pe    float64
		found bool
	)
	ratios.Each(func(key, value string) {
		if found || !(strings.Contains(key, "P/E") || strings.Contains(key, "PE Ratio") || key == "PE") {
			return
		}
		v, err := strconv.ParseFloat(keepDigits(value, ""), 64)
		if err != nil {
			e.logger.Warn("could not parse P/E value", "key", key, "value", value)
			return
		}
		pe, found = v, true
	})
	if found {
		e.logger.Info("found P/E ratio", "value", pe)
		return pe, true
	}

	near := ProximityStrategy{Tags: []string{"span", "div"}}
	near.Scan(e.doc, []string{"P/E", "PE"}, func(p Pair) bool {
		v, err := strconv.ParseFloat(keepDigits(p.Value, ""), 64)
		if err != nil {
			return true
		}
		pe, found = v, true
		return false
	})
	if found {
		e.logger.Info("found P/E ratio in page text", "value", pe)
	}
	return pe, found
}

func (e *Extractor) salesGrowthRate() (float64, bool) {
	if _, last, ok := e.Growth("Sales Growth").Last(); ok {
		rate, err := ParsePercent(last)
		if err == nil {
			e.logger.Info("found sales growth rate", "value", rate)
			return rate, true
		}
		e.logger.Warn("could not parse growth value", "value", last)
	}

	var (
		rate  float64
		found bool
	)
	near := ProximityStrategy{Tags: []string{"span", "div"}}
	near.Scan(e.doc, []string{"Growth"}, func(p Pair) bool {
		v, err := ParsePercent(keepDigits(p.Value, "%-"))
		if err != nil {
			return true
		}
		rate, found = v, true
		return false
	})
	if found {
		e.logger.Info("found growth rate in page text", "value", rate)
	}
	return rate, found
}
