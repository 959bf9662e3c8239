package report

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"finscreen/internal/extract"

	"github.com/google/go-cmp/cmp"
)

func sampleSummary() *Summary {
	peg := 1.2
	ratios := &extract.RatioMap{}
	ratios.Set(extract.StockPE, "25.0")
	ratios.Set(extract.IndustryPE, "21.4")
	return &Summary{
		Symbol:       "ACME",
		Company:      "Acme Industries Ltd",
		URL:          "https://www.screener.in/company/ACME/",
		Consolidated: false,
		ROE:          extract.NewSeries("Mar 2022", "14%", "Mar 2023", "15%"),
		SalesGrowth:  &extract.Series{},
		Quarterly: extract.QuarterlyResults{
			Revenue:   extract.NewSeries("Jun 2023", "500", "Sep 2023", "520", "Dec 2023", "540"),
			NetProfit: extract.NewSeries("Jun 2023", "60", "Sep 2023", "62"),
		},
		Ratios: ratios,
		PEG:    &peg,
	}
}

func TestSummary_ToText(t *testing.T) {
	t.Parallel()

	out, err := sampleSummary().ToText()
	if err != nil {
		t.Fatalf("ToText() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != rule || lines[1] != "Financial Summary for Acme Industries Ltd" || lines[2] != rule {
		t.Errorf("unexpected title block:\n%s", strings.Join(lines[:3], "\n"))
	}
	if lines[len(lines)-1] != rule {
		t.Errorf("last line = %q, want rule", lines[len(lines)-1])
	}

	for _, want := range []string{
		TitleROE + ":",
		"15%",
		NoGrowth,
		TitleQuarterly + ":",
		"540",
		NotAvailable,
		TitleMetrics + ":",
		"21.4",
		"1.20",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToText() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "500") {
		t.Errorf("ToText() shows more than the last two quarters:\n%s", out)
	}
	if strings.Contains(out, TitleExtra) {
		t.Errorf("ToText() shows an empty %s section", TitleExtra)
	}
}

func TestSummary_ToText_NothingAvailable(t *testing.T) {
	t.Parallel()

	out, err := (&Summary{Company: "Unknown Company"}).ToText()
	if err != nil {
		t.Fatalf("ToText() error = %v", err)
	}
	for _, want := range []string{NoROE, NoGrowth, NoQuarterly, NoMetrics} {
		if !strings.Contains(out, want) {
			t.Errorf("ToText() missing %q", want)
		}
	}
}

func TestSummary_ToMarkdown(t *testing.T) {
	t.Parallel()

	s := sampleSummary()
	s.About = "Makes anvils."
	s.Extra = extract.NewSeries("Dividend Yield", "")

	out, err := s.ToMarkdown()
	if err != nil {
		t.Fatalf("ToMarkdown() error = %v", err)
	}
	for _, want := range []string{
		"# Financial Summary for Acme Industries Ltd",
		"## About",
		"Makes anvils.",
		"## " + TitleROE,
		"## " + TitleGrowth,
		NoGrowth,
		"standalone",
		"| Dividend Yield",
		NotAvailable,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ToMarkdown() missing %q in:\n%s", want, out)
		}
	}
}

func TestSummary_ToHTML(t *testing.T) {
	t.Parallel()

	out, err := sampleSummary().ToHTML()
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	for _, want := range []string{"<h1>Financial Summary for Acme Industries Ltd</h1>", "<table>", "540"} {
		if !strings.Contains(out, want) {
			t.Errorf("ToHTML() missing %q in:\n%s", want, out)
		}
	}
}

func TestSummary_ToJSON(t *testing.T) {
	t.Parallel()

	b, err := sampleSummary().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	if i, j := strings.Index(string(b), "Mar 2022"), strings.Index(string(b), "Mar 2023"); i < 0 || j < i {
		t.Errorf("ROE periods out of page order:\n%s", b)
	}

	var got struct {
		Symbol string            `json:"symbol"`
		ROE    map[string]string `json:"roe"`
		Ratios map[string]string `json:"ratios"`
		PEG    float64           `json:"peg"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Symbol != "ACME" || got.PEG != 1.2 {
		t.Errorf("symbol/peg = %q/%v", got.Symbol, got.PEG)
	}
	if diff := cmp.Diff(map[string]string{"Stock P/E": "25.0", "Industry P/E": "21.4"}, got.Ratios); diff != "" {
		t.Errorf("ratios mismatch (-want +got):\n%s", diff)
	}
}

func TestSummary_ToCSV(t *testing.T) {
	t.Parallel()

	out, err := sampleSummary().ToCSV()
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := [][]string{
		{"section", "metric", "period", "value"},
		{"roe", "ROE", "Mar 2022", "14%"},
		{"roe", "ROE", "Mar 2023", "15%"},
		{"quarterly", "Revenue", "Jun 2023", "500"},
		{"quarterly", "Revenue", "Sep 2023", "520"},
		{"quarterly", "Revenue", "Dec 2023", "540"},
		{"quarterly", "Net Profit", "Jun 2023", "60"},
		{"quarterly", "Net Profit", "Sep 2023", "62"},
		{"ratios", extract.StockPE, "", "25.0"},
		{"ratios", extract.IndustryPE, "", "21.4"},
		{"ratios", extract.PEGRatio, "", "1.20"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("ToCSV() mismatch (-want +got):\n%s", diff)
	}
}
