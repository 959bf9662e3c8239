package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"finscreen/internal/extract"

	"github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// rule is the delimiter line of the text report.
var rule = strings.Repeat("=", 50)

// ToText renders the summary as the console report: a delimited title and
// one grid per section.
func (s *Summary) ToText() (string, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Financial Summary for %s\n", s.Company)
	fmt.Fprintln(&buf, rule)

	for _, t := range s.sections() {
		fmt.Fprintln(&buf)
		if len(t.rows) == 0 {
			fmt.Fprintln(&buf, t.missing)
			continue
		}
		fmt.Fprintf(&buf, "%s:\n", t.title)
		if err := writeGrid(&buf, t.header, t.rows); err != nil {
			return "", fmt.Errorf("failed to render %s: %w", t.title, err)
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, rule)
	return buf.String(), nil
}

func writeGrid(buf *bytes.Buffer, header []string, rows [][]string) error {
	tw := tablewriter.NewWriter(buf)
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	tw.Header(cols...)
	for _, row := range rows {
		if err := tw.Append(row); err != nil {
			return err
		}
	}
	return tw.Render()
}

// ToMarkdown renders the summary as a Markdown document.
func (s *Summary) ToMarkdown() (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Financial Summary for " + s.Company)
	md.PlainText("")
	info := [][]string{
		{"Symbol", s.Symbol},
		{"Statements", s.Statement()},
	}
	if s.URL != "" {
		info = append(info, []string{"Source", s.URL})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: info})
	md.PlainText("")

	if s.About != "" {
		md.H2("About")
		md.PlainText(s.About)
		md.PlainText("")
	}

	for _, t := range s.sections() {
		md.H2(t.title)
		if len(t.rows) == 0 {
			md.PlainText(t.missing)
		} else {
			md.Table(markdown.TableSet{Header: t.header, Rows: t.rows})
		}
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("failed to build markdown: %w", err)
	}
	return buf.String(), nil
}

// ToHTML renders the Markdown report to HTML with GitHub tables enabled.
func (s *Summary) ToHTML() (string, error) {
	src, err := s.ToMarkdown()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := gm.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

// ToJSON returns the summary as indented JSON. Series keep page order.
func (s *Summary) ToJSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ToCSV returns one record per value: section, metric, period, value.
func (s *Summary) ToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"section", "metric", "period", "value"})

	write := func(section, metric string, series *extract.Series) {
		series.Each(func(period, value string) {
			_ = w.Write([]string{section, metric, period, value})
		})
	}
	write("roe", "ROE", s.ROE)
	write("growth", "Sales Growth", s.SalesGrowth)
	write("quarterly", "Revenue", s.Quarterly.Revenue)
	write("quarterly", "Net Profit", s.Quarterly.NetProfit)
	for _, p := range s.KeyMetrics() {
		_ = w.Write([]string{"ratios", p.Label, "", p.Value})
	}
	s.Extra.Each(func(label, value string) {
		_ = w.Write([]string{"extra", label, "", value})
	})

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.String(), nil
}
