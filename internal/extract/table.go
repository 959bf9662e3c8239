package extract

import "finscreen/internal/dom"

// Statement table selectors on the company page.
const (
	ProfitLossSelector = "#profit-loss"
	QuarterlySelector  = "#quarters"
)

// MetricTable is a statement table: ordered column labels and, per row label,
// the row's cells keyed by column label. Every row holds exactly one cell per
// column.
type MetricTable struct {
	Columns []string
	Rows    Ordered[*Series]
}

// Row returns the row with the given label.
func (t *MetricTable) Row(label string) (*Series, bool) {
	return t.Rows.Get(label)
}

// FindRow returns the first row whose label contains any of subs.
func (t *MetricTable) FindRow(subs ...string) (string, *Series, bool) {
	label, ok := t.Rows.KeyContaining(subs...)
	if !ok {
		return "", nil, false
	}
	row, _ := t.Rows.Get(label)
	return label, row, true
}

// Len returns the number of rows.
func (t *MetricTable) Len() int {
	return t.Rows.Len()
}

// ExtractTable reads the table found by selector. Header cells after the
// row-label column become the columns; each body row is padded with empty
// cells or truncated to the column count. A missing table yields an empty
// MetricTable and found=false.
func ExtractTable(doc *dom.Document, selector string) (table *MetricTable, found bool) {
	table = &MetricTable{}
	root, ok := doc.SelectOne(selector)
	if !ok {
		return table, false
	}

	headers := root.Select("thead th")
	if len(headers) > 1 {
		for _, th := range headers[1:] {
			table.Columns = append(table.Columns, th.Text())
		}
	}

	for _, tr := range root.Select("tbody tr") {
		cells := tr.Select("td")
		if len(cells) == 0 {
			continue
		}
		values := make([]string, len(table.Columns))
		for i, td := range cells[1:] {
			if i >= len(values) {
				break
			}
			values[i] = td.Text()
		}
		row := &Series{}
		for i, col := range table.Columns {
			row.Set(col, values[i])
		}
		table.Rows.Set(cells[0].Text(), row)
	}
	return table, true
}
