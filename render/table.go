// Package render turns computed cube views into render-ready structures:
// tables for terminals and CSV exports, chart configs for frontends.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/andreipak/hypercube/cube"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from cube measure rows
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// BuildTable computes the cube's measure across the cross product of
// dimNames and lays the result out as one table row per point: dimension
// value columns followed by the measure column.
func BuildTable(c *cube.Cube, dimNames ...string) (*TableData, error) {
	rows, err := c.Measures(dimNames...)
	if err != nil {
		return nil, err
	}

	columns := make([]Column, 0, len(dimNames)+1)
	for _, name := range dimNames {
		columns = append(columns, Column{
			Key:   name,
			Label: labelFor(name),
			Type:  "text",
			Align: "left",
		})
	}
	columns = append(columns, Column{
		Key:   cube.RowMeasureKey,
		Label: "Measure",
		Type:  "number",
		Align: "right",
	})

	out := make([][]string, 0, len(rows))
	var total float64
	summable := true
	for _, row := range rows {
		cells := make([]string, 0, len(columns))
		for _, name := range dimNames {
			cells = append(cells, cellString(row[name]))
		}
		cells = append(cells, cellString(row[cube.RowMeasureKey]))
		out = append(out, cells)

		if v, ok := numeric(row[cube.RowMeasureKey]); ok {
			total += v
		} else {
			summable = false
		}
	}

	td := &TableData{
		Title:   c.String(),
		Columns: columns,
		Rows:    out,
	}
	if summable && len(out) > 0 {
		td.Summary = &Summary{
			Label: fmt.Sprintf("Total (%d rows)", len(out)),
			Values: map[string]string{
				cube.RowMeasureKey: cellString(total),
			},
		}
	}
	return td, nil
}

// ============================================================================
// TEXT OUTPUT — aligned terminal table
// ============================================================================

// Text renders the table as aligned plain text.
func (t *TableData) Text() string {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = len(col.Label)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(t.Title)
		b.WriteByte('\n')
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i < len(t.Columns) && t.Columns[i].Align == "right" {
				b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				if i < len(cells)-1 {
					b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
				}
			}
		}
		b.WriteByte('\n')
	}

	labels := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		labels[i] = col.Label
	}
	writeRow(labels)

	sepWidth := 0
	for i, w := range widths {
		if i > 0 {
			sepWidth += 2
		}
		sepWidth += w
	}
	b.WriteString(strings.Repeat("-", sepWidth))
	b.WriteByte('\n')

	for _, row := range t.Rows {
		writeRow(row)
	}

	if t.Summary != nil {
		b.WriteString(t.Summary.Label)
		for _, v := range t.Summary.Values {
			b.WriteString(": ")
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCSV writes the table as CSV: header row, data rows, no summary.
func (t *TableData) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// HELPERS
// ============================================================================

// labelFor capitalizes a column key for display.
func labelFor(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func cellString(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.2f", n)
	}
	return fmt.Sprint(v)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
