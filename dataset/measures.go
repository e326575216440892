package dataset

import (
	"fmt"
	"math"

	"github.com/andreipak/hypercube/cube"
)

// ============================================================================
// TABLE MEASURES — Count / Sum / Avg / Min / Max over filtered rows
// ============================================================================
// Each measure filters the table against the calling cube's constraint set
// and aggregates one column. Pure functions of the constraint; no per-slice
// state.
// ============================================================================

// Count counts the rows matching the cube's constraint.
func Count(t *Table) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		return len(t.Filter(c.Constraint())), nil
	})
}

// Sum totals a numeric column over the matching rows.
func Sum(t *Table, column string) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		var total float64
		for _, row := range t.Filter(c.Constraint()) {
			if v, ok := asFloat(row[column]); ok {
				total += v
			}
		}
		return total, nil
	})
}

// Avg averages a numeric column over the matching rows. Zero when no row
// carries the column.
func Avg(t *Table, column string) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		var total float64
		var n int
		for _, row := range t.Filter(c.Constraint()) {
			if v, ok := asFloat(row[column]); ok {
				total += v
				n++
			}
		}
		if n == 0 {
			return float64(0), nil
		}
		return total / float64(n), nil
	})
}

// Max returns the largest value of a numeric column over the matching rows.
func Max(t *Table, column string) cube.Measure {
	return extremum(t, column, func(v, m float64) bool { return v > m }, math.Inf(-1))
}

// Min returns the smallest value of a numeric column over the matching rows.
func Min(t *Table, column string) cube.Measure {
	return extremum(t, column, func(v, m float64) bool { return v < m }, math.Inf(1))
}

func extremum(t *Table, column string, better func(v, m float64) bool, start float64) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		m := start
		found := false
		for _, row := range t.Filter(c.Constraint()) {
			if v, ok := asFloat(row[column]); ok {
				if !found || better(v, m) {
					m = v
					found = true
				}
			}
		}
		if !found {
			return float64(0), nil
		}
		return m, nil
	})
}

// asFloat extracts a numeric value from a row cell.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// stringify renders a cell value for keys and text output.
func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// Drop the trailing ".000000" noise for whole numbers.
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	}
	return fmt.Sprint(v)
}
