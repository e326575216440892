// Package dataset provides data-source collaborators for cubes: an in-memory
// row table, a SQLite-backed table, CSV loading, and heuristic schema
// inference. The cube core treats all of them as opaque sources.
package dataset

import (
	"sort"
	"strings"

	"github.com/andreipak/hypercube/cube"
)

// Row is a single data row keyed by column name. Values are either string
// (dimension-like) or float64 (measure-like) after CSV parsing, but any
// comparable value works.
type Row map[string]any

// ============================================================================
// TABLE — in-memory row collection
// ============================================================================
// Table backs a cube with a plain []Row: it filters rows against constraint
// sets for measure computation and enumerates cross-product sample spaces
// for slice iteration. Zero-copy throughout: filtering returns the original
// row maps, never duplicates.
// ============================================================================

// Table is an in-memory row collection implementing cube.Source.
type Table struct {
	rows []Row
}

// NewTable wraps rows in a Table. The table holds a reference; callers must
// not mutate rows afterwards.
func NewTable(rows []Row) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the underlying rows. Read-only.
func (t *Table) Rows() []Row { return t.rows }

// Filter returns the rows matching every key/value pair of the constraint.
// Single pass; a row passes only if all constrained columns match exactly.
func (t *Table) Filter(c cube.Constraint) []Row {
	if len(c) == 0 {
		return t.rows
	}
	matched := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		pass := true
		for name, want := range c {
			if row[name] != want {
				pass = false
				break
			}
		}
		if pass {
			matched = append(matched, row)
		}
	}
	return matched
}

// Distinct returns the distinct values of a column in first-seen order.
// Empty values are skipped.
func (t *Table) Distinct(column string) []any {
	seen := make(map[any]bool)
	var values []any
	for _, row := range t.rows {
		v, ok := row[column]
		if !ok || v == "" || v == nil {
			continue
		}
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values
}

// SampleSpace enumerates the cross product of the distinct values of the
// named columns, one constraint point per combination. The first name varies
// slowest. Order follows each column's first-seen value order.
func (t *Table) SampleSpace(dimNames ...string) ([]cube.Constraint, error) {
	if len(dimNames) == 0 {
		return nil, nil
	}
	points := []cube.Constraint{make(cube.Constraint)}
	for _, name := range dimNames {
		values := t.Distinct(name)
		next := make([]cube.Constraint, 0, len(points)*len(values))
		for _, base := range points {
			for _, v := range values {
				point := make(cube.Constraint, len(base)+1)
				for k, bv := range base {
					point[k] = bv
				}
				point[name] = v
				next = append(next, point)
			}
		}
		points = next
	}
	return points, nil
}

// PointKey is a deterministic sort key over constraint points: name=value
// pairs joined in name order. Suitable for cube.WithSortKey.
func PointKey(point cube.Constraint) string {
	parts := make([]string, 0, len(point))
	for name, value := range point {
		parts = append(parts, name+"="+stringify(value))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
