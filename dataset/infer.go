package dataset

import (
	"fmt"
	"math"
	"slices"

	"github.com/andreipak/hypercube/cube"
)

// ============================================================================
// SCHEMA INFERENCE — Heuristic column classification
// ============================================================================
// Inspects parsed rows and decides which columns are dimensions (categorical,
// sliceable) and which are measures (numeric, aggregatable). No configuration
// needed for well-structured tabular data.
//
// Classification per column:
//   1. Type: numeric if every non-empty value is numeric, string otherwise
//   2. Unique-per-row columns are identifiers, skipped
//   3. Decimals signal continuous data: always a measure
//   4. Low-cardinality integers (priority codes, ratings) stay dimensions
// ============================================================================

// Schema describes which columns of a dataset act as dimensions and which as
// measures.
type Schema struct {
	Name       string
	Dimensions []string
	Measures   []string
	Skipped    []SkippedColumn
}

// SkippedColumn records why a column was excluded during inference.
type SkippedColumn struct {
	Column string
	Reason string
}

// Infer classifies columns by inspecting the rows. keys sets the column
// order; columns absent from every row are skipped.
func Infer(name string, keys []string, rows []Row) *Schema {
	s := &Schema{Name: name}
	if s.Name == "" {
		s.Name = "Cube"
	}

	for _, key := range keys {
		role, reason := classifyColumn(key, rows)
		switch role {
		case roleDimension:
			s.Dimensions = append(s.Dimensions, key)
		case roleMeasure:
			s.Measures = append(s.Measures, key)
		case roleSkipped:
			s.Skipped = append(s.Skipped, SkippedColumn{Column: key, Reason: reason})
		}
	}
	return s
}

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

func classifyColumn(key string, rows []Row) (columnRole, string) {
	total := 0
	numeric := 0
	hasDecimals := false
	unique := make(map[any]bool)

	for _, row := range rows {
		v, ok := row[key]
		if !ok || v == nil || v == "" {
			continue
		}
		total++
		unique[v] = true
		if f, ok := asFloat(v); ok {
			numeric++
			if f != math.Trunc(f) {
				hasDecimals = true
			}
		}
	}

	if total == 0 {
		return roleSkipped, "all values are empty"
	}

	allNumeric := numeric == total

	// Unique per row means an identifier, not an axis or an aggregate.
	// Decimal columns are exempt: IDs are integers or strings.
	if len(unique) == total && total > 10 && !hasDecimals {
		if allNumeric {
			return roleSkipped, "unique per row, likely an ID column"
		}
		return roleSkipped, "unique per row, likely an identifier"
	}

	if allNumeric {
		if hasDecimals {
			return roleMeasure, ""
		}
		// Low-cardinality integers are coded dimensions (priority 1-5).
		ratio := float64(len(unique)) / float64(total)
		if len(unique) < 20 && ratio < 0.3 {
			return roleDimension, ""
		}
		return roleMeasure, ""
	}

	return roleDimension, ""
}

// ============================================================================
// CUBE ASSEMBLY
// ============================================================================

// BuildCube assembles a ready-to-slice cube over the table: one dimension per
// inferred dimension column (sample space enumerated lazily from the table)
// and a single measure. measureColumn selects a Sum measure over an inferred
// measure column; empty selects a row count.
func BuildCube(t *Table, s *Schema, measureColumn string) (*cube.Cube, error) {
	if len(s.Dimensions) == 0 {
		return nil, fmt.Errorf("schema %q has no dimension columns", s.Name)
	}

	dims := make([]cube.Dimension, len(s.Dimensions))
	for i, name := range s.Dimensions {
		column := name
		dims[i] = cube.NewDimFunc(column, func() ([]any, error) {
			return t.Distinct(column), nil
		})
	}

	var measure cube.Measure
	if measureColumn == "" {
		measure = Count(t)
	} else {
		if !slices.Contains(s.Measures, measureColumn) {
			return nil, fmt.Errorf("column %q is not an inferred measure of %q", measureColumn, s.Name)
		}
		measure = Sum(t, measureColumn)
	}

	return cube.New(dims, []cube.Measure{measure},
		cube.WithSource(t),
		cube.WithSortKey(PointKey),
		cube.WithName(s.Name),
	)
}
