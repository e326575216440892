package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================================
// CSV LOADER — Parses CSV bytes into rows
// ============================================================================
// The consumer reads the CSV from wherever it lives (file, S3, Sheets); this
// helper converts the raw bytes into rows with numeric auto-typing. Column
// keys are snake_cased so they double as dimension names.
// ============================================================================

// ParseCSV parses CSV bytes into rows. Values that parse as numbers become
// float64, everything else stays string. Returns the rows and the normalized
// column keys in header order. Malformed rows are skipped.
func ParseCSV(data []byte) ([]Row, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(Row, len(keys))
		for i, val := range record {
			if i >= len(keys) {
				break
			}
			val = strings.TrimSpace(val)
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				row[keys[i]] = f
			} else {
				row[keys[i]] = val
			}
		}
		rows = append(rows, row)
	}

	return rows, keys, nil
}

// toSnakeCase converts "Column Name" to "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
