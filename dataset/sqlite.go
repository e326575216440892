package dataset

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/andreipak/hypercube/cube"
	_ "modernc.org/sqlite"
)

// ============================================================================
// SQLITE SOURCE — Cube collaborators backed by a SQLite table
// ============================================================================
// Sample spaces come from SELECT DISTINCT; measures push the cube's
// constraint set into WHERE clauses instead of filtering in memory. The cube
// core never sees SQL: it only calls SampleSpace and Measure.Compute.
// ============================================================================

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLTable adapts one SQLite table to the cube contracts. Queries are
// synchronous; query errors propagate unchanged to the caller.
type SQLTable struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens a SQLite database file and binds one table.
func OpenSQLite(path, table string) (*SQLTable, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &SQLTable{db: db, table: table}, nil
}

// NewSQLTable binds a table on an existing database handle.
// The caller keeps ownership of the handle.
func NewSQLTable(db *sql.DB, table string) (*SQLTable, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLTable{db: db, table: table}, nil
}

// Close releases the database handle.
func (s *SQLTable) Close() error { return s.db.Close() }

// SampleSpace enumerates SELECT DISTINCT over the named columns, one
// constraint point per combination present in the data. Ordered by the
// columns for a deterministic source order.
func (s *SQLTable) SampleSpace(dimNames ...string) ([]cube.Constraint, error) {
	if len(dimNames) == 0 {
		return nil, nil
	}
	cols := make([]string, len(dimNames))
	for i, name := range dimNames {
		if !identPattern.MatchString(name) {
			return nil, fmt.Errorf("invalid column name %q", name)
		}
		cols[i] = quoteIdent(name)
	}

	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), quoteIdent(s.table), strings.Join(cols, ", "))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []cube.Constraint
	for rows.Next() {
		cells := make([]any, len(dimNames))
		ptrs := make([]any, len(dimNames))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		point := make(cube.Constraint, len(dimNames))
		for i, name := range dimNames {
			point[name] = normalizeSQLValue(cells[i])
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

// SQLCount counts the rows matching the cube's constraint with SELECT
// COUNT(*).
func SQLCount(s *SQLTable) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		where, args, err := s.whereClause(c.Constraint())
		if err != nil {
			return nil, err
		}
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoteIdent(s.table), where)
		if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
			return nil, err
		}
		return n, nil
	})
}

// SQLSum totals a numeric column over the rows matching the cube's
// constraint. Zero when no row matches.
func SQLSum(s *SQLTable, column string) cube.Measure {
	return cube.MeasureFunc(func(c *cube.Cube) (any, error) {
		if !identPattern.MatchString(column) {
			return nil, fmt.Errorf("invalid column name %q", column)
		}
		where, args, err := s.whereClause(c.Constraint())
		if err != nil {
			return nil, err
		}
		var total float64
		query := fmt.Sprintf("SELECT COALESCE(SUM(%s), 0) FROM %s%s",
			quoteIdent(column), quoteIdent(s.table), where)
		if err := s.db.QueryRow(query, args...).Scan(&total); err != nil {
			return nil, err
		}
		return total, nil
	})
}

// whereClause renders a constraint as " WHERE a = ? AND b = ?" plus bind
// arguments, keys in sorted order so queries are reproducible.
func (s *SQLTable) whereClause(c cube.Constraint) (string, []any, error) {
	if len(c) == 0 {
		return "", nil, nil
	}
	names := make([]string, 0, len(c))
	for name := range c {
		if !identPattern.MatchString(name) {
			return "", nil, fmt.Errorf("invalid column name %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	conds := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		conds[i] = quoteIdent(name) + " = ?"
		args[i] = c[name]
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func quoteIdent(name string) string { return `"` + name + `"` }

// normalizeSQLValue maps driver scan types onto the row value types the rest
// of the package uses.
func normalizeSQLValue(v any) any {
	switch b := v.(type) {
	case []byte:
		return string(b)
	}
	return v
}
