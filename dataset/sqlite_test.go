package dataset

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreipak/hypercube/cube"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE sales (region TEXT, product TEXT, revenue REAL)`)
	require.NoError(t, err)
	for _, row := range salesRows() {
		_, err = db.Exec(`INSERT INTO sales (region, product, revenue) VALUES (?, ?, ?)`,
			row["region"], row["product"], row["revenue"])
		require.NoError(t, err)
	}
	return db
}

func TestSQLTableSampleSpace(t *testing.T) {
	src, err := NewSQLTable(openTestDB(t), "sales")
	require.NoError(t, err)

	points, err := src.SampleSpace("region", "product")
	require.NoError(t, err)
	// DISTINCT over combinations present in the data, ordered by the columns,
	// so the duplicate US/widget rows collapse into one point.
	assert.Equal(t, []cube.Constraint{
		{"region": "EU", "product": "gadget"},
		{"region": "EU", "product": "widget"},
		{"region": "US", "product": "widget"},
	}, points)

	points, err = src.SampleSpace()
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestSQLTableRejectsBadIdentifiers(t *testing.T) {
	db := openTestDB(t)

	_, err := NewSQLTable(db, "sales; DROP TABLE sales")
	assert.Error(t, err)

	src, err := NewSQLTable(db, "sales")
	require.NoError(t, err)
	_, err = src.SampleSpace(`region" FROM sqlite_master --`)
	assert.Error(t, err)
}

func TestSQLMeasures(t *testing.T) {
	src, err := NewSQLTable(openTestDB(t), "sales")
	require.NoError(t, err)

	c, err := cube.New(
		[]cube.Dimension{cube.NewDim("region", "EU", "US"), cube.NewDim("product", "widget", "gadget")},
		[]cube.Measure{SQLCount(src), SQLSum(src, "revenue")},
		cube.WithSource(src),
	)
	require.NoError(t, err)

	computed, err := c.Compute()
	require.NoError(t, err)
	assert.Equal(t, []any{4, 450.0}, computed)

	slc, err := c.Slice(cube.Constraint{"region": "US"})
	require.NoError(t, err)
	computed, err = slc.Compute()
	require.NoError(t, err)
	assert.Equal(t, []any{2, 100.0}, computed)

	slc, err = c.Slice(cube.Constraint{"region": "EU", "product": "saxophone"})
	require.NoError(t, err)
	computed, err = slc.Compute()
	require.NoError(t, err)
	assert.Equal(t, []any{0, 0.0}, computed, "empty result sets aggregate to zero")
}

func TestSQLBackedCubeViews(t *testing.T) {
	src, err := NewSQLTable(openTestDB(t), "sales")
	require.NoError(t, err)

	c, err := cube.New(
		[]cube.Dimension{
			cube.NewDimFunc("region", distinctColumn(src, "region")),
			cube.NewDimFunc("product", distinctColumn(src, "product")),
		},
		[]cube.Measure{SQLCount(src)},
		cube.WithSource(src),
		cube.WithSortKey(PointKey),
	)
	require.NoError(t, err)

	dict, err := c.MeasuresDict(false, "region")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"EU": map[string]any{cube.MeasureKey: 2},
		"US": map[string]any{cube.MeasureKey: 2},
	}, dict)

	rows, err := c.Measures("region", "product")
	require.NoError(t, err)
	// Only the combinations present in the table, one row each.
	require.Len(t, rows, 3)
	assert.Equal(t, "EU", rows[0]["region"])
	assert.Equal(t, "gadget", rows[0]["product"])
	assert.Equal(t, 1, rows[0][cube.RowMeasureKey])
}

func distinctColumn(src *SQLTable, column string) func() ([]any, error) {
	return func() ([]any, error) {
		points, err := src.SampleSpace(column)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(points))
		for i, p := range points {
			values[i] = p[column]
		}
		return values, nil
	}
}
