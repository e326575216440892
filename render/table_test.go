package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreipak/hypercube/cube"
	"github.com/andreipak/hypercube/dataset"
)

func salesCube(t *testing.T) *cube.Cube {
	t.Helper()
	table := dataset.NewTable([]dataset.Row{
		{"region": "EU", "product": "widget", "revenue": 100.0},
		{"region": "EU", "product": "gadget", "revenue": 250.0},
		{"region": "US", "product": "widget", "revenue": 75.0},
		{"region": "US", "product": "widget", "revenue": 25.0},
	})
	c, err := cube.New(
		[]cube.Dimension{cube.NewDim("region", "EU", "US"), cube.NewDim("product", "widget", "gadget")},
		[]cube.Measure{dataset.Sum(table, "revenue")},
		cube.WithSource(table),
		cube.WithSortKey(dataset.PointKey),
		cube.WithName("Sales"),
	)
	require.NoError(t, err)
	return c
}

func TestBuildTableSingleDimension(t *testing.T) {
	td, err := BuildTable(salesCube(t), "region")
	require.NoError(t, err)

	assert.Equal(t, "Sales(product, region)", td.Title)
	require.Len(t, td.Columns, 2)
	assert.Equal(t, Column{Key: "region", Label: "Region", Type: "text", Align: "left"}, td.Columns[0])
	assert.Equal(t, "number", td.Columns[1].Type)

	assert.Equal(t, [][]string{
		{"EU", "350"},
		{"US", "100"},
	}, td.Rows)

	require.NotNil(t, td.Summary)
	assert.Equal(t, "Total (2 rows)", td.Summary.Label)
	assert.Equal(t, "450", td.Summary.Values[cube.RowMeasureKey])
}

func TestBuildTableTwoDimensions(t *testing.T) {
	td, err := BuildTable(salesCube(t), "region", "product")
	require.NoError(t, err)

	// The cross product includes combinations with no matching rows.
	assert.Equal(t, [][]string{
		{"EU", "gadget", "250"},
		{"US", "gadget", "0"},
		{"EU", "widget", "100"},
		{"US", "widget", "100"},
	}, td.Rows)
}

func TestBuildTableInvalidDimension(t *testing.T) {
	_, err := BuildTable(salesCube(t), "flavor")
	assert.ErrorIs(t, err, cube.ErrInvalidDimension)
}

func TestTableText(t *testing.T) {
	td, err := BuildTable(salesCube(t), "region")
	require.NoError(t, err)

	text := td.Text()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Sales(product, region)", lines[0])
	assert.Equal(t, "Region  Measure", lines[1])
	assert.Equal(t, strings.Repeat("-", 15), lines[2])
	assert.Equal(t, "EU          350", lines[3], "measure cells are right aligned")
	assert.Equal(t, "US          100", lines[4])
	assert.Equal(t, "Total (2 rows): 450", lines[5])
}

func TestTableWriteCSV(t *testing.T) {
	td, err := BuildTable(salesCube(t), "region")
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, td.WriteCSV(&b))
	assert.Equal(t, "Region,Measure\nEU,350\nUS,100\n", b.String(),
		"CSV carries no summary row")
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "EU", cellString("EU"))
	assert.Equal(t, "350", cellString(350.0), "whole floats render without decimals")
	assert.Equal(t, "12.50", cellString(12.5))
	assert.Equal(t, "7", cellString(7))
}
