package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreipak/hypercube/cube"
	"github.com/andreipak/hypercube/dataset"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	table := dataset.NewTable([]dataset.Row{
		{"first_name": "Bill", "instrument": "piano"},
		{"first_name": "Bill", "instrument": "saxophone"},
		{"first_name": "Miles", "instrument": "trumpet"},
	})
	c, err := cube.New(
		[]cube.Dimension{
			cube.NewDim("first_name", "Bill", "Miles"),
			cube.NewDim("instrument", "piano", "saxophone", "trumpet"),
		},
		[]cube.Measure{dataset.Count(table)},
		cube.WithSource(table),
		cube.WithSortKey(dataset.PointKey),
		cube.WithName("Musicians"),
	)
	require.NoError(t, err)
	return NewServer(c, Config{})
}

func doGET(t *testing.T, e *echo.Echo, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetCube(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/cube")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Musicians(first_name, instrument)", body["cube"])
	assert.Equal(t, []any{"first_name", "instrument"}, body["dimensions"])
	assert.Equal(t, map[string]any{}, body["constraint"])
}

func TestGetSlice(t *testing.T) {
	e := newTestServer(t)

	code, body := doGET(t, e, "/api/slice?first_name=Miles&instrument=trumpet")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{1.0}, body["measures"])

	code, body = doGET(t, e, "/api/slice?first_name=Bill&instrument=trumpet")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{0.0}, body["measures"], "non-matching constraints count zero")
}

func TestGetSliceIgnoresUnknownParams(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/slice?flavor=sweet")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{3.0}, body["measures"], "parameters naming no dimension are view options, not errors")
}

func TestGetRows(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/rows?dims=first_name")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2.0, body["total"])
	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Bill", first["first_name"])
	assert.Equal(t, 2.0, first[cube.RowMeasureKey])
}

func TestGetList(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/list?dims=first_name")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{2.0, 1.0}, body["list"])
}

func TestGetDict(t *testing.T) {
	e := newTestServer(t)

	code, body := doGET(t, e, "/api/dict?dims=first_name&full=false")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"Bill":  map[string]any{cube.MeasureKey: 2.0},
		"Miles": map[string]any{cube.MeasureKey: 1.0},
	}, body)

	code, body = doGET(t, e, "/api/dict?dims=first_name")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3.0, body[cube.MeasureKey], "full view carries the level aggregate")
	assert.Contains(t, body, cube.SlicesKey)
}

func TestInvalidDimensionIsBadRequest(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/rows?dims=flavor")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "flavor")
}

func TestGetChart(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/chart?dims=instrument&type=pie")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pie", body["chartType"])
	assert.Equal(t, false, body["showGrid"])
	series := body["series"].([]any)
	require.Len(t, series, 1)
}

func TestGetTableView(t *testing.T) {
	e := newTestServer(t)
	code, body := doGET(t, e, "/api/table?dims=first_name&instrument=piano")

	assert.Equal(t, http.StatusOK, code)
	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"Bill", "1"}, rows[0])
	assert.Equal(t, []any{"Miles", "0"}, rows[1])
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.EnableCORS)

	t.Setenv("CUBE_ADDR", ":9999")
	t.Setenv("CUBE_CORS", "false")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.False(t, cfg.EnableCORS)
}
