// Package api exposes a cube over HTTP: slicing, measure rows, nested
// aggregation views, and chart configs.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/andreipak/hypercube/cube"
	"github.com/andreipak/hypercube/render"
)

// Handler serves one cube. The cube is never mutated: every request slices a
// fresh child, so concurrent requests are safe.
type Handler struct {
	cube *cube.Cube
}

// NewHandler creates a handler for a cube.
func NewHandler(c *cube.Cube) *Handler {
	return &Handler{cube: c}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/cube", h.GetCube)
	api.GET("/slice", h.GetSlice)
	api.GET("/rows", h.GetRows)
	api.GET("/list", h.GetList)
	api.GET("/dict", h.GetDict)
	api.GET("/table", h.GetTable)
	api.GET("/chart", h.GetChart)
}

// GetCube returns the cube's identity: dimensions, constraint, display form.
func (h *Handler) GetCube(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"cube":       h.cube.String(),
		"dimensions": h.cube.DimNames(),
		"constraint": h.cube.Constraint(),
	})
}

// GetSlice narrows the cube by the query parameters that name dimensions and
// computes every measure of the resulting slice.
//
//	GET /api/slice?instrument=trumpet&first_name=Miles
func (h *Handler) GetSlice(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	computed, err := slc.Compute()
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cube":       slc.String(),
		"constraint": slc.Constraint(),
		"measures":   computed,
	})
}

// GetRows returns the flattened row view across the requested dimensions.
//
//	GET /api/rows?dims=instrument,first_name
func (h *Handler) GetRows(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	rows, err := slc.Measures(dimsParam(c)...)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cube":  slc.String(),
		"rows":  rows,
		"total": len(rows),
	})
}

// GetList returns the nested-list view across the requested dimensions.
func (h *Handler) GetList(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	list, err := slc.MeasuresList(dimsParam(c)...)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"cube": slc.String(),
		"list": list,
	})
}

// GetDict returns the nested-mapping view across the requested dimensions.
// full=false omits per-level aggregates.
func (h *Handler) GetDict(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	full := true
	if v := c.QueryParam("full"); v != "" {
		full = v != "false" && v != "0"
	}
	dict, err := slc.MeasuresDict(full, dimsParam(c)...)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, dict)
}

// GetTable returns a render-ready table over the requested dimensions.
func (h *Handler) GetTable(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	table, err := render.BuildTable(slc, dimsParam(c)...)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// GetChart returns a render-ready chart config over the requested dimensions.
//
//	GET /api/chart?dims=instrument&type=pie
func (h *Handler) GetChart(c echo.Context) error {
	slc, err := h.sliceFromQuery(c)
	if err != nil {
		return httpError(c, err)
	}
	chart, err := render.BuildChart(slc, c.QueryParam("type"), dimsParam(c)...)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, chart)
}

// ============================================================================
// REQUEST PARSING
// ============================================================================

// sliceFromQuery applies every query parameter naming a declared dimension as
// a constraint. Unknown parameters (dims, full, type) are ignored rather than
// rejected so view options can ride alongside constraints.
func (h *Handler) sliceFromQuery(c echo.Context) (*cube.Cube, error) {
	declared := make(map[string]bool)
	for _, name := range h.cube.DimNames() {
		declared[name] = true
	}

	extra := make(cube.Constraint)
	for name, values := range c.QueryParams() {
		if !declared[name] || len(values) == 0 {
			continue
		}
		extra[name] = parseValue(values[0])
	}
	if len(extra) == 0 {
		return h.cube, nil
	}
	return h.cube.Slice(extra)
}

// dimsParam reads the comma-separated dims parameter.
func dimsParam(c echo.Context) []string {
	raw := c.QueryParam("dims")
	if raw == "" {
		return nil
	}
	var dims []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			dims = append(dims, part)
		}
	}
	return dims
}

// parseValue mirrors the CSV loader's auto-typing so query constraints match
// loaded values: numeric strings become float64.
func parseValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// httpError maps library errors onto status codes: caller errors are 400,
// missing collaborator hooks 501, everything else 500.
func httpError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cube.ErrInvalidDimension):
		status = http.StatusBadRequest
	case errors.Is(err, cube.ErrUnimplemented):
		status = http.StatusNotImplemented
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
