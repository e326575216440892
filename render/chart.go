package render

import (
	"math"

	"github.com/andreipak/hypercube/cube"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from cube measure rows
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BuildChart charts the cube's measure along one or two dimensions. One
// dimension produces a single series; two produce one series per value of
// the second dimension, aligned on the first dimension's labels. Non-numeric
// measure values chart as zero.
func BuildChart(c *cube.Cube, chartType string, dimNames ...string) (*ChartConfig, error) {
	if chartType == "" {
		chartType = "bar"
	}

	config := &ChartConfig{
		ChartType:  chartType,
		Title:      c.String(),
		ShowLegend: true,
		ShowGrid:   chartType != "pie",
	}
	if len(dimNames) > 0 {
		config.XAxis = labelFor(dimNames[0])
	}
	config.YAxis = "Measure"

	var err error
	if len(dimNames) >= 2 {
		config.Series, err = buildMultiSeries(c, dimNames[0], dimNames[1])
	} else {
		config.Series, err = buildSingleSeries(c, dimNames...)
	}
	if err != nil {
		return nil, err
	}

	config.Colors = assignColors(len(config.Series))
	return config, nil
}

func buildSingleSeries(c *cube.Cube, dimNames ...string) ([]ChartSeries, error) {
	rows, err := c.Measures(dimNames...)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, 0, len(rows))
	for _, row := range rows {
		label := ""
		if len(dimNames) > 0 {
			label = cellString(row[dimNames[0]])
		}
		v, _ := numeric(row[cube.RowMeasureKey])
		points = append(points, ChartPoint{Label: label, Value: roundTo2(v)})
	}

	return []ChartSeries{{Name: "Measure", Data: points}}, nil
}

// buildMultiSeries aligns every series on the primary dimension's labels so
// stacked and grouped charts stay rectangular.
func buildMultiSeries(c *cube.Cube, primary, secondary string) ([]ChartSeries, error) {
	rows, err := c.Measures(primary, secondary)
	if err != nil {
		return nil, err
	}

	var labels []string
	labelSeen := make(map[string]bool)
	var seriesKeys []string
	seriesSeen := make(map[string]bool)
	values := make(map[[2]string]float64)

	for _, row := range rows {
		label := cellString(row[primary])
		key := cellString(row[secondary])
		if !labelSeen[label] {
			labelSeen[label] = true
			labels = append(labels, label)
		}
		if !seriesSeen[key] {
			seriesSeen[key] = true
			seriesKeys = append(seriesKeys, key)
		}
		v, _ := numeric(row[cube.RowMeasureKey])
		values[[2]string{label, key}] = v
	}

	series := make([]ChartSeries, 0, len(seriesKeys))
	for i, key := range seriesKeys {
		points := make([]ChartPoint, 0, len(labels))
		for _, label := range labels {
			points = append(points, ChartPoint{
				Label: label,
				Value: roundTo2(values[[2]string{label, key}]),
			})
		}
		series = append(series, ChartSeries{
			Name:  key,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}
	return series, nil
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
