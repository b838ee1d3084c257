package render

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const lineTitle = "Daily freeCodeCamp Forum Page Views 5/2016-12/2019"

// 12x6 inches at 100 DPI.
const (
	lineWidthPx  = 1200
	lineHeightPx = 600
	lineDPI      = 100
)

// tabRed is matplotlib's "tab:red".
var tabRed = drawing.ColorFromHex("d62728")

// LineRenderer plots the series against time.
type LineRenderer struct {
	dir    string
	logger *slog.Logger
}

// NewLineRenderer creates a LineRenderer writing into dir.
func NewLineRenderer(dir string, logger *slog.Logger) *LineRenderer {
	return &LineRenderer{dir: dir, logger: logger}
}

// Name returns LineChart.
func (r *LineRenderer) Name() string { return LineChart }

// Render draws the line chart and writes line_plot.png.
func (r *LineRenderer) Render(ctx context.Context, s domain.Series) (Figure, error) {
	if err := ctx.Err(); err != nil {
		return Figure{}, err
	}
	if err := checkSeries(s); err != nil {
		return Figure{}, err
	}

	values := s.Values()
	graph := chart.Chart{
		Title:  lineTitle,
		Width:  lineWidthPx,
		Height: lineHeightPx,
		DPI:    lineDPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Name: "Page Views",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return formatCount(f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Page Views",
				Style: chart.Style{
					StrokeColor: tabRed,
					StrokeWidth: 1.5,
				},
				XValues: s.Dates(),
				YValues: values,
			},
		},
	}

	if s.Len() == 1 {
		graph.XAxis.Range, graph.YAxis.Range = singlePointRanges(s.At(0))
	}

	path, err := writeFile(r.dir, LineFile, func(w io.Writer) error {
		return graph.Render(chart.PNG, w)
	})
	if err != nil {
		return Figure{}, err
	}

	r.logger.Debug("line chart written", "path", path, "points", len(values))
	return Figure{
		Name:   LineChart,
		Path:   path,
		Titles: []string{lineTitle},
		Values: values,
	}, nil
}

// singlePointRanges pads the axes around a lone observation, which go-chart
// would otherwise reject for having a zero x-range.
func singlePointRanges(o domain.Observation) (x, y *chart.ContinuousRange) {
	x = &chart.ContinuousRange{
		Min: chart.TimeToFloat64(o.Date.AddDate(0, 0, -1)),
		Max: chart.TimeToFloat64(o.Date.AddDate(0, 0, 1)),
	}
	pad := math.Max(1, math.Abs(o.Value)*0.1)
	y = &chart.ContinuousRange{Min: o.Value - pad, Max: o.Value + pad}
	return x, y
}
