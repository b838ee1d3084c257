package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const barTitle = "Average Daily Page Views per Month"

const (
	barWidth  = 12 * vg.Inch
	barHeight = 7 * vg.Inch
)

// monthColors is matplotlib's tab10 cycle extended to twelve entries so every
// month keeps its own colour.
var monthColors = [12]color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
	color.RGBA{R: 0xae, G: 0xc7, B: 0xe8, A: 0xff},
	color.RGBA{R: 0xff, G: 0xbb, B: 0x78, A: 0xff},
}

// BarRenderer plots monthly averages as bars grouped by year.
type BarRenderer struct {
	dir    string
	logger *slog.Logger
}

// NewBarRenderer creates a BarRenderer writing into dir.
func NewBarRenderer(dir string, logger *slog.Logger) *BarRenderer {
	return &BarRenderer{dir: dir, logger: logger}
}

// Name returns BarChart.
func (r *BarRenderer) Name() string { return BarChart }

// Render averages s per (year, month), draws one bar per month inside each
// year group and writes bar_plot.png. Months appear January..December both in
// the groups and in the legend.
func (r *BarRenderer) Render(ctx context.Context, s domain.Series) (Figure, error) {
	if err := ctx.Err(); err != nil {
		return Figure{}, err
	}
	if err := checkSeries(s); err != nil {
		return Figure{}, err
	}

	table := domain.MonthlyAverages(s)
	p, err := barPlot(table)
	if err != nil {
		return Figure{}, err
	}

	path, err := writeFile(r.dir, BarFile, func(w io.Writer) error {
		wt, err := p.WriterTo(barWidth, barHeight, "png")
		if err != nil {
			return err
		}
		_, err = wt.WriteTo(w)
		return err
	})
	if err != nil {
		return Figure{}, err
	}

	r.logger.Debug("bar chart written", "path", path, "years", len(table.Years))
	return Figure{
		Name:   BarChart,
		Path:   path,
		Titles: []string{barTitle},
		Values: table.PresentMeans(),
	}, nil
}

func barPlot(table domain.MonthlyAverageTable) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = barTitle
	p.X.Label.Text = "Years"
	p.Y.Label.Text = "Average Page Views"
	p.Y.Tick.Marker = countTicks{}
	p.Y.Min = 0

	bars, err := monthBars(table)
	if err != nil {
		return nil, err
	}

	p.Legend.Top = true
	p.Legend.Left = true
	labels := barLegend()
	p.Legend.Add(labels[0])
	for i, b := range bars {
		p.Add(b)
		p.Legend.Add(labels[i+1], b)
	}

	years := make([]string, len(table.Years))
	for i, y := range table.Years {
		years[i] = strconv.Itoa(y)
	}
	p.NominalX(years...)
	return p, nil
}

// barLegend returns the legend text: the "Months" heading, then January..December.
func barLegend() []string {
	return append([]string{"Months"}, domain.MonthNames()...)
}

// monthBars builds one bar series per calendar month, January first. Each
// series holds that month's mean for every year, offset so the twelve bars sit
// side by side inside the year group.
func monthBars(table domain.MonthlyAverageTable) ([]*plotter.BarChart, error) {
	// Each year group takes about 70% of its share of the plot width.
	group := barWidth * 0.7 / vg.Length(len(table.Years))
	w := group / vg.Length(len(domain.Months))

	bars := make([]*plotter.BarChart, len(domain.Months))
	for i, m := range domain.Months {
		b, err := plotter.NewBarChart(plotter.Values(table.MonthColumn(m)), w)
		if err != nil {
			return nil, fmt.Errorf("bars for %s: %w", m, err)
		}
		b.Color = monthColors[i]
		b.LineStyle.Width = 0
		b.Offset = w * vg.Length(float64(i)-5.5)
		bars[i] = b
	}
	return bars, nil
}
