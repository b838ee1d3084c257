package render

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	yearBoxTitle  = "Year-wise Box Plot (Trend)"
	monthBoxTitle = "Month-wise Box Plot (Seasonality)"
)

const (
	boxWidth  = 15 * vg.Inch
	boxHeight = 6 * vg.Inch

	// boxPlotWidth is the drawn width of a single box, in points.
	boxPlotWidth vg.Length = 18
)

// BoxRenderer draws the year and month box plots side by side.
type BoxRenderer struct {
	dir    string
	logger *slog.Logger
}

// NewBoxRenderer creates a BoxRenderer writing into dir.
func NewBoxRenderer(dir string, logger *slog.Logger) *BoxRenderer {
	return &BoxRenderer{dir: dir, logger: logger}
}

// Name returns BoxChart.
func (r *BoxRenderer) Name() string { return BoxChart }

// Render draws a year-wise (trend) and a month-wise (seasonality) box plot on
// one canvas and writes box_plot.png. Month panels always run Jan..Dec.
func (r *BoxRenderer) Render(ctx context.Context, s domain.Series) (Figure, error) {
	if err := ctx.Err(); err != nil {
		return Figure{}, err
	}
	if err := checkSeries(s); err != nil {
		return Figure{}, err
	}

	years := domain.GroupByYear(s)
	months := domain.GroupByMonth(s)

	yearPlot, err := boxPanel(yearBoxTitle, "Year", years, plotutil.Color)
	if err != nil {
		return Figure{}, fmt.Errorf("year panel: %w", err)
	}
	monthPlot, err := boxPanel(monthBoxTitle, "Month", months, monthColor)
	if err != nil {
		return Figure{}, fmt.Errorf("month panel: %w", err)
	}

	path, err := writeFile(r.dir, BoxFile, func(w io.Writer) error {
		img := vgimg.New(boxWidth, boxHeight)
		dc := draw.New(img)
		tiles := draw.Tiles{
			Rows:      1,
			Cols:      2,
			PadX:      vg.Inch / 2,
			PadTop:    vg.Inch / 4,
			PadBottom: vg.Inch / 4,
			PadLeft:   vg.Inch / 4,
			PadRight:  vg.Inch / 4,
		}
		canvases := plot.Align([][]*plot.Plot{{yearPlot, monthPlot}}, tiles, dc)
		yearPlot.Draw(canvases[0][0])
		monthPlot.Draw(canvases[0][1])

		_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
		return err
	})
	if err != nil {
		return Figure{}, err
	}

	r.logger.Debug("box chart written", "path", path, "years", len(years))
	return Figure{
		Name:   BoxChart,
		Path:   path,
		Titles: []string{yearBoxTitle, monthBoxTitle},
		Values: append(years.AllValues(), months.AllValues()...),
	}, nil
}

// boxPanel places one box per group at x = group index, filled with fill(i).
// Empty groups keep their slot and label but draw nothing.
func boxPanel(title, xLabel string, groups domain.Groups, fill func(i int) color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Page Views"
	p.Y.Tick.Marker = countTicks{}

	for i, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(boxPlotWidth, float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("box %s: %w", g.Label, err)
		}
		box.FillColor = fill(i)
		p.Add(box)
	}

	p.NominalX(groups.Labels()...)
	p.X.Min = -0.5
	p.X.Max = float64(len(groups)) - 0.5
	return p, nil
}

func monthColor(i int) color.Color {
	return monthColors[i%len(monthColors)]
}
