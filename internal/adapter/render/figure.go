// Package render draws the page-view charts and writes them as PNG files.
//
// The line chart uses go-chart, whose time-series support handles the date
// axis. The bar and box charts use gonum/plot, which has grouped bar charts,
// box plots and tiled panels.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
)

// Chart names, used for file names, metric labels and log fields.
const (
	LineChart = "line"
	BarChart  = "bar"
	BoxChart  = "box"
)

// Output file names, overwritten on every run.
const (
	LineFile = "line_plot.png"
	BarFile  = "bar_plot.png"
	BoxFile  = "box_plot.png"
)

// Files lists the file names of every chart this package writes.
var Files = []string{LineFile, BarFile, BoxFile}

// ErrNoData is returned when a renderer receives an empty series.
var ErrNoData = errors.New("no observations to plot")

// Figure describes a rendered chart.
type Figure struct {
	// Name is one of LineChart, BarChart or BoxChart.
	Name string
	// Path is the file the chart was written to.
	Path string
	// Titles holds the title of every panel, left to right.
	Titles []string
	// Values holds every data value drawn: series points, bar heights or box samples.
	Values []float64
}

var printer = message.NewPrinter(language.English)

// formatCount renders an axis value as a whole count with thousands separators.
func formatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// countTicks wraps plot.DefaultTicks and relabels the major ticks with formatCount.
type countTicks struct{}

func (countTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = formatCount(ticks[i].Value)
		}
	}
	return ticks
}

// writeFile renders into memory first so a failed render never truncates an
// existing chart. The output directory must already exist.
func writeFile(dir, name string, render func(w io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("draw %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // chart images are meant to be world-readable
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func checkSeries(s domain.Series) error {
	if s.Len() == 0 {
		return ErrNoData
	}
	return nil
}
