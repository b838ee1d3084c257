package render

import (
	"context"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

type renderer interface {
	Name() string
	Render(ctx context.Context, s domain.Series) (Figure, error)
}

// seasonalSeries builds a daily series from 2016-05-09 with a yearly cycle
// and a gentle upward trend.
func seasonalSeries(t *testing.T, days int) domain.Series {
	t.Helper()
	start := time.Date(2016, time.May, 9, 0, 0, 0, 0, time.UTC)
	obs := make([]domain.Observation, days)
	for i := range obs {
		seasonal := 20000 * math.Sin(2*math.Pi*float64(i)/365)
		obs[i] = domain.Observation{
			Date:  start.AddDate(0, 0, i),
			Value: 60000 + float64(i)*50 + seasonal + float64((i*7919)%3000),
		}
	}
	s, err := domain.NewSeries(obs)
	require.NoError(t, err)
	return s
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err, "output is not a PNG")
	return cfg.Width, cfg.Height
}

func TestLineRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	s := seasonalSeries(t, 400)

	fig, err := NewLineRenderer(dir, slog.Default()).Render(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, LineChart, fig.Name)
	assert.Equal(t, filepath.Join(dir, LineFile), fig.Path)
	assert.Equal(t, []string{"Daily freeCodeCamp Forum Page Views 5/2016-12/2019"}, fig.Titles)
	assert.Equal(t, s.Values(), fig.Values)

	w, h := pngSize(t, fig.Path)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 600, h)
}

func TestBarRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	s := seasonalSeries(t, 3*365)

	fig, err := NewBarRenderer(dir, slog.Default()).Render(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, BarChart, fig.Name)
	assert.Equal(t, filepath.Join(dir, BarFile), fig.Path)
	assert.Equal(t, []string{"Average Daily Page Views per Month"}, fig.Titles)
	assert.Equal(t, domain.MonthlyAverages(s).PresentMeans(), fig.Values)

	w, h := pngSize(t, fig.Path)
	assert.Greater(t, w, h, "bar chart is landscape")
}

func TestBarPlot_MonthsInCalendarOrder(t *testing.T) {
	table := domain.MonthlyAverages(seasonalSeries(t, 3*365))

	assert.Equal(t, []string{
		"Months",
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}, barLegend())

	bars, err := monthBars(table)
	require.NoError(t, err)
	require.Len(t, bars, 12)
	for i, m := range domain.Months {
		assert.Equal(t, table.MonthColumn(m), []float64(bars[i].Values), m.String())
		assert.Equal(t, monthColors[i], bars[i].Color, m.String())
		if i > 0 {
			assert.Greater(t, bars[i].Offset, bars[i-1].Offset, "%s sits right of %s", m, domain.Months[i-1])
		}
	}

	p, err := barPlot(table)
	require.NoError(t, err)
	ticks, ok := p.X.Tick.Marker.(plot.ConstantTicks)
	require.True(t, ok, "years are nominal ticks")
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"2016", "2017", "2018", "2019"}, labels)
}

func TestBoxRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	s := seasonalSeries(t, 3*365)

	fig, err := NewBoxRenderer(dir, slog.Default()).Render(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, BoxChart, fig.Name)
	assert.Equal(t, filepath.Join(dir, BoxFile), fig.Path)
	assert.Equal(t, []string{"Year-wise Box Plot (Trend)", "Month-wise Box Plot (Seasonality)"}, fig.Titles)
	assert.Len(t, fig.Values, 2*s.Len(), "both panels draw every observation")

	w, h := pngSize(t, fig.Path)
	assert.Greater(t, w, 2*h, "two panels side by side")
}

func TestBoxRenderer_MissingMonths(t *testing.T) {
	dir := t.TempDir()
	// Only 40 days in spring: most month slots stay empty.
	start := time.Date(2019, time.March, 10, 0, 0, 0, 0, time.UTC)
	obs := make([]domain.Observation, 40)
	for i := range obs {
		obs[i] = domain.Observation{Date: start.AddDate(0, 0, i), Value: float64(100 + i)}
	}
	s, err := domain.NewSeries(obs)
	require.NoError(t, err)

	_, err = NewBoxRenderer(dir, slog.Default()).Render(context.Background(), s)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, BoxFile))
}

func TestRenderers_SingleObservation(t *testing.T) {
	dir := t.TempDir()
	s, err := domain.NewSeries([]domain.Observation{
		{Date: time.Date(2017, time.June, 1, 0, 0, 0, 0, time.UTC), Value: 1000},
	})
	require.NoError(t, err)

	for _, r := range []renderer{
		NewLineRenderer(dir, slog.Default()),
		NewBarRenderer(dir, slog.Default()),
		NewBoxRenderer(dir, slog.Default()),
	} {
		fig, err := r.Render(context.Background(), s)
		require.NoError(t, err, r.Name())
		assert.Contains(t, fig.Values, 1000.0, r.Name())
		pngSize(t, fig.Path)
	}
}

func TestSinglePointRanges(t *testing.T) {
	day := time.Date(2017, time.June, 1, 0, 0, 0, 0, time.UTC)
	x, y := singlePointRanges(domain.Observation{Date: day, Value: 1000})

	assert.InDelta(t, float64(48*time.Hour), x.GetDelta(), float64(time.Microsecond))
	assert.Less(t, y.GetMin(), 1000.0)
	assert.Greater(t, y.GetMax(), 1000.0)

	_, y = singlePointRanges(domain.Observation{Date: day, Value: 0})
	assert.Positive(t, y.GetDelta())
}

func TestRenderers_OverwriteExistingFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0o600))
	}
	s := seasonalSeries(t, 120)

	for _, r := range []renderer{
		NewLineRenderer(dir, slog.Default()),
		NewBarRenderer(dir, slog.Default()),
		NewBoxRenderer(dir, slog.Default()),
	} {
		fig, err := r.Render(context.Background(), s)
		require.NoError(t, err, r.Name())
		pngSize(t, fig.Path)
	}
}

func TestRenderers_MissingOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	s := seasonalSeries(t, 60)

	for _, r := range []renderer{
		NewLineRenderer(dir, slog.Default()),
		NewBarRenderer(dir, slog.Default()),
		NewBoxRenderer(dir, slog.Default()),
	} {
		_, err := r.Render(context.Background(), s)
		require.ErrorIs(t, err, os.ErrNotExist, r.Name())
	}
}

func TestRenderers_EmptySeries(t *testing.T) {
	dir := t.TempDir()

	for _, r := range []renderer{
		NewLineRenderer(dir, slog.Default()),
		NewBarRenderer(dir, slog.Default()),
		NewBoxRenderer(dir, slog.Default()),
	} {
		_, err := r.Render(context.Background(), domain.Series{})
		require.ErrorIs(t, err, ErrNoData, r.Name())
	}
}

func TestRenderers_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := seasonalSeries(t, 60)

	_, err := NewLineRenderer(t.TempDir(), slog.Default()).Render(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "950", formatCount(949.6))
	assert.Equal(t, "12,345", formatCount(12345))
	assert.Equal(t, "1,200,000", formatCount(1.2e6))
}

func TestCountTicks_RelabelsMajorTicks(t *testing.T) {
	ticks := countTicks{}.Ticks(0, 200000)
	require.NotEmpty(t, ticks)

	var labelled int
	for _, tk := range ticks {
		if tk.Label == "" {
			continue
		}
		labelled++
		assert.Equal(t, formatCount(tk.Value), tk.Label)
	}
	assert.Positive(t, labelled)
}
