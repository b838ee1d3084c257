package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/pageview-charts/internal/adapter/render"
	"github.com/couchcryptid/pageview-charts/internal/domain"
	"github.com/couchcryptid/pageview-charts/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Extractor reads the full observation series from the source.
type Extractor interface {
	Load(ctx context.Context) (domain.Series, error)
}

// Renderer draws one chart from the filtered series and writes it out.
type Renderer interface {
	Name() string
	Render(ctx context.Context, s domain.Series) (render.Figure, error)
}

// Report summarises a completed run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Loaded     int
	Retained   int
	Bounds     domain.Bounds
	Figures    []render.Figure
}

// Duration is the wall time between the start and end of the run.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Pipeline orchestrates the load-filter-render batch.
type Pipeline struct {
	extractor Extractor
	renderers []Renderer
	filter    *OutlierFilter
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ready     atomic.Bool
}

// New creates a Pipeline. Renderers run in the order given. A nil clock uses
// the real clock.
func New(e Extractor, renderers []Renderer, filter *OutlierFilter, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		extractor: e,
		renderers: renderers,
		filter:    filter,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run loads the series, drops outliers and renders every chart. The first
// failing stage stops the run; its error is returned wrapped with the stage.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: p.clock.Now(),
	}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("pipeline started", "charts", len(p.renderers))

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	series, err := p.extractor.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load observations: %w", err)
	}
	report.Loaded = series.Len()
	p.metrics.ObservationsLoaded.Set(float64(report.Loaded))
	logger.Info("observations loaded", "loaded", report.Loaded)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	filtered, bounds, err := p.filter.Apply(series)
	if err != nil {
		return report, fmt.Errorf("filter outliers: %w", err)
	}
	report.Retained = filtered.Len()
	report.Bounds = bounds
	p.metrics.ObservationsRetained.Set(float64(report.Retained))
	p.metrics.OutlierBounds.WithLabelValues("lower").Set(bounds.Lower)
	p.metrics.OutlierBounds.WithLabelValues("upper").Set(bounds.Upper)
	logger.Info("outliers removed",
		"retained", report.Retained,
		"dropped", report.Loaded-report.Retained,
		"lower_bound", bounds.Lower,
		"upper_bound", bounds.Upper,
	)

	for _, r := range p.renderers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fig, err := p.render(ctx, logger, r, filtered)
		if err != nil {
			return report, fmt.Errorf("render %s chart: %w", r.Name(), err)
		}
		report.Figures = append(report.Figures, fig)
	}

	report.FinishedAt = p.clock.Now()
	p.metrics.RunDuration.Observe(report.Duration().Seconds())
	p.metrics.LastSuccess.Set(float64(report.FinishedAt.Unix()))
	p.ready.Store(true)

	logger.Info("pipeline finished", "charts", len(report.Figures), "duration", report.Duration())
	return report, nil
}

func (p *Pipeline) render(ctx context.Context, logger *slog.Logger, r Renderer, s domain.Series) (render.Figure, error) {
	name := r.Name()
	start := p.clock.Now()

	fig, err := r.Render(ctx, s)
	if err != nil {
		p.metrics.RenderErrors.WithLabelValues(name).Inc()
		logger.Error("render failed", "chart", name, "error", err)
		return render.Figure{}, err
	}

	elapsed := p.clock.Since(start)
	p.metrics.ChartsRendered.WithLabelValues(name).Inc()
	p.metrics.RenderDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	logger.Info("chart written", "chart", name, "path", fig.Path, "duration", elapsed)
	return fig, nil
}
