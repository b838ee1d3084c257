package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pageview_charts"

// Metrics holds the Prometheus collectors for a chart run.
type Metrics struct {
	ObservationsLoaded   prometheus.Gauge
	ObservationsRetained prometheus.Gauge
	OutlierBounds        *prometheus.GaugeVec // labels: bound={lower,upper}
	PipelineRunning      prometheus.Gauge
	RunDuration          prometheus.Histogram
	LastSuccess          prometheus.Gauge

	// Per-chart rendering metrics, labelled chart={line,bar,box}.
	ChartsRendered *prometheus.CounterVec
	RenderErrors   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Register adds every collector to reg. Used by tests that gather metrics.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations_loaded",
			Help:      "Observations read from the input file in the last run.",
		}),
		ObservationsRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations_retained",
			Help:      "Observations left after the percentile filter in the last run.",
		}),
		OutlierBounds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outlier_bounds",
			Help:      "Inclusive percentile band used to drop outliers.",
		}, []string{"bound"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a chart run is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-filter-render run.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run finished.",
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Charts written to disk by chart type.",
		}, []string{"chart"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Chart rendering failures by chart type.",
		}, []string{"chart"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to draw and write one chart.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"chart"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ObservationsLoaded,
		m.ObservationsRetained,
		m.OutlierBounds,
		m.PipelineRunning,
		m.RunDuration,
		m.LastSuccess,
		m.ChartsRendered,
		m.RenderErrors,
		m.RenderDuration,
	}
}
