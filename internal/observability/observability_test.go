package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Unregistered(t *testing.T) {
	// Two instances must not collide; neither touches the default registry.
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.ObservationsLoaded.Set(1)
	b.ObservationsLoaded.Set(2)

	assert.InDelta(t, 1, testutil.ToFloat64(a.ObservationsLoaded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(b.ObservationsLoaded), 0)
}

func TestMetrics_RegisterTwiceFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()

	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()
	require.NoError(t, m.Register(reg))

	m.ObservationsLoaded.Set(1304)
	m.ObservationsRetained.Set(1238)
	m.OutlierBounds.WithLabelValues("lower").Set(17876.4)
	m.ChartsRendered.WithLabelValues("bar").Inc()

	path := filepath.Join(t.TempDir(), "pageview_charts.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "pageview_charts_observations_loaded 1304")
	assert.Contains(t, text, "pageview_charts_observations_retained 1238")
	assert.Contains(t, text, `pageview_charts_outlier_bounds{bound="lower"} 17876.4`)
	assert.Contains(t, text, `pageview_charts_charts_rendered_total{chart="bar"} 1`)
}

func TestWriteTextfile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "metrics.prom")

	err := WriteTextfile(path, prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics textfile")
}
