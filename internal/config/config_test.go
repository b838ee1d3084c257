package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fcc-forum-pageviews.csv", cfg.InputPath)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.InDelta(t, 0.025, cfg.LowerQuantile, 1e-12)
	assert.InDelta(t, 0.975, cfg.UpperQuantile, 1e-12)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.MetricsTextfile)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_PATH", "/data/views.csv")
	t.Setenv("OUTPUT_DIR", "/srv/charts")
	t.Setenv("LOWER_QUANTILE", "0.01")
	t.Setenv("UPPER_QUANTILE", "0.99")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/pageview_charts.prom")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/views.csv", cfg.InputPath)
	assert.Equal(t, "/srv/charts", cfg.OutputDir)
	assert.InDelta(t, 0.01, cfg.LowerQuantile, 1e-12)
	assert.InDelta(t, 0.99, cfg.UpperQuantile, 1e-12)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/node_exporter/pageview_charts.prom", cfg.MetricsTextfile)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_QuantileNotANumber(t *testing.T) {
	t.Setenv("LOWER_QUANTILE", "two percent")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOWER_QUANTILE")
}

func TestLoad_QuantileOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative lower", "LOWER_QUANTILE", "-0.1"},
		{"lower of one", "LOWER_QUANTILE", "1"},
		{"upper above one", "UPPER_QUANTILE", "1.5"},
		{"upper of zero", "UPPER_QUANTILE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvertedBand(t *testing.T) {
	t.Setenv("LOWER_QUANTILE", "0.6")
	t.Setenv("UPPER_QUANTILE", "0.4")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPPER_QUANTILE")
	assert.Contains(t, err.Error(), "LOWER_QUANTILE")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_ReportsEveryInvalidVariable(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
