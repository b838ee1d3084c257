// Package observability wires logging and Prometheus metrics for the chart tool.
package observability

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/pageview-charts/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// NewLogger creates the process logger from config and sets it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// WriteTextfile writes every metric in g to path in the Prometheus text
// format, for the node-exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
