// Command charts loads the daily forum page-view CSV, drops the values outside
// the configured percentile band and writes line_plot.png, bar_plot.png and
// box_plot.png. With HTTP_ADDR set it keeps serving the charts, health and
// metrics until interrupted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/pageview-charts/internal/adapter/csvfile"
	"github.com/couchcryptid/pageview-charts/internal/adapter/httpadapter"
	"github.com/couchcryptid/pageview-charts/internal/adapter/render"
	"github.com/couchcryptid/pageview-charts/internal/config"
	"github.com/couchcryptid/pageview-charts/internal/observability"
	"github.com/couchcryptid/pageview-charts/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Error("chart run failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	loader := csvfile.NewLoader(cfg.InputPath, logger)
	renderers := []pipeline.Renderer{
		render.NewLineRenderer(cfg.OutputDir, logger),
		render.NewBarRenderer(cfg.OutputDir, logger),
		render.NewBoxRenderer(cfg.OutputDir, logger),
	}
	filter := pipeline.NewOutlierFilter(cfg.LowerQuantile, cfg.UpperQuantile)
	p := pipeline.New(loader, renderers, filter, logger, metrics, clockwork.NewRealClock())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, cfg.OutputDir, p, prometheus.DefaultGatherer, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
				stop()
			}
		}()
	}

	_, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile, prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics textfile", "error", err, "path", cfg.MetricsTextfile)
		}
	}

	if srv == nil {
		return runErr
	}
	if runErr == nil {
		logger.Info("serving charts", "addr", cfg.HTTPAddr, "dir", cfg.OutputDir)
		<-ctx.Done()
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return runErr
}
