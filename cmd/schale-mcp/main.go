// Command schale-mcp is an MCP tool server over stdio that exposes the
// SchaleDB Blue Archive dataset: students, stages, raids, items, and the
// fuzzy search and variant resolution on top of them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/schale-tools/schale-mcp/internal/config"
	"github.com/schale-tools/schale-mcp/internal/observe"
	"github.com/schale-tools/schale-mcp/internal/schaledb"
	"github.com/schale-tools/schale-mcp/internal/server"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "schale-mcp.yaml", "path to the YAML configuration file (optional)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schale-mcp: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// stdout carries the MCP transport, so all logging goes to stderr.
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("schale-mcp starting",
		"version", version,
		"config", *configPath,
		"base_url", cfg.Schale.BaseURL,
		"default_language", cfg.Schale.DefaultLanguage,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, version)
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Metrics endpoint (optional) ───────────────────────────────────────────
	if addr := cfg.Server.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			slog.Info("metrics endpoint listening", "addr", addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics endpoint error", "err", err)
			}
		}()
		defer metricsSrv.Close()
	}

	// ── SchaleDB client ───────────────────────────────────────────────────────
	client := schaledb.New(
		schaledb.WithBaseURL(cfg.Schale.BaseURL),
		schaledb.WithDefaultLanguage(cfg.Schale.DefaultLanguage),
		schaledb.WithHTTPClient(&http.Client{Timeout: cfg.Schale.RequestTimeout.Std()}),
		schaledb.WithDataTTL(cfg.Schale.DataTTL.Std()),
		schaledb.WithLocalizationTTL(cfg.Schale.LocalizationTTL.Std()),
		schaledb.WithMetrics(observe.DefaultMetrics()),
	)

	// ── MCP server over stdio ─────────────────────────────────────────────────
	srv := server.New(client, observe.DefaultMetrics(), version)

	slog.Info("serving MCP on stdio")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
