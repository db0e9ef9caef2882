package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fixora-ai/fixora/internal/analysis"
	"github.com/fixora-ai/fixora/internal/config"
	"github.com/fixora-ai/fixora/internal/document"
	"github.com/fixora-ai/fixora/internal/email"
	"github.com/fixora-ai/fixora/internal/events"
	"github.com/fixora-ai/fixora/internal/llm"
	"github.com/fixora-ai/fixora/internal/middleware"
	"github.com/fixora-ai/fixora/internal/report"
	"github.com/fixora-ai/fixora/internal/server"
	"github.com/fixora-ai/fixora/internal/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Usage store
	store, closeStore, err := usage.OpenStore(ctx, cfg)
	if err != nil {
		slog.Error("opening usage store", "backend", cfg.Usage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	usageSvc := usage.NewServiceFromConfig(store, cfg.Usage)
	slog.Info("usage quota enabled",
		"backend", cfg.Usage.Backend,
		"daily_limit", cfg.Usage.DailyLimit,
		"timezone", cfg.Usage.Location().String(),
	)

	if cfg.Usage.SweepInterval > 0 {
		go usageSvc.RunSweeper(ctx, cfg.Usage.SweepInterval)
	}

	// NATS (optional)
	var (
		publisher     events.Publisher = events.Nop{}
		eventsHealthy func() bool
	)
	if cfg.NATS.Enabled() {
		natsClient, err := events.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to nats", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()

		async := events.NewAsync(events.NewPublisher(natsClient.JetStream()), 0)
		// Runs before natsClient.Close so in-flight events reach the stream.
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := async.Close(flushCtx); err != nil {
				slog.Warn("flushing events", "error", err)
			}
		}()
		publisher = async
		eventsHealthy = natsClient.Healthy
	}

	// LLM
	llmClient, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		slog.Error("creating llm client", "provider", cfg.LLM.Provider, "error", err)
		os.Exit(1)
	}
	fallback := llm.NewFallbackReporter(publisher)

	dev := cfg.Development()
	analysisHandler := analysis.NewHandler(analysis.NewService(llmClient, fallback), dev)
	emailHandler := email.NewHandler(email.NewService(llmClient, fallback), dev)
	uploadHandler := document.NewHandler(cfg.Upload.MaxBytes, dev)
	reportHandler := report.NewHandler(report.NewPool(report.NewChromeRenderer(cfg.PDF), cfg.PDF.MaxConcurrent), dev)
	usageHandler := usage.NewHandler(usageSvc, cfg.Usage.TrustProxy)
	gate := middleware.NewGate(usageSvc, publisher, cfg.Usage.TrustProxy)

	// Router
	router := server.NewRouter(
		server.RouterConfig{
			CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
			StrictTransport:    !dev,
			LLMConfigured:      cfg.LLM.Configured(),
		},
		server.Readiness{
			Quota:  usageSvc.Ping,
			Events: eventsHealthy,
		},
		server.HandlerSet{
			Analyze:      analysisHandler.Analyze,
			ImproveEmail: emailHandler.Improve,
			Upload:       uploadHandler.Upload,
			ExportPDF:    reportHandler.ExportPDF,
			UsageStatus:  usageHandler.Status,
			UsageGate:    gate.Middleware,
		},
	)

	// Start server
	srv := server.New(cfg, router)
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
