package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/camphaven/searchsync/internal/delivery"
	"github.com/camphaven/searchsync/internal/index"
	"github.com/camphaven/searchsync/internal/record"
	"github.com/camphaven/searchsync/internal/resolver"
	"github.com/camphaven/searchsync/internal/router"
	"github.com/camphaven/searchsync/internal/server"
	syncpipe "github.com/camphaven/searchsync/internal/sync"
	"github.com/camphaven/searchsync/internal/webhook"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig("cmd/sync_api/.env")
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	opts, err := syncpipe.LoadOptionsFile(cfg.OptionsPath)
	if err != nil {
		slog.Error("Failed to load sync options", "error", err)
		os.Exit(1)
	}
	if opts.EnvironmentID == "" {
		opts.EnvironmentID = cfg.Delivery.EnvironmentID
	}

	gateway, err := index.NewGateway(context.Background(), cfg.Index)
	if err != nil {
		slog.Error("Failed to create index gateway", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, gateway).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "searchsync is running")
	})

	client, err := delivery.NewClient(cfg.Delivery)
	if err != nil {
		slog.Error("Failed to create delivery client", "error", err)
		os.Exit(1)
	}

	pipeline, err := syncpipe.NewPipeline(
		resolver.NewResolver(client, opts.MaxDepth),
		record.NewRegistry(opts.SlugElement),
		*opts,
	)
	if err != nil {
		slog.Error("Failed to create sync pipeline", "error", err)
		os.Exit(1)
	}

	var verifier webhook.Verifier = webhook.AllowAll{}
	if cfg.WebhookSecret != "" {
		verifier = webhook.NewHMACVerifier(cfg.WebhookSecret)
	} else {
		slog.Warn("WEBHOOK_SECRET is not set, accepting unsigned webhooks")
	}

	webhookRouter := router.NewWebhookRouter(s.Echo, verifier, pipeline, gateway)
	webhookRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
