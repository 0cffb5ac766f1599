// Reindex rebuilds the whole search index from the delivery API. Run
// it for first-time setup or to repair drift after missed webhooks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/camphaven/searchsync/internal/delivery"
	"github.com/camphaven/searchsync/internal/index"
	"github.com/camphaven/searchsync/internal/record"
	"github.com/camphaven/searchsync/internal/reindex"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := delivery.NewClient(cfg.Delivery)
	if err != nil {
		slog.Error("failed to create delivery client", "error", err)
		os.Exit(1)
	}

	gateway, err := index.NewGateway(ctx, cfg.Index)
	if err != nil {
		slog.Error("failed to create index gateway", "error", err)
		os.Exit(1)
	}

	collector, err := reindex.NewRecordCollector(
		client,
		record.NewRegistry(cfg.Options.SlugElement),
		reindex.CollectorConfig{
			SlugElement: cfg.Options.SlugElement,
			Languages:   cfg.Languages,
			Depth:       cfg.Options.MaxDepth,
			PageSize:    cfg.PageSize,
		},
	)
	if err != nil {
		slog.Error("failed to create record collector", "error", err)
		os.Exit(1)
	}

	pipeline := reindex.NewPipeline(collector, gateway, reindex.WithBatchSize(cfg.BatchSize))

	if err := pipeline.Run(ctx); err != nil {
		slog.Error("reindex failed", "error", err)
		os.Exit(1)
	}
}
