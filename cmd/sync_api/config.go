package main

import (
	"log/slog"
	"os"

	"github.com/camphaven/searchsync/internal/delivery"
	"github.com/camphaven/searchsync/internal/index"
	"github.com/camphaven/searchsync/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type SyncAPIConfig struct {
	Delivery      delivery.Config
	Index         index.ClientConfig
	WebhookSecret string
	OptionsPath   string
}

func (as *AppConfig) Load() (*SyncAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/sync_api/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	deliveryCfg, err := delivery.LoadEnv()
	if err != nil {
		slog.Error("Failed to load delivery configuration from environment", "error", err)
		return nil, err
	}

	indexCfg, err := index.LoadEnv()
	if err != nil {
		slog.Error("Failed to load Elasticsearch configuration from environment", "error", err)
		return nil, err
	}

	return &SyncAPIConfig{
		Delivery:      *deliveryCfg,
		Index:         *indexCfg,
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		OptionsPath:   os.Getenv("SYNC_OPTIONS_PATH"),
	}, nil
}
