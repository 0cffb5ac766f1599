package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/camphaven/searchsync/internal/delivery"
	"github.com/camphaven/searchsync/internal/index"
	syncpipe "github.com/camphaven/searchsync/internal/sync"
	"github.com/camphaven/searchsync/pkg/config/env"
	"github.com/camphaven/searchsync/pkg/stringsutil"
)

const (
	defaultPageSize  = 100
	defaultBatchSize = 500
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type ReindexConfig struct {
	Delivery  delivery.Config
	Index     index.ClientConfig
	Options   syncpipe.Options
	Languages []string
	PageSize  int
	BatchSize int
}

func (as *AppConfig) Load() (*ReindexConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/reindex/.env")
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

	opts, err := syncpipe.LoadOptionsFile(os.Getenv("SYNC_OPTIONS_PATH"))
	if err != nil {
		slog.Error("Failed to load sync options", "error", err)
		return nil, err
	}

	languages := splitLanguages(os.Getenv("REINDEX_LANGUAGES"))
	if len(languages) == 0 {
		slog.Error("REINDEX_LANGUAGES environment variable is not set")
		return nil, fmt.Errorf("REINDEX_LANGUAGES environment variable is not set")
	}

	pageSize, err := strconv.Atoi(os.Getenv("REINDEX_PAGE_SIZE"))
	if err != nil {
		pageSize = defaultPageSize
	}

	batchSize, err := strconv.Atoi(os.Getenv("BULK_SIZE"))
	if err != nil {
		batchSize = defaultBatchSize
	}

	return &ReindexConfig{
		Delivery:  *deliveryCfg,
		Index:     *indexCfg,
		Options:   *opts,
		Languages: languages,
		PageSize:  pageSize,
		BatchSize: batchSize,
	}, nil
}

func splitLanguages(csv string) []string {
	parts := strings.Split(csv, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return stringsutil.RemoveEmptyStrings(parts)
}
