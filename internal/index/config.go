// Package index owns the hosted search index: client setup, index
// bootstrap with typed mappings, and batched upsert/delete writes.
package index

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func LoadEnv() (*ClientConfig, error) {
	cfg := &ClientConfig{
		Addresses: splitAddresses(os.Getenv("ES_ADDRESSES")),
		IndexName: os.Getenv("ES_INDEX_NAME"),
		Username:  os.Getenv("ES_USERNAME"),
		Password:  os.Getenv("ES_PASSWORD"),
	}

	if len(cfg.Addresses) == 0 || cfg.IndexName == "" {
		slog.Error("Elasticsearch configuration is incomplete",
			"addresses", cfg.Addresses, "indexName", cfg.IndexName)
		return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses or index name is missing")
	}

	return cfg, nil
}

func splitAddresses(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewTypedClient(cfg)

	return client, err
}
