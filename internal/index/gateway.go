package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"

	"github.com/camphaven/searchsync/internal/record"
	syncpipe "github.com/camphaven/searchsync/internal/sync"
)

// Gateway applies write batches to the search index. Upserts and
// deletes go out as two independent bulk calls; an empty side issues
// none.
type Gateway struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewGateway(ctx context.Context, config ClientConfig) (*Gateway, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	gateway := &Gateway{
		client:    client,
		indexName: config.IndexName,
	}

	if err := gateway.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return gateway, nil
}

// ApplyResult reports what one batch changed in the index.
type ApplyResult struct {
	Upserted int `json:"upserted"`
	Deleted  int `json:"deleted"`
}

func (g *Gateway) Apply(ctx context.Context, batch syncpipe.WriteBatch) (*ApplyResult, error) {
	result := &ApplyResult{}

	if upserts := batch.UpsertList(); len(upserts) > 0 {
		n, err := g.BulkUpsert(ctx, upserts)
		if err != nil {
			return nil, err
		}
		result.Upserted = n
	}

	if deletes := batch.DeleteList(); len(deletes) > 0 {
		n, err := g.BulkDelete(ctx, deletes)
		if err != nil {
			return nil, err
		}
		result.Deleted = n
	}

	return result, nil
}

// BulkUpsert indexes the records in one bulk call, overwriting any
// document already stored under the same objectID.
func (g *Gateway) BulkUpsert(ctx context.Context, records []record.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         g.indexName,
		Client:        g.client,
		NumWorkers:    2,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for _, rec := range records {
		docBytes, err := json.Marshal(rec)
		if err != nil {
			slog.Error("failed to marshal record", "error", err, "object_id", rec.Key())
			failed.Add(1)
			continue
		}

		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "index",
				DocumentID: rec.Key(),
				Body:       bytes.NewReader(docBytes),
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					failed.Add(1)
					if err != nil {
						slog.Error("bulk upsert error", "error", err, "object_id", item.DocumentID)
					} else {
						slog.Error("bulk upsert error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "object_id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add record to bulk indexer", "error", err, "object_id", rec.Key())
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("bulk upsert completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(records),
		"index", g.indexName)

	if n := failed.Load(); n > 0 {
		return int(successful.Load()), fmt.Errorf("failed to upsert %d out of %d records", n, len(records))
	}
	return int(successful.Load()), nil
}

// BulkDelete removes the objectIDs in one bulk call. Ids already gone
// from the index count as done, not as failures.
func (g *Gateway) BulkDelete(ctx context.Context, objectIDs []string) (int, error) {
	if len(objectIDs) == 0 {
		return 0, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         g.indexName,
		Client:        g.client,
		NumWorkers:    2,
		FlushBytes:    5e+6,
		FlushInterval: 30 * time.Second,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for _, objectID := range objectIDs {
		err = bi.Add(
			ctx,
			esutil.BulkIndexerItem{
				Action:     "delete",
				DocumentID: objectID,
				OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
					successful.Add(1)
				},
				OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
					if err == nil && res.Status == 404 {
						slog.Debug("delete target already absent", "object_id", item.DocumentID)
						successful.Add(1)
						return
					}
					failed.Add(1)
					if err != nil {
						slog.Error("bulk delete error", "error", err, "object_id", item.DocumentID)
					} else {
						slog.Error("bulk delete error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "object_id", item.DocumentID)
					}
				},
			},
		)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add delete to bulk indexer", "error", err, "object_id", objectID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Info("bulk delete completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(objectIDs),
		"index", g.indexName)

	if n := failed.Load(); n > 0 {
		return int(successful.Load()), fmt.Errorf("failed to delete %d out of %d objects", n, len(objectIDs))
	}
	return int(successful.Load()), nil
}

// Healthy reports whether the index is reachable. Wired as the
// server's health check.
func (g *Gateway) Healthy(ctx context.Context) bool {
	exists, err := g.client.Indices.Exists(g.indexName).Do(ctx)
	if err != nil {
		slog.Warn("index health check failed", "error", err, "index", g.indexName)
		return false
	}
	return exists
}

func (g *Gateway) EnsureIndex(ctx context.Context) error {
	existsRes, err := g.client.Indices.Exists(g.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", g.indexName)
		return nil
	}

	settings := types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"multilingual_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_none_"},
				},
			},
		},
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"objectID":        types.NewKeywordProperty(),
			"id":              types.NewKeywordProperty(),
			"codename":        types.NewKeywordProperty(),
			"name":            g.createTextPropertyWithKeyword("multilingual_analyzer"),
			"language":        types.NewKeywordProperty(),
			"type":            types.NewKeywordProperty(),
			"collection":      types.NewKeywordProperty(),
			"slug":            types.NewKeywordProperty(),
			"content":         g.createContentProperty(),
			"phone":           types.NewKeywordProperty(),
			"email":           types.NewKeywordProperty(),
			"google_place_id": types.NewKeywordProperty(),
			"latitude":        types.NewDoubleNumberProperty(),
			"longitude":       types.NewDoubleNumberProperty(),
			"amenities":       types.NewKeywordProperty(),
			"ways_to_stay":    types.NewKeywordProperty(),
			"region":          types.NewKeywordProperty(),
			"address":         g.createTextProperty("multilingual_analyzer"),
			"city":            g.createTextPropertyWithKeyword(""),
			"state":           types.NewKeywordProperty(),
			"zip":             types.NewKeywordProperty(),
			"description":     g.createTextProperty("multilingual_analyzer"),
		},
	}

	createRes, err := g.client.Indices.Create(g.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", g.indexName)
	return nil
}

func (g *Gateway) createTextProperty(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	return textProp
}

func (g *Gateway) createTextPropertyWithKeyword(analyzer string) types.Property {
	textProp := types.NewTextProperty()
	if analyzer != "" {
		textProp.Analyzer = &analyzer
	}
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}

// createContentProperty maps the generic record's content blocks.
func (g *Gateway) createContentProperty() types.Property {
	obj := types.NewObjectProperty()
	obj.Properties = map[string]types.Property{
		"id":         types.NewKeywordProperty(),
		"codename":   types.NewKeywordProperty(),
		"type":       types.NewKeywordProperty(),
		"language":   types.NewKeywordProperty(),
		"collection": types.NewKeywordProperty(),
		"parents":    types.NewKeywordProperty(),
		"contents":   g.createTextProperty("multilingual_analyzer"),
	}
	return obj
}
