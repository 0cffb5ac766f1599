package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/camphaven/searchsync/internal/record"
)

const defaultBatchSize = 500

// Indexer is the slice of the index gateway the pipeline writes with.
type Indexer interface {
	BulkUpsert(ctx context.Context, records []record.Record) (int, error)
}

type PipelineOption func(*Pipeline)

func WithBatchSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			p.batchSize = size
		}
	}
}

// Pipeline drains a record collector into bulk upserts. A batch that
// fails to save is logged and dropped; the run keeps going and reports
// the losses at the end.
type Pipeline struct {
	collector Collector[record.Record]
	indexer   Indexer
	batchSize int
}

func NewPipeline(collector Collector[record.Record], indexer Indexer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		collector: collector,
		indexer:   indexer,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	slog.Info("starting full reindex", "batch_size", p.batchSize)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to start collection: %w", err)
	}

	batch := make([]record.Record, 0, p.batchSize)
	indexed := 0
	failures := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := p.indexer.BulkUpsert(ctx, batch)
		indexed += n
		if err != nil {
			slog.Error("failed to save reindex batch",
				"error", err, "count", len(batch), "saved", n)
			failures += len(batch) - n
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("reindex cancelled",
				"indexed", indexed, "failures", failures, "pending", len(batch))
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				flush()
				slog.Info("reindex completed",
					"indexed", indexed,
					"failures", failures,
					"duration", time.Since(start))
				if failures > 0 {
					return fmt.Errorf("reindex finished with %d failures", failures)
				}
				return nil
			}

			if res.Err != nil {
				slog.Error("collection failure", "error", res.Err)
				failures++
				continue
			}

			batch = append(batch, res.Value)
			if len(batch) >= p.batchSize {
				flush()
			}
		}
	}
}
