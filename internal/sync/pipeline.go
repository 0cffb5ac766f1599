package sync

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/camphaven/searchsync/internal/content"
	"github.com/camphaven/searchsync/internal/record"
	"github.com/camphaven/searchsync/internal/webhook"
)

// GraphResolver yields the link graph for one item variant, or an
// empty graph when there is nothing to index.
type GraphResolver interface {
	Resolve(ctx context.Context, codename, language string) content.Graph
}

// RecordBuilder turns a resolved item into its search record.
type RecordBuilder interface {
	Build(item content.Item, graph content.Graph) record.Record
}

type Pipeline struct {
	resolver      GraphResolver
	builder       RecordBuilder
	concurrency   int
	environmentID uuid.UUID
}

func NewPipeline(resolver GraphResolver, builder RecordBuilder, opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		resolver:    resolver,
		builder:     builder,
		concurrency: opts.Concurrency,
	}
	if opts.EnvironmentID != "" {
		p.environmentID = uuid.MustParse(opts.EnvironmentID)
	}
	return p, nil
}

// Process fans out over the notifications of one delivery, bounded by
// the configured concurrency, and reduces the per-notification results
// into a single batch. Notifications are independent: a skip or fetch
// failure in one leaves the others untouched, so Process itself cannot
// fail. Results land in per-notification slots, keeping reduction
// order equal to notification order however the fan-out interleaves.
func (p *Pipeline) Process(ctx context.Context, notifications []webhook.ItemNotification) WriteBatch {
	results := make([]NotificationResult, len(notifications))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, notification := range notifications {
		g.Go(func() error {
			results[i] = p.processOne(ctx, notification)
			return nil
		})
	}
	_ = g.Wait()

	return Reduce(results)
}

func (p *Pipeline) processOne(ctx context.Context, n webhook.ItemNotification) NotificationResult {
	if p.environmentID != uuid.Nil && n.EnvironmentID != p.environmentID {
		slog.Debug("skipping notification for foreign environment",
			"environment_id", n.EnvironmentID, "codename", n.Codename)
		return NotificationResult{}
	}

	graph := p.resolver.Resolve(ctx, n.Codename, n.Language)

	item, ok := graph.Item(n.Codename)
	if !ok {
		slog.Debug("notified item absent from resolved graph, skipping",
			"codename", n.Codename, "language", n.Language)
		return NotificationResult{}
	}

	rec := p.builder.Build(item, graph)
	slog.Info("built search record",
		"object_id", rec.Key(), "codename", n.Codename, "type", item.Type)

	return NotificationResult{Upserts: []record.Record{rec}}
}
