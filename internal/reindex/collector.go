// Package reindex rebuilds the whole search index from the delivery
// API, for first-time setup and for repairing drift after missed
// webhooks. Upsert-only: it never deletes what the listing no longer
// contains.
package reindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/camphaven/searchsync/internal/apperr"
	"github.com/camphaven/searchsync/internal/content"
	"github.com/camphaven/searchsync/internal/delivery"
	"github.com/camphaven/searchsync/internal/record"
)

// Result carries one collected value or the error that took its place.
type Result[T any] struct {
	Value T
	Err   error
}

// Collector streams values until its source is exhausted, then closes
// the channel.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}

// Lister is the slice of the delivery client the collector pages with.
type Lister interface {
	Items(ctx context.Context, q delivery.ItemsQuery) (*delivery.ListResponse, error)
}

const (
	defaultPageSize    = 100
	defaultPageRetries = 3
)

// CollectorConfig bounds one collection run.
type CollectorConfig struct {
	// SlugElement selects the roots: only items whose slug element
	// carries a non-empty string are indexed on their own. The same
	// rule decides inlining on the webhook path.
	SlugElement string
	// Languages lists the variants to rebuild, one listing walk each.
	Languages []string
	// Depth is the linked-item expansion requested per page.
	Depth int
	// PageSize is the listing page limit.
	PageSize int
}

func (c CollectorConfig) validate() error {
	if c.SlugElement == "" {
		return fmt.Errorf("slug element must be set")
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("at least one language must be set")
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1")
	}
	return nil
}

type CollectorOption func(*RecordCollector)

// WithPageBackOff overrides the retry policy for page fetches.
func WithPageBackOff(newBackOff func() backoff.BackOff) CollectorOption {
	return func(c *RecordCollector) {
		c.newBackOff = newBackOff
	}
}

// RecordCollector pages through the published-items listing and builds
// a search record for every root it finds. Each page resolves against
// its own graph: the page's items plus the linked items the API
// expanded alongside them.
type RecordCollector struct {
	source     Lister
	builder    record.Builder
	config     CollectorConfig
	newBackOff func() backoff.BackOff
}

func NewRecordCollector(source Lister, builder record.Builder, config CollectorConfig, opts ...CollectorOption) (*RecordCollector, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid collector config: %w", err)
	}
	if config.PageSize < 1 {
		config.PageSize = defaultPageSize
	}

	c := &RecordCollector{
		source:  source,
		builder: builder,
		config:  config,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RecordCollector) Collect(ctx context.Context) (<-chan Result[record.Record], error) {
	out := make(chan Result[record.Record])

	go func() {
		defer close(out)
		for _, language := range c.config.Languages {
			if ctx.Err() != nil {
				return
			}
			c.collectLanguage(ctx, language, out)
		}
	}()

	return out, nil
}

// collectLanguage walks one language's listing page by page. A page
// that cannot be fetched after retries ends the walk for this language;
// the gap surfaces as an error result so the run reports it.
func (c *RecordCollector) collectLanguage(ctx context.Context, language string, out chan<- Result[record.Record]) {
	skip := 0
	for {
		page, err := c.fetchPage(ctx, language, skip)
		if err != nil {
			c.emit(ctx, out, Result[record.Record]{
				Err: fmt.Errorf("listing page at skip %d for language %s: %w", skip, language, err),
			})
			return
		}

		graph := make(content.Graph, len(page.Items)+len(page.ModularContent))
		for codename, item := range page.ModularContent {
			graph[codename] = item
		}
		for _, item := range page.Items {
			graph[item.Codename] = item
		}

		for _, item := range page.Items {
			if _, ok := item.SlugValue(c.config.SlugElement); !ok {
				// Component content, reachable only inlined into a root.
				continue
			}
			if !c.emit(ctx, out, Result[record.Record]{Value: c.builder.Build(item, graph)}) {
				return
			}
		}

		slog.Debug("collected listing page",
			"language", language, "skip", skip, "count", len(page.Items))

		if len(page.Items) == 0 || page.Pagination.NextPage == "" {
			return
		}
		skip += len(page.Items)
	}
}

func (c *RecordCollector) fetchPage(ctx context.Context, language string, skip int) (*delivery.ListResponse, error) {
	var page *delivery.ListResponse

	operation := func() error {
		var err error
		page, err = c.source.Items(ctx, delivery.ItemsQuery{
			Language: language,
			Depth:    c.config.Depth,
			Limit:    c.config.PageSize,
			Skip:     skip,
		})
		if err == nil {
			return nil
		}
		if apperr.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), defaultPageRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *RecordCollector) emit(ctx context.Context, out chan<- Result[record.Record], res Result[record.Record]) bool {
	select {
	case out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}
