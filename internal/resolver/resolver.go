// Package resolver builds the link graph for one notified item from
// the delivery API, converting every fetch outcome into either a graph
// or the empty "nothing to index" result.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/camphaven/searchsync/internal/apperr"
	"github.com/camphaven/searchsync/internal/content"
	"github.com/camphaven/searchsync/internal/delivery"
)

// ItemSource is the slice of the delivery client the resolver needs.
type ItemSource interface {
	Item(ctx context.Context, codename, language string, depth int) (*delivery.ItemResponse, error)
}

const defaultMaxRetries = 3

type Option func(*Resolver)

// Resolver fetches an item and its linked items up to a fixed depth.
// Transient fetch failures are retried with exponential backoff; an
// unpublished item is not. Either way a failure ends as an empty graph:
// one unreachable item must never fail the rest of a delivery, so
// Resolve has no error to return. Unpublished items are logged at
// debug, exhausted retries at warn.
type Resolver struct {
	source     ItemSource
	depth      int
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

func NewResolver(source ItemSource, depth int, opts ...Option) *Resolver {
	r := &Resolver{
		source:     source,
		depth:      depth,
		maxRetries: defaultMaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithMaxRetries(n uint64) Option {
	return func(r *Resolver) {
		r.maxRetries = n
	}
}

func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(r *Resolver) {
		r.newBackOff = newBackOff
	}
}

// Resolve returns the graph of the named item variant: the item itself
// plus everything reachable through linked-item elements within the
// configured depth, keyed by codename. An empty graph means skip.
func (r *Resolver) Resolve(ctx context.Context, codename, language string) content.Graph {
	var resp *delivery.ItemResponse

	operation := func() error {
		var err error
		resp, err = r.source.Item(ctx, codename, language, r.depth)
		if err == nil {
			return nil
		}
		if apperr.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, apperr.ErrItemNotFound) {
			slog.Debug("item not published, skipping",
				"codename", codename, "language", language)
		} else {
			slog.Warn("item fetch failed, skipping",
				"codename", codename, "language", language, "error", err)
		}
		return content.Graph{}
	}

	graph := make(content.Graph, len(resp.ModularContent)+1)
	graph[resp.Item.Codename] = resp.Item
	for linkedCodename, item := range resp.ModularContent {
		graph[linkedCodename] = item
	}
	return graph
}
