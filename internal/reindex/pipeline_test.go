package reindex

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camphaven/searchsync/internal/record"
)

type stubCollector struct {
	results []Result[record.Record]
	err     error
}

func (s *stubCollector) Collect(context.Context) (<-chan Result[record.Record], error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(chan Result[record.Record], len(s.results))
	for _, res := range s.results {
		out <- res
	}
	close(out)
	return out, nil
}

type fakeIndexer struct {
	batches [][]record.Record
	save    func(batch []record.Record) (int, error)
}

func (f *fakeIndexer) BulkUpsert(_ context.Context, records []record.Record) (int, error) {
	batch := append([]record.Record(nil), records...)
	f.batches = append(f.batches, batch)
	if f.save != nil {
		return f.save(batch)
	}
	return len(batch), nil
}

func genericRecord(objectID string) record.Record {
	return record.GenericRecord{Base: record.Base{ObjectID: objectID}}
}

func collected(objectIDs ...string) []Result[record.Record] {
	out := make([]Result[record.Record], 0, len(objectIDs))
	for _, id := range objectIDs {
		out = append(out, Result[record.Record]{Value: genericRecord(id)})
	}
	return out
}

func TestRun_BatchesBySize(t *testing.T) {
	indexer := &fakeIndexer{}
	p := NewPipeline(
		&stubCollector{results: collected("a_en", "b_en", "c_en", "d_en", "e_en")},
		indexer,
		WithBatchSize(2),
	)

	require.NoError(t, p.Run(t.Context()))

	require.Len(t, indexer.batches, 3)
	assert.Len(t, indexer.batches[0], 2)
	assert.Len(t, indexer.batches[1], 2)
	assert.Len(t, indexer.batches[2], 1)
	assert.Equal(t, "e_en", indexer.batches[2][0].Key())
}

func TestRun_EmptyCollectionIsNoop(t *testing.T) {
	indexer := &fakeIndexer{}
	p := NewPipeline(&stubCollector{}, indexer)

	require.NoError(t, p.Run(t.Context()))
	assert.Empty(t, indexer.batches)
}

func TestRun_CollectionErrorsReported(t *testing.T) {
	results := collected("a_en")
	results = append(results, Result[record.Record]{Err: fmt.Errorf("listing page at skip 0: boom")})
	results = append(results, collected("b_en")...)

	indexer := &fakeIndexer{}
	p := NewPipeline(&stubCollector{results: results}, indexer, WithBatchSize(10))

	err := p.Run(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "1 failures")

	require.Len(t, indexer.batches, 1, "records around the gap still save")
	assert.Len(t, indexer.batches[0], 2)
}

func TestRun_SaveFailureKeepsGoing(t *testing.T) {
	indexer := &fakeIndexer{}
	indexer.save = func(batch []record.Record) (int, error) {
		if len(indexer.batches) == 1 {
			return 0, fmt.Errorf("bulk rejected")
		}
		return len(batch), nil
	}

	p := NewPipeline(
		&stubCollector{results: collected("a_en", "b_en", "c_en")},
		indexer,
		WithBatchSize(2),
	)

	err := p.Run(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "2 failures")
	assert.Len(t, indexer.batches, 2)
}

func TestRun_CollectStartFailure(t *testing.T) {
	p := NewPipeline(&stubCollector{err: fmt.Errorf("bad config")}, &fakeIndexer{})
	assert.Error(t, p.Run(t.Context()))
}

func TestRun_CancelledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	blocked := make(chan Result[record.Record])
	p := NewPipeline(channelCollector(blocked), &fakeIndexer{})

	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
}

type channelCollector <-chan Result[record.Record]

func (c channelCollector) Collect(context.Context) (<-chan Result[record.Record], error) {
	return c, nil
}
