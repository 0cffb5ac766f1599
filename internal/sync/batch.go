package sync

import (
	"sort"

	"github.com/camphaven/searchsync/internal/record"
)

// NotificationResult is the outcome of one notification's
// resolve-and-build path. The zero value is a skip: the item was
// unpublished or unreachable and contributes nothing.
type NotificationResult struct {
	Upserts []record.Record
	Deletes []string
}

func (r NotificationResult) Empty() bool {
	return len(r.Upserts) == 0 && len(r.Deletes) == 0
}

// WriteBatch is the merged output of one delivery: records to upsert
// keyed by objectID and objectIDs to delete. Either side may be empty
// and the gateway issues no call for an empty side.
type WriteBatch struct {
	Upserts map[string]record.Record
	Deletes map[string]struct{}
}

func NewWriteBatch() WriteBatch {
	return WriteBatch{
		Upserts: make(map[string]record.Record),
		Deletes: make(map[string]struct{}),
	}
}

func (b WriteBatch) Empty() bool {
	return len(b.Upserts) == 0 && len(b.Deletes) == 0
}

// UpsertList returns the records ordered by objectID, so batch writes
// and their logs are stable across runs.
func (b WriteBatch) UpsertList() []record.Record {
	keys := make([]string, 0, len(b.Upserts))
	for key := range b.Upserts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]record.Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, b.Upserts[key])
	}
	return records
}

// DeleteList returns the objectIDs to delete, ordered.
func (b WriteBatch) DeleteList() []string {
	ids := make([]string, 0, len(b.Deletes))
	for id := range b.Deletes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reduce merges per-notification results in notification order. A
// duplicated objectID keeps the later record; deletes collapse into a
// set.
func Reduce(results []NotificationResult) WriteBatch {
	batch := NewWriteBatch()
	for _, result := range results {
		for _, rec := range result.Upserts {
			batch.Upserts[rec.Key()] = rec
		}
		for _, objectID := range result.Deletes {
			batch.Deletes[objectID] = struct{}{}
		}
	}
	return batch
}
