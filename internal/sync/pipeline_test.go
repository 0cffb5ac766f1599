package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camphaven/searchsync/internal/content"
	"github.com/camphaven/searchsync/internal/record"
	"github.com/camphaven/searchsync/internal/webhook"
)

const testEnvID = "97dd7525-0e46-4a6c-a79f-7b8b5fa7bc21"

type stubResolver struct {
	graphs map[string]content.Graph

	inFlight     atomic.Int32
	maxInFlight  atomic.Int32
	resolveDelay time.Duration
}

func (s *stubResolver) Resolve(_ context.Context, codename, language string) content.Graph {
	current := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		peak := s.maxInFlight.Load()
		if current <= peak || s.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}
	if s.resolveDelay > 0 {
		time.Sleep(s.resolveDelay)
	}
	return s.graphs[codename+"|"+language]
}

func graphItem(t *testing.T, id, codename, typ, elementsJSON string) content.Item {
	t.Helper()
	raw := fmt.Sprintf(`{
		"system": {"id": %q, "name": %q, "codename": %q, "language": "en-US", "type": %q, "collection": "default"},
		"elements": %s
	}`, id, codename, codename, typ, elementsJSON)

	var it content.Item
	require.NoError(t, json.Unmarshal([]byte(raw), &it))
	return it
}

func notif(codename string) webhook.ItemNotification {
	return webhook.ItemNotification{
		EnvironmentID: uuid.MustParse(testEnvID),
		Codename:      codename,
		Language:      "en-US",
	}
}

func newTestPipeline(t *testing.T, resolver GraphResolver, opts Options) *Pipeline {
	t.Helper()
	p, err := NewPipeline(resolver, record.NewRegistry(opts.SlugElement), opts)
	require.NoError(t, err)
	return p
}

func TestProcess_UpsertsEachNotifiedItem(t *testing.T) {
	camp := graphItem(t, "camp-id", "pine_hollow", "campground", `{
		"name": {"type": "text", "name": "Name", "value": "Pine Hollow"}
	}`)
	page := graphItem(t, "page-id", "about", "page", `{
		"body": {"type": "text", "name": "Body", "value": "About us"}
	}`)
	resolver := &stubResolver{graphs: map[string]content.Graph{
		"pine_hollow|en-US": {"pine_hollow": camp},
		"about|en-US":       {"about": page},
	}}
	p := newTestPipeline(t, resolver, DefaultOptions())

	batch := p.Process(t.Context(), []webhook.ItemNotification{
		notif("pine_hollow"),
		notif("about"),
	})

	require.Len(t, batch.Upserts, 2)
	assert.Contains(t, batch.Upserts, "camp-id_en-US")
	assert.Contains(t, batch.Upserts, "page-id_en-US")
	assert.Empty(t, batch.Deletes)

	_, isCamp := batch.Upserts["camp-id_en-US"].(record.CampgroundRecord)
	assert.True(t, isCamp)
	_, isGeneric := batch.Upserts["page-id_en-US"].(record.GenericRecord)
	assert.True(t, isGeneric)
}

func TestProcess_DuplicateNotificationsCollapse(t *testing.T) {
	page := graphItem(t, "page-id", "about", "page", `{
		"body": {"type": "text", "name": "Body", "value": "About us"}
	}`)
	resolver := &stubResolver{graphs: map[string]content.Graph{
		"about|en-US": {"about": page},
	}}
	p := newTestPipeline(t, resolver, DefaultOptions())

	batch := p.Process(t.Context(), []webhook.ItemNotification{
		notif("about"),
		notif("about"),
	})

	assert.Len(t, batch.Upserts, 1)
}

func TestProcess_UnpublishedItemContributesNothing(t *testing.T) {
	resolver := &stubResolver{graphs: map[string]content.Graph{}}
	p := newTestPipeline(t, resolver, DefaultOptions())

	batch := p.Process(t.Context(), []webhook.ItemNotification{notif("ghost")})

	assert.True(t, batch.Empty())
}

func TestProcess_FailureIsolation(t *testing.T) {
	page := graphItem(t, "page-id", "about", "page", `{
		"body": {"type": "text", "name": "Body", "value": "About us"}
	}`)
	resolver := &stubResolver{graphs: map[string]content.Graph{
		"about|en-US": {"about": page},
	}}
	p := newTestPipeline(t, resolver, DefaultOptions())

	batch := p.Process(t.Context(), []webhook.ItemNotification{
		notif("ghost"),
		notif("about"),
	})

	require.Len(t, batch.Upserts, 1)
	assert.Contains(t, batch.Upserts, "page-id_en-US")
}

func TestProcess_Idempotent(t *testing.T) {
	root := graphItem(t, "root-id", "about", "page", `{
		"body": {"type": "rich_text", "name": "Body", "value": "<p>Visit&nbsp;soon</p>"},
		"links": {"type": "modular_content", "name": "Links", "value": ["left", "right"]}
	}`)
	left := graphItem(t, "left-id", "left", "page", `{
		"links": {"type": "modular_content", "name": "Links", "value": ["shared"]}
	}`)
	right := graphItem(t, "right-id", "right", "page", `{
		"links": {"type": "modular_content", "name": "Links", "value": ["shared"]}
	}`)
	shared := graphItem(t, "shared-id", "shared", "page", `{
		"body": {"type": "text", "name": "Body", "value": "Shared"}
	}`)
	g := content.Graph{"about": root, "left": left, "right": right, "shared": shared}
	resolver := &stubResolver{graphs: map[string]content.Graph{"about|en-US": g}}
	p := newTestPipeline(t, resolver, DefaultOptions())

	notifications := []webhook.ItemNotification{notif("about")}

	first := p.Process(t.Context(), notifications)
	second := p.Process(t.Context(), notifications)

	firstJSON, err := json.Marshal(first.UpsertList())
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.UpsertList())
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "same input must produce byte-identical records")
}

func TestProcess_ForeignEnvironmentSkipped(t *testing.T) {
	page := graphItem(t, "page-id", "about", "page", `{
		"body": {"type": "text", "name": "Body", "value": "About us"}
	}`)
	resolver := &stubResolver{graphs: map[string]content.Graph{
		"about|en-US": {"about": page},
	}}

	opts := DefaultOptions()
	opts.EnvironmentID = "00000000-0000-0000-0000-00000000beef"
	p := newTestPipeline(t, resolver, opts)

	batch := p.Process(t.Context(), []webhook.ItemNotification{notif("about")})

	assert.True(t, batch.Empty())
}

func TestProcess_ConcurrencyBounded(t *testing.T) {
	page := graphItem(t, "page-id", "about", "page", `{
		"body": {"type": "text", "name": "Body", "value": "About us"}
	}`)
	resolver := &stubResolver{
		graphs:       map[string]content.Graph{"about|en-US": {"about": page}},
		resolveDelay: 5 * time.Millisecond,
	}

	opts := DefaultOptions()
	opts.Concurrency = 2
	p := newTestPipeline(t, resolver, opts)

	notifications := make([]webhook.ItemNotification, 8)
	for i := range notifications {
		notifications[i] = notif("about")
	}
	p.Process(t.Context(), notifications)

	assert.LessOrEqual(t, resolver.maxInFlight.Load(), int32(2))
}
