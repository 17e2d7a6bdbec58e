package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/store"
)

// setupBackend connects to the Firestore emulator. The client picks up
// FIRESTORE_EMULATOR_HOST on its own.
func setupBackend(t *testing.T) *Backend {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping firestore integration test")
	}

	b, err := New(context.Background(), Config{ProjectID: "eventmail-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return b
}

// seedEvent writes events/{name} and its participants, and removes them
// after the test.
func seedEvent(t *testing.T, b *Backend, name string, data map[string]any, participants map[string]map[string]any) {
	t.Helper()
	ctx := context.Background()

	eventRef := b.client.Collection(store.EventsCollection).Doc(name)
	_, err := eventRef.Set(ctx, data)
	require.NoError(t, err)

	for id, doc := range participants {
		_, err := eventRef.Collection(store.ParticipantsCollection).Doc(id).Set(ctx, doc)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		for id := range participants {
			_, _ = eventRef.Collection(store.ParticipantsCollection).Doc(id).Delete(ctx)
		}
		_, _ = eventRef.Delete(ctx)
	})
}

func TestBackend_ListParticipantsUsesDocumentIDs(t *testing.T) {
	b := setupBackend(t)
	event := "hackathon-" + uuid.NewString()

	seedEvent(t, b, event, map[string]any{"venue": "Hall A"}, map[string]map[string]any{
		"p1": {"participant_name": "Ada", "participant_email": "ada@example.com"},
		"p2": {"participant_email": "nameless@example.com"},
		"p3": {"participant_name": "Mailless"},
	})

	got, err := b.ListParticipants(context.Background(), event)
	require.NoError(t, err)

	byID := map[string]participant.Participant{}
	for _, p := range got {
		byID[p.ID] = p
	}

	require.Len(t, byID, 3)
	assert.Equal(t, participant.Participant{ID: "p1", Name: "Ada", Email: "ada@example.com", EventName: event}, byID["p1"])
	assert.Equal(t, participant.Participant{ID: "p2", Name: "", Email: "nameless@example.com", EventName: event}, byID["p2"])
	assert.Equal(t, participant.Participant{ID: "p3", Name: "Mailless", Email: "", EventName: event}, byID["p3"])
}

func TestBackend_MissingEventIsEmptyNotError(t *testing.T) {
	b := setupBackend(t)

	got, err := b.ListParticipants(context.Background(), "no-such-event-"+uuid.NewString())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBackend_ListEventsPassesDataThrough(t *testing.T) {
	b := setupBackend(t)
	event := "summit-" + uuid.NewString()

	seedEvent(t, b, event, map[string]any{
		"venue":    "Hall B",
		"capacity": 120,
		"tags":     []any{"tech", "free"},
	}, nil)

	events, err := b.ListEvents(context.Background())
	require.NoError(t, err)

	var found *participant.Event
	for i := range events {
		if events[i].ID == event {
			found = &events[i]
		}
	}
	require.NotNil(t, found, "seeded event not listed")

	assert.Equal(t, event, found.Name)
	assert.Equal(t, "Hall B", found.Data["venue"])
	// firestore hands integers back as int64
	assert.Equal(t, int64(120), found.Data["capacity"])
	assert.Equal(t, []any{"tech", "free"}, found.Data["tags"])

	names, err := b.ListEventNames(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, event)

	require.NoError(t, b.Ping(context.Background()))
}
