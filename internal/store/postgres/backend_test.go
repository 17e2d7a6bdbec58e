package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping postgres integration test")
	}

	ctx := context.Background()

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// running it twice proves the schema is idempotent
	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool))

	return pool
}

// seedEvent inserts one event row with its participants and deletes them
// (participants cascade) after the test.
func seedEvent(t *testing.T, pool *pgxpool.Pool, name, data string, participants map[string]string) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `INSERT INTO events (name, data) VALUES ($1, $2::jsonb)`, name, data)
	require.NoError(t, err)

	for id, doc := range participants {
		_, err := pool.Exec(ctx, `INSERT INTO participants (event_name, id, data) VALUES ($1, $2, $3::jsonb)`, name, id, doc)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM events WHERE name = $1`, name)
	})
}

func TestBackend_ListParticipantsScansJSONB(t *testing.T) {
	pool := setupPool(t)
	b := NewBackend(pool)
	event := "hackathon-" + uuid.NewString()

	seedEvent(t, pool, event, `{}`, map[string]string{
		"p1": `{"participant_name":"Ada","participant_email":"ada@example.com"}`,
		"p2": `{"participant_email":"nameless@example.com"}`,
		"p3": `{"participant_name":"Mailless","participant_email":null}`,
	})

	got, err := b.ListParticipants(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, []participant.Participant{
		{ID: "p1", Name: "Ada", Email: "ada@example.com", EventName: event},
		{ID: "p2", Name: "", Email: "nameless@example.com", EventName: event},
		{ID: "p3", Name: "Mailless", Email: "", EventName: event},
	}, got)
}

func TestBackend_MissingEventIsEmptyNotError(t *testing.T) {
	b := NewBackend(setupPool(t))

	got, err := b.ListParticipants(context.Background(), "no-such-event-"+uuid.NewString())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBackend_ListEventsPassesDataThrough(t *testing.T) {
	pool := setupPool(t)
	b := NewBackend(pool)
	event := "summit-" + uuid.NewString()

	seedEvent(t, pool, event, `{"venue":"Hall B","capacity":120,"tags":["tech","free"]}`, nil)

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
	// JSONB numbers decode as float64
	assert.Equal(t, float64(120), found.Data["capacity"])
	assert.Equal(t, []any{"tech", "free"}, found.Data["tags"])

	names, err := b.ListEventNames(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, event)

	require.NoError(t, b.Ping(context.Background()))
}
