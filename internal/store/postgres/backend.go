package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/store"
)

// Backend serves the document store out of the events/participants tables.
type Backend struct {
	pool *pgxpool.Pool
}

var _ store.Backend = (*Backend)(nil)

func NewBackend(pool *pgxpool.Pool) *Backend {
	return &Backend{pool: pool}
}

func (b *Backend) ListEventNames(ctx context.Context) ([]string, error) {
	rows, err := b.pool.Query(ctx, `SELECT name FROM events ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list event names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list event names: %w", err)
	}
	return names, nil
}

func (b *Backend) ListEvents(ctx context.Context) ([]participant.Event, error) {
	rows, err := b.pool.Query(ctx, `SELECT name, data FROM events ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]participant.Event, 0)

	for rows.Next() {
		var (
			name string
			data map[string]any
		)

		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, participant.Event{ID: name, Name: name, Data: data})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (b *Backend) ListParticipants(ctx context.Context, eventName string) ([]participant.Participant, error) {
	rows, err := b.pool.Query(ctx, `
		SELECT id, data
		FROM participants
		WHERE event_name = $1
		ORDER BY id ASC
	`, eventName)
	if err != nil {
		return nil, fmt.Errorf("list participants of %q: %w", eventName, err)
	}
	defer rows.Close()

	out := make([]participant.Participant, 0)

	for rows.Next() {
		var (
			id   string
			data map[string]any
		)

		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, participant.NewFromDocument(id, eventName, data))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list participants of %q: %w", eventName, err)
	}
	return out, nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}
