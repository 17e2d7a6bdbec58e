package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/store"
)

// Backend serves participants from a flat JSON array on disk. The file is
// re-read on every call. A missing or malformed file reads as empty.
type Backend struct {
	path string
	log  *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

func NewBackend(path string, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{path: path, log: log}
}

func (b *Backend) load(ctx context.Context) []participant.Participant {
	raw, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.log.WarnContext(ctx, "participants file not found", "path", b.path)
		} else {
			b.log.ErrorContext(ctx, "participants file unreadable", "path", b.path, "err", err)
		}
		return []participant.Participant{}
	}

	var out []participant.Participant
	if err := json.Unmarshal(raw, &out); err != nil {
		b.log.ErrorContext(ctx, "participants file is not valid JSON", "path", b.path, "err", err)
		return []participant.Participant{}
	}
	if out == nil {
		out = []participant.Participant{}
	}
	return out
}

// ListEventNames returns distinct event names in first-seen order.
func (b *Backend) ListEventNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for _, p := range b.load(ctx) {
		if _, ok := seen[p.EventName]; ok {
			continue
		}
		seen[p.EventName] = struct{}{}
		names = append(names, p.EventName)
	}
	return names, nil
}

func (b *Backend) ListEvents(ctx context.Context) ([]participant.Event, error) {
	names, err := b.ListEventNames(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]participant.Event, 0, len(names))
	for _, n := range names {
		events = append(events, participant.Event{ID: n, Name: n, Data: map[string]any{}})
	}
	return events, nil
}

func (b *Backend) ListParticipants(ctx context.Context, eventName string) ([]participant.Participant, error) {
	out := make([]participant.Participant, 0)

	for _, p := range b.load(ctx) {
		if p.EventName == eventName {
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return nil
}
