package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/observability"
	"github.com/geocoder89/eventmail/internal/store"
)

// Cache stores opaque bytes under a key for a bounded time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
}

const (
	keyEventNames   = "eventmail:event_names"
	keyEvents       = "eventmail:events"
	keyParticipants = "eventmail:participants:"
)

// Backend is a read-through cache in front of a store.Backend. Only
// successful reads are cached.
type Backend struct {
	inner store.Backend
	c     Cache
	ttl   time.Duration
	prom  *observability.Prom
	log   *slog.Logger
}

var _ store.Backend = (*Backend)(nil)

func Wrap(inner store.Backend, c Cache, ttl time.Duration, prom *observability.Prom, log *slog.Logger) *Backend {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	return &Backend{inner: inner, c: c, ttl: ttl, prom: prom, log: log}
}

func (b *Backend) ListEventNames(ctx context.Context) ([]string, error) {
	return readThrough(ctx, b, keyEventNames, b.inner.ListEventNames)
}

func (b *Backend) ListEvents(ctx context.Context) ([]participant.Event, error) {
	return readThrough(ctx, b, keyEvents, b.inner.ListEvents)
}

func (b *Backend) ListParticipants(ctx context.Context, eventName string) ([]participant.Participant, error) {
	return readThrough(ctx, b, keyParticipants+eventName, func(ctx context.Context) ([]participant.Participant, error) {
		return b.inner.ListParticipants(ctx, eventName)
	})
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}

func readThrough[T any](ctx context.Context, b *Backend, key string, load func(context.Context) (T, error)) (T, error) {
	if raw, ok := b.c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			b.prom.ObserveCache(true)
			return v, nil
		}
		b.log.WarnContext(ctx, "dropping undecodable cache entry", "key", key)
	}
	b.prom.ObserveCache(false)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		b.log.WarnContext(ctx, "cache encode failed", "key", key, "err", err)
		return v, nil
	}
	b.c.Set(ctx, key, raw, b.ttl)

	return v, nil
}
