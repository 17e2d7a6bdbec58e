// Package store defines the read-only view of the participant document store
// and the backends that implement it.
package store

import (
	"context"
	"errors"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

const (
	EventsCollection       = "events"
	ParticipantsCollection = "participants"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Backend is a raw document store. Implementations return errors as-is;
// fail-soft policy lives in the participants service.
type Backend interface {
	ListEventNames(ctx context.Context) ([]string, error)
	ListEvents(ctx context.Context) ([]participant.Event, error)
	// ListParticipants returns every participant under eventName. An event
	// that does not exist yields an empty slice and no error.
	ListParticipants(ctx context.Context, eventName string) ([]participant.Participant, error)
	Ping(ctx context.Context) error
}
