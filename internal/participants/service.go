package participants

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/observability"
	"github.com/geocoder89/eventmail/internal/store"
)

// Service is the participant store adapter used by the HTTP layer.
//
// ListParticipants never fails: backend errors are logged and read as an
// empty list, so callers cannot tell "no participants" from "fetch failed".
// ListEvents, on the other hand, returns backend errors to the caller.
type Service struct {
	backend store.Backend
	log     *slog.Logger
	prom    *observability.Prom
}

func NewService(backend store.Backend, log *slog.Logger, prom *observability.Prom) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{backend: backend, log: log, prom: prom}
}

// ListParticipants returns the participants of eventName, or of every event
// when eventName is empty.
func (s *Service) ListParticipants(ctx context.Context, eventName string) []participant.Participant {
	ctx, span := observability.Tracer().Start(ctx, "participants.list")
	defer span.End()
	span.SetAttributes(attribute.String("event_name", eventName))

	var (
		out []participant.Participant
		err error
	)

	if eventName != "" {
		out, err = s.listForEvent(ctx, eventName)
	} else {
		out, err = s.listAll(ctx)
	}

	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "loading participants failed", "event", eventName, "err", err)
		return []participant.Participant{}
	}

	if out == nil {
		out = []participant.Participant{}
	}
	return out
}

func (s *Service) listForEvent(ctx context.Context, eventName string) (out []participant.Participant, err error) {
	err = s.prom.ObserveStore("participants.list_by_event", func() error {
		out, err = s.backend.ListParticipants(ctx, eventName)
		return err
	})
	return
}

func (s *Service) listAll(ctx context.Context) ([]participant.Participant, error) {
	var names []string

	err := s.prom.ObserveStore("events.list_names", func() (err error) {
		names, err = s.backend.ListEventNames(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	all := make([]participant.Participant, 0)
	for _, name := range names {
		ps, err := s.listForEvent(ctx, name)
		if err != nil {
			return nil, err
		}
		all = append(all, ps...)
	}
	return all, nil
}

func (s *Service) ListEvents(ctx context.Context) (events []participant.Event, err error) {
	ctx, span := observability.Tracer().Start(ctx, "events.list")
	defer span.End()

	err = s.prom.ObserveStore("events.list", func() error {
		events, err = s.backend.ListEvents(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "fetching events failed", "err", err)
		return nil, err
	}

	if events == nil {
		events = []participant.Event{}
	}
	return events, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
