package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/geocoder89/eventmail/internal/domain/participant"
	"github.com/geocoder89/eventmail/internal/store"
)

type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Backend reads events/{event}/participants/{id} from Cloud Firestore.
type Backend struct {
	client *firestore.Client
}

var _ store.Backend = (*Backend)(nil)

func New(ctx context.Context, cfg Config) (*Backend, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}

	return &Backend{client: client}, nil
}

func (b *Backend) Close() error {
	return b.client.Close()
}

func (b *Backend) ListEventNames(ctx context.Context) ([]string, error) {
	iter := b.client.Collection(store.EventsCollection).Documents(ctx)
	defer iter.Stop()

	names := make([]string, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		names = append(names, doc.Ref.ID)
	}
	return names, nil
}

func (b *Backend) ListEvents(ctx context.Context) ([]participant.Event, error) {
	iter := b.client.Collection(store.EventsCollection).Documents(ctx)
	defer iter.Stop()

	events := make([]participant.Event, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}

		events = append(events, participant.Event{
			ID:   doc.Ref.ID,
			Name: doc.Ref.ID,
			Data: doc.Data(),
		})
	}
	return events, nil
}

func (b *Backend) ListParticipants(ctx context.Context, eventName string) ([]participant.Participant, error) {
	iter := b.client.Collection(store.EventsCollection).
		Doc(eventName).
		Collection(store.ParticipantsCollection).
		Documents(ctx)
	defer iter.Stop()

	out := make([]participant.Participant, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list participants of %q: %w", eventName, err)
		}
		out = append(out, participant.NewFromDocument(doc.Ref.ID, eventName, doc.Data()))
	}
	return out, nil
}

// Ping reads at most one event document.
func (b *Backend) Ping(ctx context.Context) error {
	iter := b.client.Collection(store.EventsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}
