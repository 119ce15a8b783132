// Package mem provides an in-memory analytics event store, the default
// append log for small deployments and tests.
package mem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/pagemd"
)

// Ensure EventStore implements pagemd.EventStore at compile time.
var _ pagemd.EventStore = (*EventStore)(nil)

// EventStore is an in-memory, append-ordered event log. Safe for
// concurrent use.
type EventStore struct {
	mu     sync.Mutex
	events []*pagemd.AnalyticsEvent
}

// NewEventStore creates an empty store.
func NewEventStore() *EventStore {
	return &EventStore{}
}

// SaveEvent appends one event. An ID and timestamp are assigned when
// missing. The stored copy is detached from the caller's value.
func (s *EventStore) SaveEvent(_ context.Context, event *pagemd.AnalyticsEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	stored := *event
	if len(event.Metadata) > 0 {
		stored.Metadata = make(map[string]string, len(event.Metadata))
		for k, v := range event.Metadata {
			stored.Metadata[k] = v
		}
	}

	s.mu.Lock()
	s.events = append(s.events, &stored)
	s.mu.Unlock()
	return nil
}

// Events returns all stored events in append order.
func (s *EventStore) Events(_ context.Context) ([]*pagemd.AnalyticsEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*pagemd.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

// ClearEvents removes all stored events.
func (s *EventStore) ClearEvents(_ context.Context) error {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
	return nil
}
