package pagemd

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Analytics actions.
const (
	ActionCopy     = "copy"
	ActionView     = "view"
	ActionDownload = "download"
)

// AnalyticsEvent records a single user interaction with generated
// Markdown. Events are append-only and never mutated after creation.
type AnalyticsEvent struct {
	ID        string            `json:"id,omitempty"`
	Action    string            `json:"action"`
	ContentID string            `json:"contentId,omitempty"`
	URL       string            `json:"url,omitempty"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Validate returns an error if the event has an unknown action.
func (e *AnalyticsEvent) Validate() error {
	switch e.Action {
	case ActionCopy, ActionView, ActionDownload:
		return nil
	}
	return Errorf(EINVALID, "unknown analytics action %q", e.Action)
}

// EventStore persists analytics events as an ordered append log.
type EventStore interface {
	// SaveEvent appends one event.
	SaveEvent(ctx context.Context, event *AnalyticsEvent) error

	// Events returns all stored events in append order.
	Events(ctx context.Context) ([]*AnalyticsEvent, error)

	// ClearEvents removes all stored events.
	ClearEvents(ctx context.Context) error
}

// Submitter forwards events to an EventStore while suppressing overlapping
// in-flight duplicates. The dedup key is (action, content ID, timestamp),
// which is deliberately coarse: it only merges duplicates of the exact
// same submission racing each other, not distinct simultaneous events.
type Submitter struct {
	store EventStore

	mu       sync.Mutex
	inflight map[uint64]struct{}
}

// NewSubmitter creates a Submitter backed by store.
func NewSubmitter(store EventStore) *Submitter {
	return &Submitter{
		store:    store,
		inflight: make(map[uint64]struct{}),
	}
}

// Submit validates and persists event. A submission whose dedup key is
// already in flight is dropped without error.
func (s *Submitter) Submit(ctx context.Context, event *AnalyticsEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	key := dedupKey(event)

	s.mu.Lock()
	if _, dup := s.inflight[key]; dup {
		s.mu.Unlock()
		return nil
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	return s.store.SaveEvent(ctx, event)
}

func dedupKey(event *AnalyticsEvent) uint64 {
	var d xxhash.Digest
	_, _ = d.WriteString(event.Action)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(event.ContentID)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(event.Timestamp)
	return d.Sum64()
}
