package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/pagemd"
)

// Compile-time interface verification.
var _ pagemd.EventStore = (*EventStore)(nil)

// EventStore implements pagemd.EventStore using SQLite.
type EventStore struct {
	db *DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// SaveEvent appends one event. An ID and timestamp are assigned when
// missing.
func (s *EventStore) SaveEvent(ctx context.Context, event *pagemd.AnalyticsEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	metadata := "{}"
	if len(event.Metadata) > 0 {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return pagemd.Errorf(pagemd.EINVALID, "encoding event metadata: %v", err)
		}
		metadata = string(b)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, action, content_id, url, timestamp, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.Action, event.ContentID, event.URL, event.Timestamp, metadata)

	return err
}

// Events returns all stored events in append order.
func (s *EventStore) Events(ctx context.Context) ([]*pagemd.AnalyticsEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, content_id, url, timestamp, metadata
		FROM events
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*pagemd.AnalyticsEvent
	for rows.Next() {
		var event pagemd.AnalyticsEvent
		var metadata string
		if err := rows.Scan(&event.ID, &event.Action, &event.ContentID, &event.URL, &event.Timestamp, &metadata); err != nil {
			return nil, err
		}
		if metadata != "" && metadata != "{}" {
			if err := json.Unmarshal([]byte(metadata), &event.Metadata); err != nil {
				return nil, pagemd.Errorf(pagemd.EINTERNAL, "decoding event metadata: %v", err)
			}
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}

// ClearEvents removes all stored events.
func (s *EventStore) ClearEvents(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM events`)
	return err
}
