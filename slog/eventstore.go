package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagemd"
)

// Ensure LoggingEventStore implements pagemd.EventStore.
var _ pagemd.EventStore = (*LoggingEventStore)(nil)

// LoggingEventStore wraps an EventStore with debug logging.
type LoggingEventStore struct {
	next   pagemd.EventStore
	logger *slog.Logger
}

// NewLoggingEventStore creates a new LoggingEventStore.
func NewLoggingEventStore(next pagemd.EventStore, logger *slog.Logger) *LoggingEventStore {
	return &LoggingEventStore{next: next, logger: logger}
}

// SaveEvent delegates to the wrapped store and logs the operation.
func (s *LoggingEventStore) SaveEvent(ctx context.Context, event *pagemd.AnalyticsEvent) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("analytics event saved",
			"action", event.Action,
			"content_id", event.ContentID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveEvent(ctx, event)
}

// Events delegates to the wrapped store.
func (s *LoggingEventStore) Events(ctx context.Context) ([]*pagemd.AnalyticsEvent, error) {
	return s.next.Events(ctx)
}

// ClearEvents delegates to the wrapped store and logs the operation.
func (s *LoggingEventStore) ClearEvents(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("analytics events cleared", "err", err)
	}(time.Now())
	return s.next.ClearEvents(ctx)
}
