// Package mock provides function-field mock implementations of pagemd
// interfaces for testing.
package mock

import (
	"context"

	"github.com/fwojciec/pagemd"
)

var _ pagemd.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagemd.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ pagemd.EventStore = (*EventStore)(nil)

// EventStore is a mock implementation of pagemd.EventStore.
type EventStore struct {
	SaveEventFn   func(ctx context.Context, event *pagemd.AnalyticsEvent) error
	EventsFn      func(ctx context.Context) ([]*pagemd.AnalyticsEvent, error)
	ClearEventsFn func(ctx context.Context) error
}

func (s *EventStore) SaveEvent(ctx context.Context, event *pagemd.AnalyticsEvent) error {
	return s.SaveEventFn(ctx, event)
}

func (s *EventStore) Events(ctx context.Context) ([]*pagemd.AnalyticsEvent, error) {
	return s.EventsFn(ctx)
}

func (s *EventStore) ClearEvents(ctx context.Context) error {
	return s.ClearEventsFn(ctx)
}

var _ pagemd.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagemd.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ pagemd.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagemd.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagemd.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pagemd.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ pagemd.URLSource = (*URLSource)(nil)

// URLSource is a mock implementation of pagemd.URLSource.
type URLSource struct {
	DiscoverFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *URLSource) Discover(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverFn(ctx, baseURL)
}

var _ pagemd.RegionObserver = (*RegionObserver)(nil)

// RegionObserver is a mock implementation of pagemd.RegionObserver. It
// records observed ids and lets tests emit synthetic intersection batches.
type RegionObserver struct {
	ObservedIDs []string
	Disconnects int

	fn func([]pagemd.Intersection)
}

func (o *RegionObserver) Observe(ids []string, fn func([]pagemd.Intersection)) error {
	o.ObservedIDs = ids
	o.fn = fn
	return nil
}

func (o *RegionObserver) Disconnect() {
	o.Disconnects++
	o.fn = nil
}

// Emit delivers a synthetic intersection batch to the subscriber.
func (o *RegionObserver) Emit(batch []pagemd.Intersection) {
	if o.fn != nil {
		o.fn(batch)
	}
}

var _ pagemd.Scroller = (*Scroller)(nil)

// Scroller is a mock implementation of pagemd.Scroller.
type Scroller struct {
	Calls     []string
	ScrollErr error
}

func (s *Scroller) ScrollTo(id string) error {
	if s.ScrollErr != nil {
		return s.ScrollErr
	}
	s.Calls = append(s.Calls, id)
	return nil
}
