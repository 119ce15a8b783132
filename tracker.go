package pagemd

import "sync"

// Intersection is a single region-intersection notification: anchor id and
// whether the anchor is entering or leaving the observed region.
type Intersection struct {
	ID       string
	Entering bool
}

// RegionObserver delivers viewport-intersection notifications for a set of
// anchor ids. Implementations wrap whatever the host environment provides;
// tests feed synthetic batches.
type RegionObserver interface {
	// Observe starts watching the given anchor ids, invoking fn with each
	// notification batch until Disconnect is called.
	Observe(ids []string, fn func([]Intersection)) error

	// Disconnect stops observation and releases all registrations.
	Disconnect()
}

// Scroller moves the viewport to an anchor. ScrollTo is expected to scroll
// smoothly and update the location fragment without a page navigation.
type Scroller interface {
	ScrollTo(id string) error
}

// HeadingTracker reports which heading anchor is currently "active" based
// on region-intersection notifications, driving TOC highlighting. It is a
// single-subscriber state machine: either no heading is active or exactly
// one id is.
type HeadingTracker struct {
	observer RegionObserver
	scroller Scroller
	onChange func(id string)

	mu     sync.Mutex
	active string
	bound  bool
}

// NewHeadingTracker creates a tracker. onChange may be nil; when set it is
// called with the new active id on every transition.
func NewHeadingTracker(observer RegionObserver, scroller Scroller, onChange func(id string)) *HeadingTracker {
	return &HeadingTracker{
		observer: observer,
		scroller: scroller,
		onChange: onChange,
	}
}

// SetHeadings replaces the tracked heading set. Any previous observation
// is torn down before re-subscribing, so observers are never leaked. The
// active heading resets because old ids may no longer exist.
func (t *HeadingTracker) SetHeadings(headings []Heading) error {
	t.mu.Lock()
	if t.bound {
		t.observer.Disconnect()
		t.bound = false
	}
	t.active = ""
	t.mu.Unlock()

	if len(headings) == 0 {
		return nil
	}

	ids := make([]string, len(headings))
	for i, h := range headings {
		ids[i] = h.ID
	}

	if err := t.observer.Observe(ids, t.handleBatch); err != nil {
		return err
	}

	t.mu.Lock()
	t.bound = true
	t.mu.Unlock()
	return nil
}

// handleBatch applies one notification batch. The last entering anchor in
// the batch wins when several intersect at once.
func (t *HeadingTracker) handleBatch(batch []Intersection) {
	next := ""
	for _, ev := range batch {
		if ev.Entering {
			next = ev.ID
		}
	}
	if next == "" {
		return
	}
	t.setActive(next)
}

// ScrollTo scrolls the target into view and marks it active directly,
// without waiting for an intersection notification.
func (t *HeadingTracker) ScrollTo(id string) error {
	if t.scroller != nil {
		if err := t.scroller.ScrollTo(id); err != nil {
			return err
		}
	}
	t.setActive(id)
	return nil
}

// Active returns the currently active heading id, or "" when none is.
func (t *HeadingTracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Close tears down the current observation.
func (t *HeadingTracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bound {
		t.observer.Disconnect()
		t.bound = false
	}
}

func (t *HeadingTracker) setActive(id string) {
	t.mu.Lock()
	changed := t.active != id
	t.active = id
	t.mu.Unlock()

	if changed && t.onChange != nil {
		t.onChange(id)
	}
}
