package pagemd_test

import (
	"testing"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedHeadings(ids ...string) []pagemd.Heading {
	hs := make([]pagemd.Heading, len(ids))
	for i, id := range ids {
		hs[i] = pagemd.Heading{ID: id, Text: id, Level: 2}
	}
	return hs
}

func TestHeadingTracker_last_entering_anchor_wins(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, nil)

	require.NoError(t, tracker.SetHeadings(trackedHeadings("intro", "setup", "usage")))
	assert.Equal(t, []string{"intro", "setup", "usage"}, observer.ObservedIDs)

	observer.Emit([]pagemd.Intersection{
		{ID: "intro", Entering: true},
		{ID: "setup", Entering: true},
	})
	assert.Equal(t, "setup", tracker.Active())
}

func TestHeadingTracker_leaving_notifications_keep_current_active(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, nil)
	require.NoError(t, tracker.SetHeadings(trackedHeadings("intro", "setup")))

	observer.Emit([]pagemd.Intersection{{ID: "intro", Entering: true}})
	observer.Emit([]pagemd.Intersection{{ID: "intro", Entering: false}})

	assert.Equal(t, "intro", tracker.Active(), "a batch with no entering anchor changes nothing")
}

func TestHeadingTracker_SetHeadings_tears_down_previous_observation(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, nil)

	require.NoError(t, tracker.SetHeadings(trackedHeadings("a")))
	observer.Emit([]pagemd.Intersection{{ID: "a", Entering: true}})
	require.Equal(t, "a", tracker.Active())

	require.NoError(t, tracker.SetHeadings(trackedHeadings("b", "c")))
	assert.Equal(t, 1, observer.Disconnects)
	assert.Equal(t, "", tracker.Active(), "active resets when the heading set changes")
	assert.Equal(t, []string{"b", "c"}, observer.ObservedIDs)
}

func TestHeadingTracker_SetHeadings_empty_set_only_disconnects(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, nil)

	require.NoError(t, tracker.SetHeadings(trackedHeadings("a")))
	require.NoError(t, tracker.SetHeadings(nil))

	assert.Equal(t, 1, observer.Disconnects)
	assert.Equal(t, "", tracker.Active())
}

func TestHeadingTracker_ScrollTo_sets_active_directly(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	scroller := &mock.Scroller{}
	tracker := pagemd.NewHeadingTracker(observer, scroller, nil)
	require.NoError(t, tracker.SetHeadings(trackedHeadings("intro", "setup")))

	require.NoError(t, tracker.ScrollTo("setup"))
	assert.Equal(t, []string{"setup"}, scroller.Calls)
	assert.Equal(t, "setup", tracker.Active())
}

func TestHeadingTracker_ScrollTo_propagates_scroller_errors(t *testing.T) {
	t.Parallel()

	scroller := &mock.Scroller{ScrollErr: pagemd.Errorf(pagemd.EINTERNAL, "no such anchor")}
	tracker := pagemd.NewHeadingTracker(&mock.RegionObserver{}, scroller, nil)

	err := tracker.ScrollTo("missing")
	require.Error(t, err)
	assert.Equal(t, "", tracker.Active(), "failed scroll must not change the active heading")
}

func TestHeadingTracker_onChange_fires_only_on_transitions(t *testing.T) {
	t.Parallel()

	var changes []string
	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, func(id string) {
		changes = append(changes, id)
	})
	require.NoError(t, tracker.SetHeadings(trackedHeadings("a", "b")))

	observer.Emit([]pagemd.Intersection{{ID: "a", Entering: true}})
	observer.Emit([]pagemd.Intersection{{ID: "a", Entering: true}})
	observer.Emit([]pagemd.Intersection{{ID: "b", Entering: true}})

	assert.Equal(t, []string{"a", "b"}, changes)
}

func TestHeadingTracker_Close_disconnects_once(t *testing.T) {
	t.Parallel()

	observer := &mock.RegionObserver{}
	tracker := pagemd.NewHeadingTracker(observer, nil, nil)
	require.NoError(t, tracker.SetHeadings(trackedHeadings("a")))

	tracker.Close()
	tracker.Close()
	assert.Equal(t, 1, observer.Disconnects)
}
