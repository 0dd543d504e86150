package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Event{
		ID:          "ev-1",
		Title:       "Annual Meetup",
		Description: "Our yearly gathering",
		Place:       "Town Hall",
		StartedAt:   time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
		OrganizerID: "user-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestEvent_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validEvent().Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		e := validEvent()
		e.Title = "  "
		e.Place = ""
		e.StartedAt = time.Time{}
		err := e.Validate()
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"title", "place", "started_at"}, verr.Fields)
	})

	t.Run("missing organizer", func(t *testing.T) {
		e := validEvent()
		e.OrganizerID = ""
		var verr *ValidationError
		require.ErrorAs(t, e.Validate(), &verr)
		assert.Equal(t, []string{"organizer_id"}, verr.Fields)
	})
}

func TestEvent_SetPublished_PairInvariant(t *testing.T) {
	e := validEvent()
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	e.SetPublished(true, now)
	require.True(t, e.Published)
	require.NotNil(t, e.PublishedAt)
	assert.Equal(t, now, *e.PublishedAt)

	later := now.Add(time.Hour)
	e.SetPublished(false, later)
	require.False(t, e.Published)
	assert.Nil(t, e.PublishedAt)

	// invariant holds no matter how many times the state flips
	e.SetPublished(true, later)
	assert.Equal(t, e.Published, e.PublishedAt != nil)
}

func TestEvent_IsPast(t *testing.T) {
	e := validEvent()
	assert.True(t, e.IsPast(e.StartedAt.Add(time.Second)))
	assert.False(t, e.IsPast(e.StartedAt)) // exactly at start is not past
	assert.False(t, e.IsPast(e.StartedAt.Add(-time.Second)))
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 15, 23, 59, 59, 0, loc)
	got := StartOfDay(ts)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestEvent_VisibleTo(t *testing.T) {
	draft := validEvent()
	published := validEvent()
	published.SetPublished(true, time.Now())

	tests := []struct {
		name   string
		viewer *Viewer
		event  *Event
		want   bool
	}{
		{"anonymous sees published", nil, published, true},
		{"anonymous blocked from draft", nil, draft, false},
		{"admin sees draft", &Viewer{ID: "admin-1", Admin: true}, draft, true},
		{"organizer sees own draft", &Viewer{ID: "user-1"}, draft, true},
		{"stranger blocked from draft", &Viewer{ID: "user-2"}, draft, false},
		{"stranger sees published", &Viewer{ID: "user-2"}, published, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.VisibleTo(tt.viewer))
		})
	}
}

func TestEventQuery_Matches(t *testing.T) {
	boundary := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	past := validEvent()
	past.StartedAt = boundary.Add(-time.Hour)
	past.SetPublished(true, time.Now())

	atBoundary := validEvent()
	atBoundary.StartedAt = boundary
	atBoundary.SetPublished(true, time.Now())

	future := validEvent()
	future.StartedAt = boundary.Add(24 * time.Hour)
	future.SetPublished(true, time.Now())

	pastQ := EventQuery{Temporal: TemporalPast, DayBoundary: boundary}
	futureQ := EventQuery{Temporal: TemporalFuture, DayBoundary: boundary}

	assert.True(t, pastQ.Matches(past))
	assert.False(t, pastQ.Matches(atBoundary)) // boundary event is future
	assert.False(t, pastQ.Matches(future))

	assert.False(t, futureQ.Matches(past))
	assert.True(t, futureQ.Matches(atBoundary))
	assert.True(t, futureQ.Matches(future))

	t.Run("published only composes with visibility", func(t *testing.T) {
		draft := validEvent()
		draft.StartedAt = boundary.Add(time.Hour)
		q := EventQuery{
			Viewer:        &Viewer{ID: "user-1"}, // the organizer
			Temporal:      TemporalFuture,
			PublishedOnly: true,
			DayBoundary:   boundary,
		}
		// visible to the organizer but filtered out by the published scope
		assert.True(t, draft.VisibleTo(q.Viewer))
		assert.False(t, q.Matches(draft))
	})
}
