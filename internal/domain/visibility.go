package domain

import "time"

// Viewer identifies who is reading event data. A nil *Viewer means an
// anonymous caller.
type Viewer struct {
	ID    string
	Admin bool
}

// VisibleTo reports whether viewer may see the event: anonymous callers
// see only published events, admins see everything, and any other user
// sees their own events plus published ones. The repository builds the
// equivalent SQL filter from EventQuery; the two must agree.
func (e *Event) VisibleTo(viewer *Viewer) bool {
	if viewer == nil {
		return e.Published
	}
	if viewer.Admin {
		return true
	}
	return e.OrganizerID == viewer.ID || e.Published
}

// TemporalScope selects events relative to the start of the current day.
type TemporalScope int

const (
	// TemporalAll applies no time filter.
	TemporalAll TemporalScope = iota
	// TemporalPast selects events that started before the day boundary,
	// newest first.
	TemporalPast
	// TemporalFuture selects events starting on or after the day boundary,
	// soonest first. An event starting exactly at the boundary is future.
	TemporalFuture
)

// EventQuery shapes a repository listing. The scopes compose: visibility
// for Viewer, the temporal window, and the published-only filter all apply
// together.
type EventQuery struct {
	Viewer        *Viewer
	Temporal      TemporalScope
	PublishedOnly bool
	// DayBoundary is the start of "today" in the server's reference time.
	// Required when Temporal is not TemporalAll.
	DayBoundary time.Time
}

// Matches is the in-memory form of the query: it reports whether e passes
// every filter of q. Ordering is the repository's concern.
func (q EventQuery) Matches(e *Event) bool {
	if !e.VisibleTo(q.Viewer) {
		return false
	}
	if q.PublishedOnly && !e.Published {
		return false
	}
	switch q.Temporal {
	case TemporalPast:
		return e.StartedAt.Before(q.DayBoundary)
	case TemporalFuture:
		return !e.StartedAt.Before(q.DayBoundary)
	}
	return true
}
