package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports required event fields that are missing or empty
// at persistence time.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}

// Event represents a publishable, time-scoped event owned by an organizer.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Place       string     `json:"place"`
	StartedAt   time.Time  `json:"started_at"`
	OrganizerID string     `json:"organizer_id"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	TitleImage  string     `json:"title_image,omitempty"` // opaque reference into the upload subsystem
	Slug        string     `json:"slug"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent returns a new unpublished Event. ID and Slug are set by the
// repository on create.
func NewEvent(title, description, place string, startedAt time.Time, organizerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Place:       place,
		StartedAt:   startedAt,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Validate checks that every required field is present. It returns a
// *ValidationError naming each missing field, or nil.
func (e *Event) Validate() error {
	var missing []string
	if strings.TrimSpace(e.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(e.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(e.Place) == "" {
		missing = append(missing, "place")
	}
	if e.StartedAt.IsZero() {
		missing = append(missing, "started_at")
	}
	if e.OrganizerID == "" {
		missing = append(missing, "organizer_id")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// IsPast reports whether the event started before now. This is the
// wall-clock check; listing scopes use the day boundary instead.
func (e *Event) IsPast(now time.Time) bool {
	return e.StartedAt.Before(now)
}

// SetPublished moves the event into or out of the published state.
// Published and PublishedAt always change together: entering the published
// state stamps PublishedAt, leaving it clears it.
func (e *Event) SetPublished(published bool, now time.Time) {
	e.Published = published
	if published {
		t := now
		e.PublishedAt = &t
	} else {
		e.PublishedAt = nil
	}
}

// StartOfDay returns midnight of t's calendar day in t's location. An event
// starting exactly at this boundary counts as future.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EventUpdate carries organizer-editable fields. Nil fields are unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Place       *string
	StartedAt   *time.Time
	TitleImage  *string
}

// EventRepository defines the interface for event storage. Create and
// Update receive the slug candidate on the event and are responsible for
// resolving it to a unique slug.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, q EventQuery) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic around events: creation and
// edits, scoped listing, publication transitions, and participation
// queries.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventBySlug(ctx context.Context, slug string, viewer *Viewer) (*Event, error)
	ListEvents(ctx context.Context, viewer *Viewer, temporal TemporalScope, publishedOnly bool) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, actorID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, actorID string) error
	// Publish flips the publication flag: a draft becomes published and a
	// published event reverts to draft.
	Publish(ctx context.Context, eventID, actorID string) (*Event, error)
	// CancelPublication reverts a published event to draft.
	CancelPublication(ctx context.Context, eventID, actorID string) (*Event, error)
	HasParticipant(ctx context.Context, eventID, userID string) (bool, error)
	ParticipationFor(ctx context.Context, eventID, userID string) (*Participation, error)
}
