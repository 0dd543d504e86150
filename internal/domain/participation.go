package domain

import (
	"context"
	"time"
)

// Participation links a user to an event they have joined.
// swagger:model Participation
type Participation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewParticipation creates a new Participation. ID is set by the
// repository on create.
func NewParticipation(eventID, userID string, createdAt, updatedAt time.Time) *Participation {
	return &Participation{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ParticipationRepository defines storage operations for participations.
// FindByEventAndUser returns (nil, nil) when the user has not joined the
// event: absence is a value callers branch on, not an error.
type ParticipationRepository interface {
	Create(ctx context.Context, p *Participation) error
	FindByEventAndUser(ctx context.Context, eventID, userID string) (*Participation, error)
	ListParticipants(ctx context.Context, eventID string) ([]*User, error)
	Delete(ctx context.Context, eventID, userID string) error
}

// ParticipationService defines join/leave operations and participant
// listing for an event.
type ParticipationService interface {
	// Join registers the user for the event. Returns (p, created, err):
	// created is false if the user had already joined.
	Join(ctx context.Context, eventID, userID string) (*Participation, bool, error)
	Leave(ctx context.Context, eventID, userID string) error
	ListParticipants(ctx context.Context, eventID string, viewer *Viewer) ([]*User, error)
}
