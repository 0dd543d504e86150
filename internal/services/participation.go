package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventer/internal/domain"
)

type participationService struct {
	participationRepo domain.ParticipationRepository
	eventRepo         domain.EventRepository
	contextTimeout    time.Duration
}

// NewParticipationService creates the ParticipationService.
func NewParticipationService(participationRepo domain.ParticipationRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.ParticipationService {
	return &participationService{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		contextTimeout:    timeout,
	}
}

func (s *participationService) Join(ctx context.Context, eventID, userID string) (*domain.Participation, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}
	if !event.VisibleTo(&domain.Viewer{ID: userID}) {
		return nil, false, domain.ErrForbidden
	}

	existing, err := s.participationRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("find participation: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now()
	p := domain.NewParticipation(eventID, userID, now, now)
	if err := s.participationRepo.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("create participation: %w", err)
	}
	return p, true, nil
}

func (s *participationService) Leave(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.participationRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("find participation: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if err := s.participationRepo.Delete(ctx, eventID, userID); err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}

func (s *participationService) ListParticipants(ctx context.Context, eventID string, viewer *domain.Viewer) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.VisibleTo(viewer) {
		return nil, domain.ErrForbidden
	}

	users, err := s.participationRepo.ListParticipants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
