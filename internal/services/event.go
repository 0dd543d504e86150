package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventer/internal/domain"
)

type eventService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	emailService      domain.EmailService
	urls              domain.URLBuilder
	logger            *slog.Logger
	contextTimeout    time.Duration
}

// NewEventService creates the EventService. emailService and urls may be
// nil, in which case publication notices are skipped.
func NewEventService(eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	emailService domain.EmailService,
	urls domain.URLBuilder,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		emailService:      emailService,
		urls:              urls,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := event.Validate(); err != nil {
		return err
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.Slug = event.SlugCandidate()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string, viewer *domain.Viewer) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.VisibleTo(viewer) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, viewer *domain.Viewer, temporal domain.TemporalScope, publishedOnly bool) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q := domain.EventQuery{
		Viewer:        viewer,
		Temporal:      temporal,
		PublishedOnly: publishedOnly,
		DayBoundary:   domain.StartOfDay(time.Now()),
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, actorID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, actorID)
	if err != nil {
		return nil, err
	}

	reslug := false
	if upd.Title != nil {
		event.Title = *upd.Title
		reslug = true
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Place != nil {
		event.Place = *upd.Place
	}
	if upd.StartedAt != nil {
		event.StartedAt = *upd.StartedAt
		reslug = true
	}
	if upd.TitleImage != nil {
		event.TitleImage = *upd.TitleImage
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if reslug {
		// the slug tracks (date, title); the repository resolves collisions
		event.Slug = event.SlugCandidate()
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, actorID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Publish flips the publication flag. A draft enters the published state
// with PublishedAt stamped to now; calling it again on a published event
// reverts it to draft.
func (s *eventService) Publish(ctx context.Context, eventID, actorID string) (*domain.Event, error) {
	return s.togglePublication(ctx, eventID, actorID, true)
}

// CancelPublication reverts a published event to draft (and, being a
// toggle like Publish, republishes a draft).
func (s *eventService) CancelPublication(ctx context.Context, eventID, actorID string) (*domain.Event, error) {
	return s.togglePublication(ctx, eventID, actorID, false)
}

func (s *eventService) togglePublication(ctx context.Context, eventID, actorID string, notify bool) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, actorID)
	if err != nil {
		return nil, err
	}

	event.SetPublished(!event.Published, time.Now())
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("persist publication state: %w", err)
	}

	if notify && event.Published {
		s.notifyParticipants(ctx, event)
	}
	return event, nil
}

// notifyParticipants emails everyone who joined the event. Delivery
// failures are logged; the completed transition is not rolled back.
func (s *eventService) notifyParticipants(ctx context.Context, event *domain.Event) {
	if s.emailService == nil || s.urls == nil {
		return
	}
	participants, err := s.participationRepo.ListParticipants(ctx, event.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list participants for publication notice", "event_id", event.ID, "err", err)
		return
	}
	url := s.urls.EventURL(event)
	for _, p := range participants {
		data := &domain.PublicationNoticeEmailData{
			Email:      p.Email,
			Name:       p.Name,
			EventTitle: event.Title,
			EventURL:   url,
			Place:      event.Place,
			StartedAt:  event.StartedAt,
		}
		if err := s.emailService.SendPublicationNotice(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "send publication notice", "event_id", event.ID, "email", p.Email, "err", err)
		}
	}
}

func (s *eventService) HasParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	p, err := s.ParticipationFor(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

func (s *eventService) ParticipationFor(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participationRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("find participation: %w", err)
	}
	return p, nil
}

// ownedEvent loads the event and checks the actor is its organizer.
func (s *eventService) ownedEvent(ctx context.Context, eventID, actorID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != actorID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}
