package services

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"eventer/internal/domain"
)

// isoOffset renders UTC as +00:00 rather than Z; calendar clients dedupe
// on the uid, so its layout must stay stable across deployments.
const isoOffset = "2006-01-02T15:04:05-07:00"

// dtstartBasic is the local basic timestamp form, no zone offset. The
// deployment assumes a single canonical timezone.
const dtstartBasic = "20060102T150405"

type calendarService struct {
	mailingHost string
	simplifier  domain.TextSimplifier
	urls        domain.URLBuilder
}

// NewCalendarService creates the calendar exporter. mailingHost is
// injected here rather than read from the environment at export time; an
// empty host makes every export fail with ErrMissingMailingHost.
func NewCalendarService(mailingHost string, simplifier domain.TextSimplifier, urls domain.URLBuilder) domain.CalendarService {
	return &calendarService{
		mailingHost: mailingHost,
		simplifier:  simplifier,
		urls:        urls,
	}
}

func (s *calendarService) ToCalendarEvent(event *domain.Event) (*domain.CalendarEvent, error) {
	if s.mailingHost == "" {
		return nil, domain.ErrMissingMailingHost
	}
	uid := fmt.Sprintf("%s-%s-%s@%s",
		event.CreatedAt.Format(isoOffset),
		event.StartedAt.Format(isoOffset),
		event.ID,
		s.mailingHost,
	)
	return &domain.CalendarEvent{
		UID:          uid,
		DTStart:      event.StartedAt.Format(dtstartBasic),
		Summary:      event.Title,
		Description:  s.simplifier.Simplify(event.Description),
		Location:     event.Place,
		Created:      event.CreatedAt,
		LastModified: event.UpdatedAt,
		URL:          s.urls.EventURL(event),
	}, nil
}

func (s *calendarService) ExportICS(event *domain.Event) (string, error) {
	ce, err := s.ToCalendarEvent(event)
	if err != nil {
		return "", err
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//eventer//EN")

	ve := cal.AddEvent(ce.UID)
	ve.SetProperty(ics.ComponentPropertyDtStart, ce.DTStart)
	ve.SetSummary(ce.Summary)
	ve.SetDescription(ce.Description)
	ve.SetLocation(ce.Location)
	ve.SetCreatedTime(ce.Created)
	ve.SetModifiedAt(ce.LastModified)
	ve.SetURL(ce.URL)
	ve.SetDtStampTime(time.Now())

	return cal.Serialize(), nil
}
