package domain

import (
	"errors"
	"time"
)

// ErrMissingMailingHost is returned when calendar export is attempted
// without a configured mailing host. Export must fail rather than emit a
// malformed uid or url.
var ErrMissingMailingHost = errors.New("mailing host is not configured")

// CalendarEvent is the calendar-interchange projection of an Event, one
// VEVENT per record.
type CalendarEvent struct {
	UID          string
	DTStart      string // local basic form, YYYYMMDDTHHMMSS
	Summary      string
	Description  string // plain text, markup stripped
	Location     string
	Created      time.Time
	LastModified time.Time
	URL          string
}

// TextSimplifier renders rich description markup as calendar-safe plain
// text.
type TextSimplifier interface {
	Simplify(s string) string
}

// URLBuilder returns the canonical absolute URL of an event's page.
type URLBuilder interface {
	EventURL(event *Event) string
}

// UploadResolver resolves an opaque title-image reference to a
// retrievable URL. The empty reference resolves to "".
type UploadResolver interface {
	ResolveURL(ref string) string
}

// CalendarService exports events to the calendar interchange format.
type CalendarService interface {
	ToCalendarEvent(event *Event) (*CalendarEvent, error)
	// ExportICS serializes the event as a complete iCalendar document
	// containing a single VEVENT.
	ExportICS(event *Event) (string, error)
}
