package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with
// the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PublicationNoticeEmailData holds data for the email sent to participants
// when an event they joined is published.
type PublicationNoticeEmailData struct {
	Email      string
	Name       string
	EventTitle string
	EventURL   string
	Place      string
	StartedAt  time.Time
}

// EmailService defines the outgoing notification emails.
type EmailService interface {
	SendPublicationNotice(ctx context.Context, data *PublicationNoticeEmailData) error
}
