package services

import (
	"context"
	"fmt"

	"eventer/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService creates the EmailService from a mailer and a template
// renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{
		mailer:   mailer,
		renderer: renderer,
	}
}

func (s *emailService) SendPublicationNotice(ctx context.Context, data *domain.PublicationNoticeEmailData) error {
	subject, htmlBody, textBody, err := s.renderer.Render("publication_notice", data)
	if err != nil {
		return fmt.Errorf("render publication notice: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send publication notice: %w", err)
	}
	return nil
}
