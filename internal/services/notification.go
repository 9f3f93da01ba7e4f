package services

import (
	"context"
	"fmt"
	"log/slog"

	"communityticketing/internal/domain"
)

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationService returns a NotificationService that renders the
// embedded templates and sends through the given Mailer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.NotificationService {
	return &notificationService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendLoginCode sends the passwordless login code email using the "login_code" template.
func (s *notificationService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("login code email data is nil")
	}
	return s.send(ctx, "login_code", data.Email, data)
}

// SendTicketIssued sends the ticket confirmation using the "ticket_issued" template.
func (s *notificationService) SendTicketIssued(ctx context.Context, data *domain.TicketIssuedEmailData) error {
	if data == nil {
		return fmt.Errorf("ticket issued email data is nil")
	}
	return s.send(ctx, "ticket_issued", data.Email, data)
}

// SendRSVPConfirmed sends the RSVP confirmation using the "rsvp_confirmed" template.
func (s *notificationService) SendRSVPConfirmed(ctx context.Context, data *domain.RSVPConfirmedEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmed email data is nil")
	}
	return s.send(ctx, "rsvp_confirmed", data.Email, data)
}

func (s *notificationService) send(ctx context.Context, template, to string, data interface{}) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "to", to)
	return nil
}
