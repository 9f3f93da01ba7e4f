package domain

import "context"

// Mailer sends an email with html and text bodies.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named template to subject, html, and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// LoginCodeEmailData is the data for the passwordless login code email.
type LoginCodeEmailData struct {
	Email            string
	Code             string
	ExpiresInMinutes int
}

// TicketIssuedEmailData is the data for the ticket confirmation email.
type TicketIssuedEmailData struct {
	Email     string
	UserName  string
	EventName string
	TierName  string
	TicketID  string
}

// RSVPConfirmedEmailData is the data for the RSVP confirmation email.
type RSVPConfirmedEmailData struct {
	Email     string
	UserName  string
	EventName string
	Answer    RSVPAnswer
}

// NotificationService sends attendance-related emails. The event manager
// dispatches these after commit, fire-and-forget; failures never affect the
// committed write.
type NotificationService interface {
	SendLoginCode(ctx context.Context, data *LoginCodeEmailData) error
	SendTicketIssued(ctx context.Context, data *TicketIssuedEmailData) error
	SendRSVPConfirmed(ctx context.Context, data *RSVPConfirmedEmailData) error
}
