package domain

import "context"

// UserDossier is the first batched read of an eligibility check: the user
// plus their READY questionnaire submissions with evaluations, newest first
// per questionnaire.
type UserDossier struct {
	User *User
	// Submissions maps questionnaire id to the user's READY submissions,
	// ordered by submission time descending.
	Submissions map[string][]*QuestionnaireSubmission
}

// EventDossier is the second batched read: the event plus everything the
// gates need about its organization and the requesting user's standing.
type EventDossier struct {
	Event        *Event
	Organization *Organization

	StaffIDs map[string]struct{}
	// Memberships maps user id to membership record for the whole
	// organization, not just active members.
	Memberships map[string]*Membership

	// Questionnaires are the admission questionnaires attached to the
	// event, directly or via its series.
	Questionnaires []*OrgQuestionnaire

	Tiers []*TicketTier

	// TicketsHeld is the count of non-cancelled tickets for the event.
	TicketsHeld int
	// YesRSVPs is the count of YES RSVPs for the event.
	YesRSVPs int

	// The requesting user's rows, nil when absent.
	Invitation        *Invitation
	InvitationRequest *InvitationRequest
	UserRSVP          *RSVP
	UserIsWaitlisted  bool
}

// EligibilityRepository performs the two primary batched reads of an
// eligibility check. Blacklist and whitelist lookups live elsewhere because
// they go through a separate matching service.
type EligibilityRepository interface {
	// UserDossier returns ErrNotFound when the user does not exist.
	UserDossier(ctx context.Context, userID string) (*UserDossier, error)
	// EventDossier returns ErrNotFound when the event does not exist.
	EventDossier(ctx context.Context, eventID, userID string) (*EventDossier, error)
}
