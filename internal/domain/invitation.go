package domain

import (
	"context"
	"time"
)

// RequestStatus is the state of a user-initiated request (invitation or whitelist).
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// Invitation grants a user access to an event, optionally waiving specific
// eligibility requirements. At most one exists per user and event.
// swagger:model Invitation
type Invitation struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`

	WaivesQuestionnaire      bool `json:"waives_questionnaire"`
	WaivesPurchase           bool `json:"waives_purchase"`
	OverridesMaxAttendees    bool `json:"overrides_max_attendees"`
	WaivesMembershipRequired bool `json:"waives_membership_required"`
	WaivesRSVPDeadline       bool `json:"waives_rsvp_deadline"`
	WaivesApplyDeadline      bool `json:"waives_apply_deadline"`

	// TierID is the ticket tier assigned by the inviter, empty if none.
	TierID string `json:"tier_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// All waiver accessors tolerate a nil receiver: an absent invitation waives nothing.

func (i *Invitation) QuestionnaireWaived() bool    { return i != nil && i.WaivesQuestionnaire }
func (i *Invitation) PurchaseWaived() bool         { return i != nil && i.WaivesPurchase }
func (i *Invitation) MaxAttendeesOverridden() bool { return i != nil && i.OverridesMaxAttendees }
func (i *Invitation) MembershipWaived() bool       { return i != nil && i.WaivesMembershipRequired }
func (i *Invitation) RSVPDeadlineWaived() bool     { return i != nil && i.WaivesRSVPDeadline }
func (i *Invitation) ApplyDeadlineWaived() bool    { return i != nil && i.WaivesApplyDeadline }

// InvitationRequest is a user's request to be invited to a private event.
// One exists per user and event at most. It is a request, not a grant.
// swagger:model InvitationRequest
type InvitationRequest struct {
	ID        string        `json:"id"`
	EventID   string        `json:"event_id"`
	UserID    string        `json:"user_id"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// InvitationRequestRepository defines storage operations for invitation requests.
type InvitationRequestRepository interface {
	Create(ctx context.Context, req *InvitationRequest) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*InvitationRequest, error)
}
