package domain

import "context"

// MembershipStatus is the state of a user's membership in an organization.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "ACTIVE"
	MembershipPaused    MembershipStatus = "PAUSED"
	MembershipCancelled MembershipStatus = "CANCELLED"
	MembershipBanned    MembershipStatus = "BANNED"
)

// Organization owns events and defines who counts as a member or staff.
// swagger:model Organization
type Organization struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`

	// AcceptMembershipRequests controls whether non-members can apply to join.
	AcceptMembershipRequests bool `json:"accept_membership_requests"`
	// AcceptInvitationRequests controls whether users can request invitations
	// to the organization's private events.
	AcceptInvitationRequests bool `json:"accept_invitation_requests"`
}

// Membership is one user's membership record in an organization.
type Membership struct {
	UserID string           `json:"user_id"`
	Status MembershipStatus `json:"status"`
	// Tier is the membership tier code, empty when the organization has no tiers.
	Tier string `json:"tier,omitempty"`
}

// OrganizationRepository defines the interface for organization storage.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*Organization, error)
}
