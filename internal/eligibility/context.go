package eligibility

import (
	"time"

	"communityticketing/internal/domain"
)

// Context is the immutable point-in-time snapshot a single eligibility check
// runs against. The loader populates it with everything the gates need;
// gates never touch the database. It is discarded after the check.
type Context struct {
	Now time.Time

	User  *domain.User
	Event *domain.Event
	Org   *domain.Organization

	StaffIDs    map[string]struct{}
	Memberships map[string]*domain.Membership

	Questionnaires []*domain.OrgQuestionnaire
	// Submissions maps questionnaire id to the user's READY submissions,
	// newest first.
	Submissions map[string][]*domain.QuestionnaireSubmission

	Tiers       []*domain.TicketTier
	TicketsHeld int
	YesRSVPs    int

	Invitation        *domain.Invitation
	InvitationRequest *domain.InvitationRequest
	UserRSVP          *domain.RSVP
	UserIsWaitlisted  bool

	HardBlacklisted  bool
	FuzzyMatches     []domain.FuzzyMatch
	Whitelisted      bool
	WhitelistRequest *domain.WhitelistRequest
}

// IsPrivileged reports whether the user owns the organization or is staff.
func (c *Context) IsPrivileged() bool {
	if c.Org != nil && c.Org.OwnerID == c.User.ID {
		return true
	}
	_, ok := c.StaffIDs[c.User.ID]
	return ok
}

// Membership returns the user's membership record, if any.
func (c *Context) Membership() (*domain.Membership, bool) {
	m, ok := c.Memberships[c.User.ID]
	return m, ok
}

// IsActiveMember reports whether the user is an active member of the
// event's organization.
func (c *Context) IsActiveMember() bool {
	m, ok := c.Membership()
	return ok && m.Status == domain.MembershipActive
}

// AttendeeCount returns the advisory attendance count from the snapshot:
// non-cancelled tickets for ticketed events, YES RSVPs otherwise.
func (c *Context) AttendeeCount() int {
	if c.Event.RequiresTicket {
		return c.TicketsHeld
	}
	return c.YesRSVPs
}
