package domain

import (
	"context"
	"time"
)

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketPending   TicketStatus = "PENDING"
	TicketActive    TicketStatus = "ACTIVE"
	TicketCancelled TicketStatus = "CANCELLED"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
)

// TicketTier is one price level of a ticketed event.
// swagger:model TicketTier
type TicketTier struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`

	// PriceCents is the tier price; 0 means free.
	PriceCents int `json:"price_cents"`
	// PWYCMinCents/PWYCMaxCents bound pay-what-you-can pricing; both 0
	// means the tier is fixed-price.
	PWYCMinCents int `json:"pwyc_min_cents,omitempty"`
	PWYCMaxCents int `json:"pwyc_max_cents,omitempty"`

	// TotalQuantity is the sellable quantity; nil means unbounded.
	TotalQuantity *int `json:"total_quantity"`
	QuantitySold  int  `json:"quantity_sold"`

	SalesStartAt *time.Time `json:"sales_start_at,omitempty"`
	SalesEndAt   *time.Time `json:"sales_end_at,omitempty"`

	// RestrictedToTiers limits purchase to members holding one of these
	// membership tier codes; empty means unrestricted.
	RestrictedToTiers []string `json:"restricted_to_tiers,omitempty"`
}

// SalesOpen reports whether the tier's sales window is open at the given
// instant. An unset end falls back to the event start.
func (t *TicketTier) SalesOpen(now, eventStart time.Time) bool {
	if t.SalesStartAt != nil && now.Before(*t.SalesStartAt) {
		return false
	}
	end := eventStart
	if t.SalesEndAt != nil {
		end = *t.SalesEndAt
	}
	return !end.IsZero() && !now.After(end)
}

// Ticket belongs to one event, tier, and user.
// swagger:model Ticket
type Ticket struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	TierID    string       `json:"tier_id"`
	UserID    string       `json:"user_id"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RSVPAnswer is a user's attendance answer.
type RSVPAnswer string

const (
	RSVPYes   RSVPAnswer = "YES"
	RSVPNo    RSVPAnswer = "NO"
	RSVPMaybe RSVPAnswer = "MAYBE"
)

// Valid reports whether the answer is one of YES, NO, MAYBE.
func (a RSVPAnswer) Valid() bool {
	return a == RSVPYes || a == RSVPNo || a == RSVPMaybe
}

// RSVP is a user's attendance answer for a non-ticketed event, unique per
// user and event.
// swagger:model RSVP
type RSVP struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Answer    RSVPAnswer `json:"answer"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CapacityGuard carries the limits the attendance repository must re-assert
// under lock before committing a new ticket or YES RSVP.
type CapacityGuard struct {
	EventID string
	// Capacity is the event's effective capacity; 0 means unbounded.
	Capacity int
	// Override skips the event-level capacity check (invitation override).
	Override bool
}

// AttendanceRepository is the write path: it creates tickets and RSVPs
// inside a transaction that re-checks capacity with row locks. The earlier
// gate-chain availability check is advisory only; this one is authoritative.
type AttendanceRepository interface {
	// ReserveTicket locks the tier row, rechecks quantity_sold against
	// total_quantity (ErrSoldOut), locks the event row and recounts
	// non-cancelled tickets against the guard (ErrEventFull), then inserts
	// the ticket and increments quantity_sold in the same transaction.
	ReserveTicket(ctx context.Context, ticket *Ticket, guard CapacityGuard) error
	// UpsertRSVP writes the RSVP keyed by (event, user). When the answer is
	// YES and the guard is bounded, it locks the event row and recounts YES
	// RSVPs first (ErrEventFull).
	UpsertRSVP(ctx context.Context, rsvp *RSVP, guard CapacityGuard) error
}

// CheckoutSession is the external payment service's handle for a pending purchase.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutService is the external payment collaborator. It returns a
// redirect URL instead of a ticket when payment is required.
type CheckoutService interface {
	CreateSession(ctx context.Context, ticket *Ticket, tier *TicketTier, userEmail string) (*CheckoutSession, error)
}

// TicketPurchase is the outcome of CreateTicket: either an issued ticket or
// a checkout URL the user must complete payment at.
type TicketPurchase struct {
	Ticket      *Ticket `json:"ticket,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

// EventManagerService orchestrates the write path for attendance, plus the
// read-only eligibility check endpoint.
type EventManagerService interface {
	Eligibility(ctx context.Context, userID, eventID string) (Decision, error)
	RSVP(ctx context.Context, userID, eventID string, answer RSVPAnswer, bypass bool) (*RSVP, error)
	CreateTicket(ctx context.Context, userID, eventID, tierID string, bypass bool) (*TicketPurchase, error)
}

// AccessRequestService handles the user-initiated recourse paths: whitelist
// clearance requests and private-event invitation requests.
type AccessRequestService interface {
	RequestWhitelist(ctx context.Context, userID, eventID string) (*WhitelistRequest, error)
	RequestInvitation(ctx context.Context, userID, eventID string) (*InvitationRequest, error)
}
