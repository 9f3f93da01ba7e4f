package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityticketing/internal/domain"
	"communityticketing/internal/eligibility"
)

// contextLoader builds the eligibility snapshot for a user and event.
// Satisfied by *eligibility.Loader; narrowed here so tests can stub it.
type contextLoader interface {
	Load(ctx context.Context, userID, eventID string) (*eligibility.Context, error)
}

type eventManager struct {
	loader     contextLoader
	chain      *eligibility.Chain
	attendance domain.AttendanceRepository
	checkout   domain.CheckoutService
	notifier   domain.NotificationService
	logger     *slog.Logger
}

// NewEventManager creates the write-path orchestrator: it gates RSVP and
// ticket creation on the eligibility chain and re-asserts capacity inside
// the attendance repository's transaction before committing.
func NewEventManager(
	loader contextLoader,
	chain *eligibility.Chain,
	attendance domain.AttendanceRepository,
	checkout domain.CheckoutService,
	notifier domain.NotificationService,
	logger *slog.Logger,
) domain.EventManagerService {
	return &eventManager{
		loader:     loader,
		chain:      chain,
		attendance: attendance,
		checkout:   checkout,
		notifier:   notifier,
		logger:     logger,
	}
}

// Eligibility runs the read-only check and returns the Decision without
// side effects. Used by the eligibility endpoint.
func (m *eventManager) Eligibility(ctx context.Context, userID, eventID string) (domain.Decision, error) {
	snap, err := m.loader.Load(ctx, userID, eventID)
	if err != nil {
		return domain.Decision{}, err
	}
	return m.chain.Evaluate(snap, false), nil
}

func (m *eventManager) RSVP(ctx context.Context, userID, eventID string, answer domain.RSVPAnswer, bypass bool) (*domain.RSVP, error) {
	if !answer.Valid() {
		return nil, fmt.Errorf("%w: invalid rsvp answer %q", domain.ErrInvalidInput, answer)
	}

	snap, err := m.loader.Load(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if snap.Event.RequiresTicket {
		return nil, domain.NewIneligibleError(
			domain.Block(eventID, domain.ReasonRequiresTicket, domain.StepPtr(domain.StepPurchaseTicket)))
	}

	// Ratchet: a user who already secured a YES may always change their
	// answer, even if the event's rules tightened afterward.
	if snap.UserRSVP != nil && snap.UserRSVP.Answer == domain.RSVPYes {
		bypass = true
	}

	if d := m.chain.Evaluate(snap, bypass); !d.Allowed {
		return nil, domain.NewIneligibleError(d)
	}

	guard := domain.CapacityGuard{EventID: eventID}
	if answer == domain.RSVPYes {
		guard.Capacity = snap.Event.EffectiveCapacity()
		guard.Override = snap.Invitation.MaxAttendeesOverridden()
	}

	now := time.Now()
	rsvp := &domain.RSVP{
		EventID:   eventID,
		UserID:    userID,
		Answer:    answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.attendance.UpsertRSVP(ctx, rsvp, guard); err != nil {
		if ie := m.capacityFailure(snap, err); ie != nil {
			return nil, ie
		}
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}

	if answer == domain.RSVPYes {
		m.dispatch(func(ctx context.Context) error {
			return m.notifier.SendRSVPConfirmed(ctx, &domain.RSVPConfirmedEmailData{
				Email:     snap.User.Email,
				UserName:  snap.User.Name,
				EventName: snap.Event.Name,
				Answer:    answer,
			})
		})
	}
	return rsvp, nil
}

func (m *eventManager) CreateTicket(ctx context.Context, userID, eventID, tierID string, bypass bool) (*domain.TicketPurchase, error) {
	snap, err := m.loader.Load(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	var tier *domain.TicketTier
	for _, t := range snap.Tiers {
		if t.ID == tierID {
			tier = t
			break
		}
	}
	if tier == nil {
		return nil, domain.ErrNotFound
	}

	if d := m.chain.Evaluate(snap, bypass); !d.Allowed {
		return nil, domain.NewIneligibleError(d)
	}

	if len(tier.RestrictedToTiers) > 0 && !m.holdsRequiredTier(snap, tier) {
		return nil, domain.NewIneligibleError(
			domain.Block(eventID, domain.ReasonMembershipTierRequired, domain.StepPtr(domain.StepUpgradeMembership)))
	}

	free := tier.PriceCents == 0 || snap.Invitation.PurchaseWaived()
	status := domain.TicketActive
	if !free {
		// Payment pending: the ticket still reserves capacity so the slot
		// cannot be oversold while the user completes checkout.
		status = domain.TicketPending
	}

	now := time.Now()
	ticket := &domain.Ticket{
		EventID:   eventID,
		TierID:    tierID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	guard := domain.CapacityGuard{
		EventID:  eventID,
		Capacity: snap.Event.EffectiveCapacity(),
		Override: snap.Invitation.MaxAttendeesOverridden(),
	}
	if err := m.attendance.ReserveTicket(ctx, ticket, guard); err != nil {
		if ie := m.capacityFailure(snap, err); ie != nil {
			return nil, ie
		}
		return nil, fmt.Errorf("reserve ticket: %w", err)
	}

	if free {
		m.dispatch(func(ctx context.Context) error {
			return m.notifier.SendTicketIssued(ctx, &domain.TicketIssuedEmailData{
				Email:     snap.User.Email,
				UserName:  snap.User.Name,
				EventName: snap.Event.Name,
				TierName:  tier.Name,
				TicketID:  ticket.ID,
			})
		})
		return &domain.TicketPurchase{Ticket: ticket}, nil
	}

	session, err := m.checkout.CreateSession(ctx, ticket, tier, snap.User.Email)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &domain.TicketPurchase{CheckoutURL: session.URL}, nil
}

func (m *eventManager) holdsRequiredTier(snap *eligibility.Context, tier *domain.TicketTier) bool {
	membership, ok := snap.Membership()
	if !ok || membership.Status != domain.MembershipActive {
		return false
	}
	for _, code := range tier.RestrictedToTiers {
		if membership.Tier == code {
			return true
		}
	}
	return false
}

// capacityFailure converts the attendance repository's sentinel errors into
// the IneligibleError the caller expects; concurrent losers are
// resubmittable, never raw transaction conflicts.
func (m *eventManager) capacityFailure(snap *eligibility.Context, err error) *domain.IneligibleError {
	switch {
	case errors.Is(err, domain.ErrSoldOut):
		return domain.NewIneligibleError(domain.Block(snap.Event.ID, domain.ReasonSoldOut, nil))
	case errors.Is(err, domain.ErrEventFull):
		var step *domain.NextStep
		if snap.Event.WaitlistOpen {
			step = domain.StepPtr(domain.StepJoinWaitlist)
		}
		return domain.NewIneligibleError(domain.Block(snap.Event.ID, domain.ReasonEventIsFull, step))
	}
	return nil
}

// dispatch runs a notification after commit, detached from the request:
// the write already succeeded, so a delivery failure is only logged.
func (m *eventManager) dispatch(send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			m.logger.Error("notification dispatch failed", "err", err)
		}
	}()
}
