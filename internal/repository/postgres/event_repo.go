package postgres

import (
	"context"
	"database/sql"
	"errors"

	"communityticketing/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT e.id, e.organization_id, e.name, e.event_type, e.status, e.requires_ticket,
		       e.max_attendees, COALESCE(v.capacity, 0), e.waitlist_open,
		       e.start_at, e.end_at, e.rsvp_before, e.apply_before, e.created_at, e.updated_at
		FROM events e
		LEFT JOIN venues v ON v.id = e.venue_id
		WHERE e.id = $1
	`
	e := &domain.Event{}
	var rsvpBefore, applyBefore sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.OrganizationID, &e.Name, &e.EventType, &e.Status, &e.RequiresTicket,
		&e.MaxAttendees, &e.VenueCapacity, &e.WaitlistOpen,
		&e.Start, &e.End, &rsvpBefore, &applyBefore, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rsvpBefore.Valid {
		e.RSVPBefore = &rsvpBefore.Time
	}
	if applyBefore.Valid {
		e.ApplyBefore = &applyBefore.Time
	}
	return e, nil
}

type organizationRepository struct {
	DB *sql.DB
}

func NewOrganizationRepository(db *sql.DB) domain.OrganizationRepository {
	return &organizationRepository{DB: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
		SELECT id, name, owner_id, accept_membership_requests, accept_invitation_requests
		FROM organizations
		WHERE id = $1
	`
	o := &domain.Organization{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.Name, &o.OwnerID, &o.AcceptMembershipRequests, &o.AcceptInvitationRequests,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}
