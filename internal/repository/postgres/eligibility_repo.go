package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"communityticketing/internal/domain"
)

type eligibilityRepository struct {
	DB *sql.DB
}

// NewEligibilityRepository returns the read side of an eligibility check:
// two dossier loads that prefetch everything the gates need, so the gates
// themselves never touch the database.
func NewEligibilityRepository(db *sql.DB) domain.EligibilityRepository {
	return &eligibilityRepository{DB: db}
}

func (r *eligibilityRepository) UserDossier(ctx context.Context, userID string) (*domain.UserDossier, error) {
	user := &domain.User{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, name, last_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.Name, &user.LastName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// READY submissions plus their evaluation, newest first per questionnaire.
	rows, err := r.DB.QueryContext(ctx, `
		SELECT s.id, s.questionnaire_id, s.status, s.submitted_at,
		       e.id, e.status, e.evaluated_at
		FROM questionnaire_submissions s
		LEFT JOIN evaluations e ON e.submission_id = s.id
		WHERE s.user_id = $1 AND s.status = 'READY'
		ORDER BY s.questionnaire_id, s.submitted_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make(map[string][]*domain.QuestionnaireSubmission)
	for rows.Next() {
		sub := &domain.QuestionnaireSubmission{UserID: userID}
		var evalID, evalStatus sql.NullString
		var evaluatedAt sql.NullTime
		if err := rows.Scan(&sub.ID, &sub.QuestionnaireID, &sub.Status, &sub.SubmittedAt,
			&evalID, &evalStatus, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if evalID.Valid {
			sub.Evaluation = &domain.Evaluation{
				ID:          evalID.String,
				Status:      domain.EvaluationStatus(evalStatus.String),
				EvaluatedAt: evaluatedAt.Time,
			}
		}
		submissions[sub.QuestionnaireID] = append(submissions[sub.QuestionnaireID], sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.UserDossier{User: user, Submissions: submissions}, nil
}

func (r *eligibilityRepository) EventDossier(ctx context.Context, eventID, userID string) (*domain.EventDossier, error) {
	d := &domain.EventDossier{
		Event:        &domain.Event{},
		Organization: &domain.Organization{},
		StaffIDs:     make(map[string]struct{}),
		Memberships:  make(map[string]*domain.Membership),
	}

	// Event joined with its venue and organization.
	var venueCapacity sql.NullInt64
	var rsvpBefore, applyBefore sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT e.id, e.organization_id, e.name, e.event_type, e.status, e.requires_ticket,
		       e.max_attendees, COALESCE(v.capacity, 0), e.waitlist_open,
		       e.start_at, e.end_at, e.rsvp_before, e.apply_before,
		       e.created_at, e.updated_at,
		       o.id, o.name, o.owner_id, o.accept_membership_requests, o.accept_invitation_requests
		FROM events e
		JOIN organizations o ON o.id = e.organization_id
		LEFT JOIN venues v ON v.id = e.venue_id
		WHERE e.id = $1
	`, eventID).Scan(
		&d.Event.ID, &d.Event.OrganizationID, &d.Event.Name, &d.Event.EventType, &d.Event.Status,
		&d.Event.RequiresTicket, &d.Event.MaxAttendees, &venueCapacity, &d.Event.WaitlistOpen,
		&d.Event.Start, &d.Event.End, &rsvpBefore, &applyBefore,
		&d.Event.CreatedAt, &d.Event.UpdatedAt,
		&d.Organization.ID, &d.Organization.Name, &d.Organization.OwnerID,
		&d.Organization.AcceptMembershipRequests, &d.Organization.AcceptInvitationRequests,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	d.Event.VenueCapacity = int(venueCapacity.Int64)
	if rsvpBefore.Valid {
		d.Event.RSVPBefore = &rsvpBefore.Time
	}
	if applyBefore.Valid {
		d.Event.ApplyBefore = &applyBefore.Time
	}

	if err := r.loadStaffAndMemberships(ctx, d); err != nil {
		return nil, err
	}
	if err := r.loadQuestionnaires(ctx, d, eventID); err != nil {
		return nil, err
	}
	if err := r.loadTiers(ctx, d, eventID); err != nil {
		return nil, err
	}
	if err := r.loadAttendance(ctx, d, eventID, userID); err != nil {
		return nil, err
	}
	if err := r.loadUserAccess(ctx, d, eventID, userID); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *eligibilityRepository) loadStaffAndMemberships(ctx context.Context, d *domain.EventDossier) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id FROM organization_staff WHERE organization_id = $1
	`, d.Organization.ID)
	if err != nil {
		return fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan staff: %w", err)
		}
		d.StaffIDs[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	mrows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, status, COALESCE(tier, '')
		FROM memberships
		WHERE organization_id = $1
	`, d.Organization.ID)
	if err != nil {
		return fmt.Errorf("list memberships: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		m := &domain.Membership{}
		if err := mrows.Scan(&m.UserID, &m.Status, &m.Tier); err != nil {
			return fmt.Errorf("scan membership: %w", err)
		}
		d.Memberships[m.UserID] = m
	}
	return mrows.Err()
}

func (r *eligibilityRepository) loadQuestionnaires(ctx context.Context, d *domain.EventDossier, eventID string) error {
	// Questionnaires attach to the event directly or through its series.
	rows, err := r.DB.QueryContext(ctx, `
		SELECT oq.id, oq.questionnaire_id, oq.questionnaire_type, oq.members_exempt,
		       oq.max_submission_age_seconds, q.max_attempts, q.can_retake_after_seconds
		FROM organization_questionnaires oq
		JOIN questionnaires q ON q.id = oq.questionnaire_id
		WHERE oq.event_id = $1
		   OR oq.event_series_id = (SELECT event_series_id FROM events WHERE id = $1)
	`, eventID)
	if err != nil {
		return fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		q := &domain.OrgQuestionnaire{EventID: eventID}
		var maxAge, retakeAfter sql.NullInt64
		if err := rows.Scan(&q.ID, &q.QuestionnaireID, &q.Type, &q.MembersExempt,
			&maxAge, &q.MaxAttempts, &retakeAfter); err != nil {
			return fmt.Errorf("scan questionnaire: %w", err)
		}
		if maxAge.Valid {
			age := time.Duration(maxAge.Int64) * time.Second
			q.MaxSubmissionAge = &age
		}
		if retakeAfter.Valid {
			cooldown := time.Duration(retakeAfter.Int64) * time.Second
			q.CanRetakeAfter = &cooldown
		}
		d.Questionnaires = append(d.Questionnaires, q)
	}
	return rows.Err()
}

func (r *eligibilityRepository) loadTiers(ctx context.Context, d *domain.EventDossier, eventID string) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, event_id, name, price_cents, pwyc_min_cents, pwyc_max_cents,
		       total_quantity, quantity_sold, sales_start_at, sales_end_at, restricted_to_tiers
		FROM ticket_tiers
		WHERE event_id = $1
		ORDER BY price_cents
	`, eventID)
	if err != nil {
		return fmt.Errorf("list tiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t := &domain.TicketTier{}
		var totalQuantity sql.NullInt64
		var salesStart, salesEnd sql.NullTime
		var restricted pq.StringArray
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.PriceCents, &t.PWYCMinCents, &t.PWYCMaxCents,
			&totalQuantity, &t.QuantitySold, &salesStart, &salesEnd, &restricted); err != nil {
			return fmt.Errorf("scan tier: %w", err)
		}
		if totalQuantity.Valid {
			n := int(totalQuantity.Int64)
			t.TotalQuantity = &n
		}
		if salesStart.Valid {
			t.SalesStartAt = &salesStart.Time
		}
		if salesEnd.Valid {
			t.SalesEndAt = &salesEnd.Time
		}
		t.RestrictedToTiers = restricted
		d.Tiers = append(d.Tiers, t)
	}
	return rows.Err()
}

func (r *eligibilityRepository) loadAttendance(ctx context.Context, d *domain.EventDossier, eventID, userID string) error {
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND status <> 'CANCELLED'),
			(SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND answer = 'YES'),
			EXISTS (SELECT 1 FROM waitlist_entries WHERE event_id = $1 AND user_id = $2)
	`, eventID, userID).Scan(&d.TicketsHeld, &d.YesRSVPs, &d.UserIsWaitlisted)
	if err != nil {
		return fmt.Errorf("count attendance: %w", err)
	}
	return nil
}

func (r *eligibilityRepository) loadUserAccess(ctx context.Context, d *domain.EventDossier, eventID, userID string) error {
	inv := &domain.Invitation{}
	var tierID sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, waives_questionnaire, waives_purchase,
		       overrides_max_attendees, waives_membership_required,
		       waives_rsvp_deadline, waives_apply_deadline, tier_id, created_at
		FROM invitations
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&inv.ID, &inv.EventID, &inv.UserID,
		&inv.WaivesQuestionnaire, &inv.WaivesPurchase, &inv.OverridesMaxAttendees,
		&inv.WaivesMembershipRequired, &inv.WaivesRSVPDeadline, &inv.WaivesApplyDeadline,
		&tierID, &inv.CreatedAt)
	switch {
	case err == nil:
		inv.TierID = tierID.String
		d.Invitation = inv
	case errors.Is(err, sql.ErrNoRows):
		// No invitation.
	default:
		return fmt.Errorf("get invitation: %w", err)
	}

	req := &domain.InvitationRequest{}
	err = r.DB.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, status, created_at
		FROM invitation_requests
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&req.ID, &req.EventID, &req.UserID, &req.Status, &req.CreatedAt)
	switch {
	case err == nil:
		d.InvitationRequest = req
	case errors.Is(err, sql.ErrNoRows):
	default:
		return fmt.Errorf("get invitation request: %w", err)
	}

	rsvp := &domain.RSVP{}
	err = r.DB.QueryRowContext(ctx, `
		SELECT id, event_id, user_id, answer, created_at, updated_at
		FROM rsvps
		WHERE event_id = $1 AND user_id = $2
	`, eventID, userID).Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Answer, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	switch {
	case err == nil:
		d.UserRSVP = rsvp
	case errors.Is(err, sql.ErrNoRows):
	default:
		return fmt.Errorf("get rsvp: %w", err)
	}
	return nil
}
