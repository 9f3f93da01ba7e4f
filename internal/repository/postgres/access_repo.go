package postgres

import (
	"context"
	"database/sql"
	"errors"

	"communityticketing/internal/domain"
)

type whitelistRepository struct {
	DB *sql.DB
}

func NewWhitelistRepository(db *sql.DB) domain.WhitelistRepository {
	return &whitelistRepository{DB: db}
}

func (r *whitelistRepository) GetRequest(ctx context.Context, orgID, userID string) (*domain.WhitelistRequest, error) {
	query := `
		SELECT id, organization_id, user_id, status, created_at
		FROM whitelist_requests
		WHERE organization_id = $1 AND user_id = $2
	`
	req := &domain.WhitelistRequest{}
	err := r.DB.QueryRowContext(ctx, query, orgID, userID).
		Scan(&req.ID, &req.OrganizationID, &req.UserID, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *whitelistRepository) CreateRequest(ctx context.Context, req *domain.WhitelistRequest) error {
	query := `
		INSERT INTO whitelist_requests (organization_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, req.OrganizationID, req.UserID, req.Status, req.CreatedAt).
		Scan(&req.ID)
}

func (r *whitelistRepository) IsWhitelisted(ctx context.Context, orgID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM whitelist_requests
			WHERE organization_id = $1 AND user_id = $2 AND status = 'APPROVED'
		)
	`
	var whitelisted bool
	if err := r.DB.QueryRowContext(ctx, query, orgID, userID).Scan(&whitelisted); err != nil {
		return false, err
	}
	return whitelisted, nil
}

type invitationRequestRepository struct {
	DB *sql.DB
}

func NewInvitationRequestRepository(db *sql.DB) domain.InvitationRequestRepository {
	return &invitationRequestRepository{DB: db}
}

func (r *invitationRequestRepository) Create(ctx context.Context, req *domain.InvitationRequest) error {
	query := `
		INSERT INTO invitation_requests (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, req.EventID, req.UserID, req.Status, req.CreatedAt).
		Scan(&req.ID)
}

func (r *invitationRequestRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.InvitationRequest, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at
		FROM invitation_requests
		WHERE event_id = $1 AND user_id = $2
	`
	req := &domain.InvitationRequest{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&req.ID, &req.EventID, &req.UserID, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}
