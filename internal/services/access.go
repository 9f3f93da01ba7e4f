package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"communityticketing/internal/domain"
)

type accessRequestService struct {
	eventRepo      domain.EventRepository
	orgRepo        domain.OrganizationRepository
	whitelistRepo  domain.WhitelistRepository
	invRequestRepo domain.InvitationRequestRepository
}

// NewAccessRequestService creates the service behind the REQUEST_WHITELIST
// and REQUEST_INVITATION recourse steps.
func NewAccessRequestService(
	eventRepo domain.EventRepository,
	orgRepo domain.OrganizationRepository,
	whitelistRepo domain.WhitelistRepository,
	invRequestRepo domain.InvitationRequestRepository,
) domain.AccessRequestService {
	return &accessRequestService{
		eventRepo:      eventRepo,
		orgRepo:        orgRepo,
		whitelistRepo:  whitelistRepo,
		invRequestRepo: invRequestRepo,
	}
}

// RequestWhitelist files a pending whitelist clearance request for the
// user with the event's organization. Idempotent: an existing request is
// returned as-is.
func (s *accessRequestService) RequestWhitelist(ctx context.Context, userID, eventID string) (*domain.WhitelistRequest, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if existing, err := s.whitelistRepo.GetRequest(ctx, event.OrganizationID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get whitelist request: %w", err)
	}

	req := &domain.WhitelistRequest{
		OrganizationID: event.OrganizationID,
		UserID:         userID,
		Status:         domain.RequestPending,
		CreatedAt:      time.Now(),
	}
	if err := s.whitelistRepo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create whitelist request: %w", err)
	}
	return req, nil
}

// RequestInvitation files a pending invitation request for a private event.
// Rejected with ErrInvalidInput when the event is not private, and with
// ErrForbidden when the organization does not accept invitation requests.
// Idempotent: an existing request is returned as-is.
func (s *accessRequestService) RequestInvitation(ctx context.Context, userID, eventID string) (*domain.InvitationRequest, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.EventType != domain.EventTypePrivate {
		return nil, fmt.Errorf("%w: event does not require an invitation", domain.ErrInvalidInput)
	}
	org, err := s.orgRepo.GetByID(ctx, event.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if !org.AcceptInvitationRequests {
		return nil, domain.ErrForbidden
	}

	if existing, err := s.invRequestRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get invitation request: %w", err)
	}

	req := &domain.InvitationRequest{
		EventID:   eventID,
		UserID:    userID,
		Status:    domain.RequestPending,
		CreatedAt: time.Now(),
	}
	if err := s.invRequestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create invitation request: %w", err)
	}
	return req, nil
}
