package domain

import (
	"context"
	"time"
)

// FuzzyMatch is a name-similarity hit against a blacklist entry, short of
// an exact match. It requires whitelist clearance before the user may attend.
type FuzzyMatch struct {
	EntryID string  `json:"entry_id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
}

// MatchResult is the blacklist matcher's verdict for one user and organization.
type MatchResult struct {
	// HardBlocked is true on an exact identifier match: unconditional block.
	HardBlocked  bool         `json:"hard_blocked"`
	FuzzyMatches []FuzzyMatch `json:"fuzzy_matches"`
}

// BlacklistMatcher is the external fuzzy-name matching service. The engine
// treats it as a black box: it only consumes the result.
type BlacklistMatcher interface {
	Match(ctx context.Context, orgID, userID, fullName string) (MatchResult, error)
}

// WhitelistRequest is a user's request to be cleared of a fuzzy blacklist match.
// swagger:model WhitelistRequest
type WhitelistRequest struct {
	ID             string        `json:"id"`
	OrganizationID string        `json:"organization_id"`
	UserID         string        `json:"user_id"`
	Status         RequestStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// WhitelistRepository defines storage operations for whitelist clearance.
type WhitelistRepository interface {
	// GetRequest returns the user's whitelist request for the organization,
	// or ErrNotFound when none exists.
	GetRequest(ctx context.Context, orgID, userID string) (*WhitelistRequest, error)
	CreateRequest(ctx context.Context, req *WhitelistRequest) error
	// IsWhitelisted reports whether the user has an approved clearance.
	IsWhitelisted(ctx context.Context, orgID, userID string) (bool, error)
}
