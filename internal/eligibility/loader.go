package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"communityticketing/internal/domain"
)

// Loader builds the immutable Context snapshot for one eligibility check.
// It performs two primary batched reads (user dossier, event dossier) and,
// only when a fuzzy-name match is possible, the blacklist and whitelist
// lookups, which go through a separate matching service and cannot be
// folded into the primary batch.
type Loader struct {
	repo      domain.EligibilityRepository
	matcher   domain.BlacklistMatcher
	whitelist domain.WhitelistRepository
	now       func() time.Time
}

// NewLoader creates a Loader with the given data sources.
func NewLoader(repo domain.EligibilityRepository, matcher domain.BlacklistMatcher, whitelist domain.WhitelistRepository) *Loader {
	return &Loader{
		repo:      repo,
		matcher:   matcher,
		whitelist: whitelist,
		now:       time.Now,
	}
}

// Load returns the snapshot for the user and event, or domain.ErrNotFound
// when either does not exist. The snapshot has no side effects and is
// discarded after the check.
func (l *Loader) Load(ctx context.Context, userID, eventID string) (*Context, error) {
	ud, err := l.repo.UserDossier(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load user dossier: %w", err)
	}

	ed, err := l.repo.EventDossier(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load event dossier: %w", err)
	}

	c := &Context{
		Now:               l.now(),
		User:              ud.User,
		Event:             ed.Event,
		Org:               ed.Organization,
		StaffIDs:          ed.StaffIDs,
		Memberships:       ed.Memberships,
		Questionnaires:    ed.Questionnaires,
		Submissions:       ud.Submissions,
		Tiers:             ed.Tiers,
		TicketsHeld:       ed.TicketsHeld,
		YesRSVPs:          ed.YesRSVPs,
		Invitation:        ed.Invitation,
		InvitationRequest: ed.InvitationRequest,
		UserRSVP:          ed.UserRSVP,
		UserIsWaitlisted:  ed.UserIsWaitlisted,
	}

	// Staff and owners pass the chain on the first gate; skip the external
	// matcher call for them.
	if c.IsPrivileged() {
		return c, nil
	}

	match, err := l.matcher.Match(ctx, ed.Organization.ID, userID, ud.User.FullName())
	if err != nil {
		return nil, fmt.Errorf("blacklist match: %w", err)
	}
	c.HardBlacklisted = match.HardBlocked
	c.FuzzyMatches = match.FuzzyMatches

	// Whitelist state only matters when a fuzzy match needs clearing and
	// the user is not already trusted as an active member.
	if !match.HardBlocked && len(match.FuzzyMatches) > 0 && !c.IsActiveMember() {
		whitelisted, err := l.whitelist.IsWhitelisted(ctx, ed.Organization.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("whitelist status: %w", err)
		}
		c.Whitelisted = whitelisted
		if !whitelisted {
			req, err := l.whitelist.GetRequest(ctx, ed.Organization.ID, userID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("whitelist request: %w", err)
			}
			c.WhitelistRequest = req
		}
	}

	return c, nil
}
