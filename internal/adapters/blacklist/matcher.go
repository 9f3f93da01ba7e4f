package blacklist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"communityticketing/internal/domain"
)

type matcherClient struct {
	baseURL string
	client  *http.Client
}

// NewMatcherClient returns a BlacklistMatcher that calls the external
// matching service. The service owns the fuzzy-name algorithm; this client
// only consumes its verdict.
func NewMatcherClient(baseURL string, client *http.Client) domain.BlacklistMatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &matcherClient{baseURL: baseURL, client: client}
}

type matchRequest struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	FullName       string `json:"full_name"`
}

type matchResponse struct {
	HardBlocked bool `json:"hard_blocked"`
	Matches     []struct {
		EntryID string  `json:"entry_id"`
		Name    string  `json:"name"`
		Score   float64 `json:"score"`
	} `json:"matches"`
}

func (m *matcherClient) Match(ctx context.Context, orgID, userID, fullName string) (domain.MatchResult, error) {
	body, err := json.Marshal(matchRequest{
		OrganizationID: orgID,
		UserID:         userID,
		FullName:       fullName,
	})
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("failed to encode match request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/match", m.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.MatchResult{}, fmt.Errorf("failed to reach matcher service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.MatchResult{}, fmt.Errorf("matcher service returned status: %d", resp.StatusCode)
	}

	var data matchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.MatchResult{}, fmt.Errorf("failed to decode matcher response: %w", err)
	}

	result := domain.MatchResult{HardBlocked: data.HardBlocked}
	for _, m := range data.Matches {
		result.FuzzyMatches = append(result.FuzzyMatches, domain.FuzzyMatch{
			EntryID: m.EntryID,
			Name:    m.Name,
			Score:   m.Score,
		})
	}
	return result, nil
}

// NewNoopMatcher returns a matcher that never matches. Used when no
// matcher service is configured (development, single-org deployments
// without a blacklist).
func NewNoopMatcher() domain.BlacklistMatcher {
	return noopMatcher{}
}

type noopMatcher struct{}

func (noopMatcher) Match(_ context.Context, _, _, _ string) (domain.MatchResult, error) {
	return domain.MatchResult{}, nil
}
