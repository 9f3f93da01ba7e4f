package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"communityticketing/internal/domain"
)

type checkoutClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewCheckoutClient returns a CheckoutService that calls the external
// payment service. The service creates a hosted checkout session and
// returns its redirect URL; webhooks confirming payment are handled
// outside this process.
func NewCheckoutClient(baseURL, apiKey string, client *http.Client) domain.CheckoutService {
	if client == nil {
		client = http.DefaultClient
	}
	return &checkoutClient{baseURL: baseURL, apiKey: apiKey, client: client}
}

type createSessionRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	TicketID       string `json:"ticket_id"`
	EventID        string `json:"event_id"`
	TierID         string `json:"tier_id"`
	AmountCents    int    `json:"amount_cents"`
	Currency       string `json:"currency"`
	CustomerEmail  string `json:"customer_email"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *checkoutClient) CreateSession(ctx context.Context, ticket *domain.Ticket, tier *domain.TicketTier, userEmail string) (*domain.CheckoutSession, error) {
	payload := createSessionRequest{
		IdempotencyKey: uuid.NewString(),
		TicketID:       ticket.ID,
		EventID:        ticket.EventID,
		TierID:         tier.ID,
		AmountCents:    tier.PriceCents,
		Currency:       "usd",
		CustomerEmail:  userEmail,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/checkout/sessions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach checkout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout service returned status: %d", resp.StatusCode)
	}

	var data createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}
	return &domain.CheckoutSession{ID: data.ID, URL: data.URL}, nil
}
