package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityticketing/internal/delivery/http/middleware"
	"communityticketing/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "3f2c8a4e-1b7d-4c9e-8f6a-2d5b9e7c1a3f"
const testTierID = "7a1b3c5d-9e2f-4a6b-8c0d-1e3f5a7b9c2d"

type fakeEventManager struct {
	decision domain.Decision
	rsvp     *domain.RSVP
	purchase *domain.TicketPurchase
	err      error

	lastUserID  string
	lastEventID string
	lastAnswer  domain.RSVPAnswer
	lastTierID  string
}

func (f *fakeEventManager) Eligibility(ctx context.Context, userID, eventID string) (domain.Decision, error) {
	f.lastUserID, f.lastEventID = userID, eventID
	return f.decision, f.err
}

func (f *fakeEventManager) RSVP(ctx context.Context, userID, eventID string, answer domain.RSVPAnswer, bypass bool) (*domain.RSVP, error) {
	f.lastUserID, f.lastEventID, f.lastAnswer = userID, eventID, answer
	if f.err != nil {
		return nil, f.err
	}
	return f.rsvp, nil
}

func (f *fakeEventManager) CreateTicket(ctx context.Context, userID, eventID, tierID string, bypass bool) (*domain.TicketPurchase, error) {
	f.lastUserID, f.lastEventID, f.lastTierID = userID, eventID, tierID
	if f.err != nil {
		return nil, f.err
	}
	return f.purchase, nil
}

func authedRequest(method, path, body string, eventID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.SetPathValue("eventID", eventID)
	return req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
}

func TestEventController_CheckEligibility(t *testing.T) {
	t.Run("allowed decision", func(t *testing.T) {
		svc := &fakeEventManager{decision: domain.Allow(testEventID)}
		c := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodGet, "/events/"+testEventID+"/eligibility", "", testEventID)
		rec := httptest.NewRecorder()
		c.CheckEligibility(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DecisionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Data.Allowed)
		assert.Nil(t, resp.Data.Reason)
		assert.Equal(t, "user-123", svc.lastUserID)
		assert.Equal(t, testEventID, svc.lastEventID)
	})

	t.Run("blocked decision is still 200", func(t *testing.T) {
		svc := &fakeEventManager{decision: domain.Block(testEventID, domain.ReasonMembersOnly, domain.StepPtr(domain.StepBecomeMember))}
		c := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodGet, "/events/"+testEventID+"/eligibility", "", testEventID)
		rec := httptest.NewRecorder()
		c.CheckEligibility(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DecisionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Data.Allowed)
		assert.Equal(t, domain.ReasonMembersOnly, *resp.Data.Reason)
		assert.Equal(t, domain.StepBecomeMember, *resp.Data.NextStep)
		assert.Equal(t, "members only", resp.Data.Message)
	})

	t.Run("invalid event id", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{})
		req := authedRequest(http.MethodGet, "/events/abc/eligibility", "", "abc")
		rec := httptest.NewRecorder()
		c.CheckEligibility(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{})
		req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/eligibility", nil)
		req.SetPathValue("eventID", testEventID)
		rec := httptest.NewRecorder()
		c.CheckEligibility(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{err: domain.ErrNotFound})
		req := authedRequest(http.MethodGet, "/events/"+testEventID+"/eligibility", "", testEventID)
		rec := httptest.NewRecorder()
		c.CheckEligibility(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventController_RSVP(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEventManager{rsvp: &domain.RSVP{ID: "rsvp-1", EventID: testEventID, UserID: "user-123", Answer: domain.RSVPYes}}
		c := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", `{"answer":"YES"}`, testEventID)
		rec := httptest.NewRecorder()
		c.RSVP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.RSVPYes, svc.lastAnswer)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{})
		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", `{`, testEventID)
		rec := httptest.NewRecorder()
		c.RSVP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ineligible returns 409 with the decision", func(t *testing.T) {
		blocked := domain.Block(testEventID, domain.ReasonEventIsFull, domain.StepPtr(domain.StepJoinWaitlist))
		c := NewEventController(testLogger, &fakeEventManager{err: domain.NewIneligibleError(blocked)})

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", `{"answer":"YES"}`, testEventID)
		rec := httptest.NewRecorder()
		c.RSVP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		var resp DecisionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.Data)
		assert.Equal(t, domain.ReasonEventIsFull, *resp.Data.Reason)
		assert.Equal(t, domain.StepJoinWaitlist, *resp.Data.NextStep)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ineligible", resp.Error.Code)
		assert.Equal(t, "event is full", resp.Error.Message)
	})

	t.Run("invalid answer becomes 400", func(t *testing.T) {
		fakeErr := fmt.Errorf("%w: invalid rsvp answer %q", domain.ErrInvalidInput, "PERHAPS")
		c := NewEventController(testLogger, &fakeEventManager{err: fakeErr})

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", `{"answer":"PERHAPS"}`, testEventID)
		rec := httptest.NewRecorder()
		c.RSVP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("infrastructure failure becomes 500", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{err: errors.New("db down")})
		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/rsvp", `{"answer":"YES"}`, testEventID)
		rec := httptest.NewRecorder()
		c.RSVP(rec, req)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestEventController_CreateTicket(t *testing.T) {
	t.Run("free ticket", func(t *testing.T) {
		svc := &fakeEventManager{purchase: &domain.TicketPurchase{Ticket: &domain.Ticket{ID: "tk-1", Status: domain.TicketActive}}}
		c := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/tickets", `{"tier_id":"`+testTierID+`"}`, testEventID)
		rec := httptest.NewRecorder()
		c.CreateTicket(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testTierID, svc.lastTierID)
	})

	t.Run("paid tier returns the checkout url", func(t *testing.T) {
		svc := &fakeEventManager{purchase: &domain.TicketPurchase{CheckoutURL: "https://pay.example.com/cs-1"}}
		c := NewEventController(testLogger, svc)

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/tickets", `{"tier_id":"`+testTierID+`"}`, testEventID)
		rec := httptest.NewRecorder()
		c.CreateTicket(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Data domain.TicketPurchase `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "https://pay.example.com/cs-1", resp.Data.CheckoutURL)
		assert.Nil(t, resp.Data.Ticket)
	})

	t.Run("invalid tier id", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventManager{})
		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/tickets", `{"tier_id":"nope"}`, testEventID)
		rec := httptest.NewRecorder()
		c.CreateTicket(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sold out returns 409", func(t *testing.T) {
		blocked := domain.Block(testEventID, domain.ReasonSoldOut, nil)
		c := NewEventController(testLogger, &fakeEventManager{err: domain.NewIneligibleError(blocked)})

		req := authedRequest(http.MethodPost, "/events/"+testEventID+"/tickets", `{"tier_id":"`+testTierID+`"}`, testEventID)
		rec := httptest.NewRecorder()
		c.CreateTicket(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		var resp DecisionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, domain.ReasonSoldOut, *resp.Data.Reason)
		assert.Nil(t, resp.Data.NextStep)
	})
}
