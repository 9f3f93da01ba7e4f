package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"communityticketing/internal/delivery/http/helpers"
	"communityticketing/internal/delivery/http/middleware"
	"communityticketing/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type EventController struct {
	Logger  *slog.Logger
	Manager domain.EventManagerService
}

func NewEventController(logger *slog.Logger, manager domain.EventManagerService) *EventController {
	return &EventController{Logger: logger, Manager: manager}
}

// DecisionResponse is the success envelope carrying an eligibility Decision.
type DecisionResponse struct {
	Data  *domain.Decision  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CheckEligibility godoc
// @Summary Check whether the current user may attend an event
// @Description Runs the eligibility gate chain for the authenticated user without side effects. The Decision carries the blocking reason and the suggested next step when not allowed.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DecisionResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/eligibility [get]
func (c *EventController) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := c.pathAndUser(w, r)
	if !ok {
		return
	}

	decision, err := c.Manager.Eligibility(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, decision)
}

type rsvpRequest struct {
	Answer domain.RSVPAnswer `json:"answer"`
}

// RSVP godoc
// @Summary RSVP to an event
// @Description Records the authenticated user's RSVP after passing the eligibility gates. A user with an existing YES may always change their answer. Blocked users receive 409 with the Decision.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.rsvpRequest true "RSVP answer: YES, NO, or MAYBE"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} controllers.DecisionResponse "error.code: ineligible"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [post]
func (c *EventController) RSVP(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := c.pathAndUser(w, r)
	if !ok {
		return
	}

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid request body")
		return
	}

	rsvp, err := c.Manager.RSVP(r.Context(), userID, eventID, req.Answer, false)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

type purchaseRequest struct {
	TierID string `json:"tier_id"`
}

// CreateTicket godoc
// @Summary Buy or claim a ticket for an event
// @Description Creates a ticket for the authenticated user after passing the eligibility gates and the lock-protected capacity check. Free tiers return the ticket; paid tiers return a checkout URL. Blocked users receive 409 with the Decision.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.purchaseRequest true "Ticket tier to purchase"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} controllers.DecisionResponse "error.code: ineligible"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tickets [post]
func (c *EventController) CreateTicket(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := c.pathAndUser(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid request body")
		return
	}
	if !uuidRegex.MatchString(req.TierID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid tier_id")
		return
	}

	purchase, err := c.Manager.CreateTicket(r.Context(), userID, eventID, req.TierID, false)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, purchase)
}

func (c *EventController) pathAndUser(w http.ResponseWriter, r *http.Request) (eventID, userID string, ok bool) {
	eventID = r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return "", "", false
	}
	userID, found := middleware.UserIDFromContext(r.Context())
	if !found {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return eventID, userID, true
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ie, ok := domain.AsIneligible(err); ok {
		// Expected failure of the write path: the caller gets the full
		// Decision so the client can render the corrective UI.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(DecisionResponse{
			Data:  &ie.Decision,
			Error: &helpers.APIError{Code: helpers.ErrCodeIneligible, Message: ie.Decision.Message},
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
