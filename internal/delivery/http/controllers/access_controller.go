package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"communityticketing/internal/delivery/http/helpers"
	"communityticketing/internal/delivery/http/middleware"
	"communityticketing/internal/domain"
)

type AccessController struct {
	Logger  *slog.Logger
	Service domain.AccessRequestService
}

func NewAccessController(logger *slog.Logger, svc domain.AccessRequestService) *AccessController {
	return &AccessController{Logger: logger, Service: svc}
}

// RequestWhitelist godoc
// @Summary Request whitelist clearance for a fuzzy blacklist match
// @Description Files a pending whitelist request with the event's organization. Idempotent: an existing request is returned with 200.
// @Tags access
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/whitelist-requests [post]
func (c *AccessController) RequestWhitelist(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := c.pathAndUser(w, r)
	if !ok {
		return
	}

	req, err := c.Service.RequestWhitelist(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

// RequestInvitation godoc
// @Summary Request an invitation to a private event
// @Description Files a pending invitation request. Rejected when the event is not private (400) or the organization does not accept invitation requests (403). Idempotent.
// @Tags access
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitation-requests [post]
func (c *AccessController) RequestInvitation(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := c.pathAndUser(w, r)
	if !ok {
		return
	}

	req, err := c.Service.RequestInvitation(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

func (c *AccessController) pathAndUser(w http.ResponseWriter, r *http.Request) (eventID, userID string, ok bool) {
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

func (c *AccessController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "requests are not accepted")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
