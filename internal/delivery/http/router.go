package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"communityticketing/internal/delivery/http/controllers"
	"communityticketing/internal/delivery/http/middleware"
	"communityticketing/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	eventController *controllers.EventController,
	accessController *controllers.AccessController,
	authController *controllers.AuthController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/code", authController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login", authController.VerifyLoginCode)
	mux.HandleFunc("GET /users/me", auth(authController.Me))
	mux.HandleFunc("PATCH /users/me", auth(authController.UpdateMe))

	// Eligibility and attendance
	mux.HandleFunc("GET /events/{eventID}/eligibility", auth(eventController.CheckEligibility))
	mux.HandleFunc("POST /events/{eventID}/rsvp", auth(eventController.RSVP))
	mux.HandleFunc("POST /events/{eventID}/tickets", auth(eventController.CreateTicket))

	// Recourse flows
	mux.HandleFunc("POST /events/{eventID}/whitelist-requests", auth(accessController.RequestWhitelist))
	mux.HandleFunc("POST /events/{eventID}/invitation-requests", auth(accessController.RequestInvitation))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
