package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"communityticketing/config"
	_ "communityticketing/docs"
	"communityticketing/internal/adapters/auth"
	"communityticketing/internal/adapters/blacklist"
	"communityticketing/internal/adapters/email"
	"communityticketing/internal/adapters/payments"
	delivery "communityticketing/internal/delivery/http"
	"communityticketing/internal/delivery/http/controllers"
	"communityticketing/internal/delivery/http/middleware"
	"communityticketing/internal/eligibility"
	"communityticketing/internal/repository/postgres"
	"communityticketing/internal/services"
)

// @title Community Ticketing API
// @version 1.0
// @description Eligibility, RSVP and ticketing API for community events.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	orgRepo := postgres.NewOrganizationRepository(db)
	eligibilityRepo := postgres.NewEligibilityRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	whitelistRepo := postgres.NewWhitelistRepository(db)
	invRequestRepo := postgres.NewInvitationRequestRepository(db)

	// Adapters
	issuer, verifier := auth.NewJWT(cfg.JWTSecret)
	codeHasher := auth.NewCodeHasher()
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	checkout := payments.NewCheckoutClient(cfg.CheckoutBaseURL, cfg.CheckoutAPIKey, httpClient)
	matcher := blacklist.NewNoopMatcher()
	if cfg.BlacklistMatcherURL != "" {
		matcher = blacklist.NewMatcherClient(cfg.BlacklistMatcherURL, httpClient)
	}

	// Eligibility engine
	loader := eligibility.NewLoader(eligibilityRepo, matcher, whitelistRepo)
	chain := eligibility.NewChain()

	// Services
	renderer := email.NewTemplateRenderer()
	notifier := services.NewNotificationService(mailer, renderer, logger)
	userService := services.NewUserService(userRepo, loginCodeRepo, codeHasher, issuer, cfg.TokenExpiry, notifier)
	eventManager := services.NewEventManager(loader, chain, attendanceRepo, checkout, notifier, logger)
	accessService := services.NewAccessRequestService(eventRepo, orgRepo, whitelistRepo, invRequestRepo)

	// Controllers
	eventController := controllers.NewEventController(logger, eventManager)
	accessController := controllers.NewAccessController(logger, accessService)
	authController := controllers.NewAuthController(logger, userService)

	mux := delivery.NewRouter(logger, verifier, eventController, accessController, authController)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
