package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"eventer/config"
	"eventer/internal/adapters/auth"
	"eventer/internal/adapters/email"
	"eventer/internal/adapters/links"
	"eventer/internal/adapters/text"
	"eventer/internal/adapters/uploads"
	deliveryhttp "eventer/internal/delivery/http"
	"eventer/internal/delivery/http/controllers"
	"eventer/internal/delivery/http/middleware"
	"eventer/internal/repository/postgres"
	"eventer/internal/services"
)

const (
	serviceTimeout = 5 * time.Second
	tokenExpiry    = 24 * time.Hour
)

// @title Eventer API
// @version 1.0
// @description Event publishing service: events with drafts and publication, participations, and iCalendar export.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	tokens := auth.NewJWTTokens(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mailer.AWSRegion,
			AccessKeyID:     cfg.Mailer.AWSAccessKeyID,
			SecretAccessKey: cfg.Mailer.AWSSecretKey,
		},
	})
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}
	renderer := email.NewTemplateRenderer()
	simplifier := text.NewHTMLSimplifier()
	urls := links.NewBuilder(cfg.MailingHost)
	resolver := uploads.NewResolver(cfg.UploadsBaseURL)

	emailService := services.NewEmailService(mailer, renderer)
	eventService := services.NewEventService(eventRepo, participationRepo, emailService, urls, logger, serviceTimeout)
	participationService := services.NewParticipationService(participationRepo, eventRepo, serviceTimeout)
	calendarService := services.NewCalendarService(cfg.MailingHost, simplifier, urls)
	authService := services.NewAuthService(userRepo, tokens, tokenExpiry)

	eventController := controllers.NewEventController(logger, eventService, calendarService, resolver)
	participationController := controllers.NewParticipationController(logger, participationService)
	authController := controllers.NewAuthController(logger, authService)

	mux := deliveryhttp.NewRouter(logger, tokens, eventController, participationController, authController)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
