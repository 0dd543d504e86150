package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventer/internal/delivery/http/controllers"
	"eventer/internal/delivery/http/middleware"
	"eventer/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Reads accept anonymous callers; mutations require a Bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	eventController *controllers.EventController,
	participationController *controllers.ParticipationController,
	authController *controllers.AuthController,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier, logger)
	optionalAuth := middleware.OptionalAuth(verifier)

	// Events
	mux.HandleFunc("GET /events", optionalAuth(eventController.ListEvents))
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{slug}", optionalAuth(eventController.GetEventBySlug))
	mux.HandleFunc("GET /events/{slug}/calendar.ics", optionalAuth(eventController.ExportICS))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Publication
	mux.HandleFunc("POST /events/{eventID}/publish", requireAuth(eventController.Publish))
	mux.HandleFunc("DELETE /events/{eventID}/publish", requireAuth(eventController.CancelPublication))

	// Participations
	mux.HandleFunc("GET /events/{eventID}/participations", optionalAuth(participationController.ListParticipants))
	mux.HandleFunc("POST /events/{eventID}/participations", requireAuth(participationController.Join))
	mux.HandleFunc("DELETE /events/{eventID}/participations", requireAuth(participationController.Leave))

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
