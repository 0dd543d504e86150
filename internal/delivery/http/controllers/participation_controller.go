package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventer/internal/delivery/http/helpers"
	"eventer/internal/delivery/http/middleware"
	"eventer/internal/domain"
)

// JoinEventSuccessResponse is the success response envelope for POST /events/{eventID}/participations (200 or 201).
type JoinEventSuccessResponse struct {
	Data  *domain.Participation `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// LeaveEventResponse is the data payload for DELETE /events/{eventID}/participations (200).
type LeaveEventResponse struct {
	Status string `json:"status"`
}

// LeaveEventSuccessResponse is the success response envelope for DELETE /events/{eventID}/participations (200).
type LeaveEventSuccessResponse struct {
	Data  LeaveEventResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListParticipantsSuccessResponse is the success response envelope for GET /events/{eventID}/participations (200).
type ListParticipantsSuccessResponse struct {
	Data  []*domain.User    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *ParticipationController) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Join godoc
// @Summary Join an event
// @Description Registers the authenticated user as a participant of the event. Joining an event you already participate in returns the existing participation with 200.
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.JoinEventSuccessResponse "data contains the existing participation"
// @Success 201 {object} controllers.JoinEventSuccessResponse "data contains the new participation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (event not visible)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participations [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participation, created, err := c.Service.Join(r.Context(), eventID, viewer.ID)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, participation)
}

// Leave godoc
// @Summary Leave an event
// @Description Removes the authenticated user's participation in the event.
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.LeaveEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (not a participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participations [delete]
func (c *ParticipationController) Leave(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Leave(r.Context(), eventID, viewer.ID); err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LeaveEventResponse{Status: "left"})
}

// ListParticipants godoc
// @Summary List event participants
// @Description Returns the users participating in the event, ordered by join time. The event must be visible to the caller.
// @Tags participations
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse "data is an array of users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (event not visible)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participations [get]
func (c *ParticipationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	viewer, _ := middleware.ViewerFromContext(r.Context())
	users, err := c.Service.ListParticipants(r.Context(), eventID, viewer)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, users)
}
