package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventer/internal/delivery/http/helpers"
	"eventer/internal/delivery/http/middleware"
	"eventer/internal/domain"
)

// EventResponse is a domain event with the title image reference resolved
// to a retrievable URL.
type EventResponse struct {
	*domain.Event
	TitleImageURL string `json:"title_image_url,omitempty"`
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Place       string    `json:"place"`
	StartedAt   time.Time `json:"started_at"`
	TitleImage  string    `json:"title_image"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		errs = append(errs, "description is required")
	}
	if strings.TrimSpace(c.Place) == "" {
		errs = append(errs, "place is required")
	}
	if c.StartedAt.IsZero() {
		errs = append(errs, "started_at is required")
	}
	return errs
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventSuccessResponse is the success response envelope for GET /events/{slug} (200).
type GetEventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []EventResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DeleteEventResponse is the data payload for DELETE /events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success response envelope for DELETE /events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger   *slog.Logger
	Service  domain.EventService
	Calendar domain.CalendarService
	Uploads  domain.UploadResolver
}

func NewEventController(logger *slog.Logger, svc domain.EventService, cal domain.CalendarService, uploads domain.UploadResolver) *EventController {
	return &EventController{
		Logger:   logger,
		Service:  svc,
		Calendar: cal,
		Uploads:  uploads,
	}
}

func (c *EventController) toResponse(event *domain.Event) EventResponse {
	return EventResponse{
		Event:         event,
		TitleImageURL: c.Uploads.ResolveURL(event.TitleImage),
	}
}

// writeDomainError maps the shared domain errors to HTTP responses. Unknown
// errors are logged and become 500s.
func (c *EventController) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a new event as a draft. The authenticated user becomes the organizer. The slug is derived from the start date and title; id, slug and timestamps are server-generated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Title, req.Description, req.Place, req.StartedAt, viewer.ID, now, now)
	event.TitleImage = req.TitleImage
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, c.toResponse(event))
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Description Returns the event identified by its slug. Drafts are visible only to the organizer and admins; anonymous callers see published events only.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug (YYYY-MM-DD-title)"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	viewer, _ := middleware.ViewerFromContext(r.Context())
	event, err := c.Service.GetEventBySlug(r.Context(), slug, viewer)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.toResponse(event))
}

// ListEvents godoc
// @Summary List events
// @Description Returns events visible to the caller. scope=past returns events before the start of today (newest first); scope=future returns events from the start of today onward (soonest first); an event starting today is future. published=true restricts to published events.
// @Tags events
// @Produce json
// @Param scope query string false "Temporal scope: past or future (default all)"
// @Param published query bool false "Only published events"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	var temporal domain.TemporalScope
	switch scope := r.URL.Query().Get("scope"); scope {
	case "", "all":
		temporal = domain.TemporalAll
	case "past":
		temporal = domain.TemporalPast
	case "future":
		temporal = domain.TemporalFuture
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "scope must be past, future, or all")
		return
	}
	publishedOnly := r.URL.Query().Get("published") == "true"

	viewer, _ := middleware.ViewerFromContext(r.Context())
	events, err := c.Service.ListEvents(r.Context(), viewer, temporal, publishedOnly)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, c.toResponse(e))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All
// fields are optional; omitted fields are unchanged. Changing title or
// started_at re-derives the slug.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Place       *string    `json:"place"`
	StartedAt   *time.Time `json:"started_at"`
	TitleImage  *string    `json:"title_image"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		errs = append(errs, "description cannot be empty")
	}
	if u.Place != nil && strings.TrimSpace(*u.Place) == "" {
		errs = append(errs, "place cannot be empty")
	}
	if u.StartedAt != nil && u.StartedAt.IsZero() {
		errs = append(errs, "started_at cannot be zero")
	}
	return errs
}

// UpdateEventSuccessResponse is the success response envelope for PATCH /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates event fields. Only the organizer can update. Omitted fields are unchanged; changing title or started_at re-derives the slug.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Place:       req.Place,
		StartedAt:   req.StartedAt,
		TitleImage:  req.TitleImage,
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, viewer.ID, upd)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.toResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event. Only the organizer can delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Service.DeleteEvent(r.Context(), eventID, viewer.ID); err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// PublishSuccessResponse is the success response envelope for POST and DELETE /events/{eventID}/publish (200).
type PublishSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Publish godoc
// @Summary Toggle event publication
// @Description Publishes a draft event, making it publicly visible and notifying participants. Publishing an already published event reverts it to draft. Only the organizer can publish.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.PublishSuccessResponse "data contains the event after the toggle"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish [post]
func (c *EventController) Publish(w http.ResponseWriter, r *http.Request) {
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
	event, err := c.Service.Publish(r.Context(), eventID, viewer.ID)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.toResponse(event))
}

// CancelPublication godoc
// @Summary Cancel event publication
// @Description Reverts a published event to draft. Only the organizer can cancel.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.PublishSuccessResponse "data contains the event after the toggle"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish [delete]
func (c *EventController) CancelPublication(w http.ResponseWriter, r *http.Request) {
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
	event, err := c.Service.CancelPublication(r.Context(), eventID, viewer.ID)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.toResponse(event))
}

// ExportICS godoc
// @Summary Export an event as iCalendar
// @Description Returns the event as a text/calendar document with a single VEVENT. Visibility rules are the same as GET /events/{slug}.
// @Tags events
// @Produce text/calendar
// @Param slug path string true "Event slug"
// @Success 200 {string} string "iCalendar document"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{slug}/calendar.ics [get]
func (c *EventController) ExportICS(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	viewer, _ := middleware.ViewerFromContext(r.Context())
	event, err := c.Service.GetEventBySlug(r.Context(), slug, viewer)
	if err != nil {
		c.writeDomainError(w, r, err)
		return
	}
	ics, err := c.Calendar.ExportICS(event)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "calendar export failed", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+event.Slug+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}
