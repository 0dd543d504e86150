package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventer/internal/delivery/http/middleware"
	"eventer/internal/domain"
)

// fakeParticipationService implements domain.ParticipationService.
type fakeParticipationService struct {
	joinErr         error
	joinResult      *domain.Participation
	joinCreated     bool
	leaveErr        error
	listErr         error
	listResult      []*domain.User
	lastJoinEventID string
	lastJoinUserID  string
	lastLeaveEventID string
	lastLeaveUserID  string
	lastListEventID  string
	lastListViewer   *domain.Viewer
}

func (f *fakeParticipationService) Join(ctx context.Context, eventID, userID string) (*domain.Participation, bool, error) {
	f.lastJoinEventID = eventID
	f.lastJoinUserID = userID
	if f.joinErr != nil {
		return nil, false, f.joinErr
	}
	return f.joinResult, f.joinCreated, nil
}

func (f *fakeParticipationService) Leave(ctx context.Context, eventID, userID string) error {
	f.lastLeaveEventID = eventID
	f.lastLeaveUserID = userID
	return f.leaveErr
}

func (f *fakeParticipationService) ListParticipants(ctx context.Context, eventID string, viewer *domain.Viewer) ([]*domain.User, error) {
	f.lastListEventID = eventID
	f.lastListViewer = viewer
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func sampleParticipation() *domain.Participation {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Participation{ID: "p-1", EventID: "ev-1", UserID: "user-123", CreatedAt: now, UpdatedAt: now}
}

func TestParticipationController_Join(t *testing.T) {
	t.Run("new participation is 201", func(t *testing.T) {
		fake := &fakeParticipationService{joinResult: sampleParticipation(), joinCreated: true}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetViewer(req.Context(), &domain.Viewer{ID: "user-123"}))
		rr := httptest.NewRecorder()

		ctrl.Join(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "ev-1", fake.lastJoinEventID)
		assert.Equal(t, "user-123", fake.lastJoinUserID)
	})

	t.Run("existing participation is 200", func(t *testing.T) {
		fake := &fakeParticipationService{joinResult: sampleParticipation(), joinCreated: false}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetViewer(req.Context(), &domain.Viewer{ID: "user-123"}))
		rr := httptest.NewRecorder()

		ctrl.Join(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unauthorized without viewer", func(t *testing.T) {
		ctrl := NewParticipationController(testLogger, &fakeParticipationService{})
		req := httptest.NewRequest(http.MethodPost, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.Join(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("hidden event is forbidden", func(t *testing.T) {
		fake := &fakeParticipationService{joinErr: domain.ErrForbidden}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetViewer(req.Context(), &domain.Viewer{ID: "user-123"}))
		rr := httptest.NewRecorder()

		ctrl.Join(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestParticipationController_Leave(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeParticipationService{}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetViewer(req.Context(), &domain.Viewer{ID: "user-123"}))
		rr := httptest.NewRecorder()

		ctrl.Leave(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", fake.lastLeaveEventID)
		assert.Equal(t, "user-123", fake.lastLeaveUserID)
		assert.Contains(t, rr.Body.String(), "left")
	})

	t.Run("not a participant is 404", func(t *testing.T) {
		fake := &fakeParticipationService{leaveErr: domain.ErrNotFound}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		req = req.WithContext(middleware.SetViewer(req.Context(), &domain.Viewer{ID: "user-123"}))
		rr := httptest.NewRecorder()

		ctrl.Leave(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestParticipationController_ListParticipants(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		now := time.Now()
		fake := &fakeParticipationService{listResult: []*domain.User{
			domain.NewUser("alice@example.org", "Alice", false, now, now),
		}}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.ListParticipants(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", fake.lastListEventID)
		assert.Nil(t, fake.lastListViewer)
		assert.Contains(t, rr.Body.String(), "alice@example.org")
		assert.NotContains(t, rr.Body.String(), "password", "password hash must never serialize")
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		ctrl := NewParticipationController(testLogger, &fakeParticipationService{})
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.ListParticipants(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})

	t.Run("draft hidden from anonymous is forbidden", func(t *testing.T) {
		fake := &fakeParticipationService{listErr: domain.ErrForbidden}
		ctrl := NewParticipationController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/events/ev-1/participations", nil)
		req.SetPathValue("eventID", "ev-1")
		rr := httptest.NewRecorder()

		ctrl.ListParticipants(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})
}
