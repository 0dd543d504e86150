package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventer/internal/delivery/http/helpers"
	"eventer/internal/domain"
)

type contextKey string

const viewerKey contextKey = "viewer"

// SetViewer returns a context with the viewer set. Used by the auth
// middleware and by tests.
func SetViewer(ctx context.Context, viewer *domain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, viewer)
}

// ViewerFromContext returns the authenticated viewer, if present. The
// absent case is the anonymous caller.
func ViewerFromContext(ctx context.Context) (*domain.Viewer, bool) {
	v, ok := ctx.Value(viewerKey).(*domain.Viewer)
	return v, ok && v != nil
}

// bearerToken extracts the Bearer token from the Authorization header.
// Returns ("", false) when the header is absent, ("", true) when present
// but malformed.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", true
	}
	return strings.TrimSpace(auth[len(prefix):]), true
}

// RequireAuth returns a wrapper that validates the Bearer token and sets
// the viewer in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			viewer, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetViewer(r.Context(), viewer))
			next(w, r)
		}
	}
}

// OptionalAuth returns a wrapper for endpoints that serve anonymous
// callers too: no Authorization header means an anonymous viewer, but a
// header that is present and invalid is still rejected with 401.
func OptionalAuth(verifier domain.TokenVerifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				next(w, r)
				return
			}
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			viewer, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetViewer(r.Context(), viewer))
			next(w, r)
		}
	}
}
