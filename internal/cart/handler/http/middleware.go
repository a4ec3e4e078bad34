package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/service"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// sessionKey is the context key for the storefront session.
const sessionKey contextKey = "session"

// SessionFromHeader is middleware that reads the X-Session-ID header (the
// browser session identifier minted by the storefront) and the optional
// X-User-ID header (injected by the gateway after token validation) and
// stores both in the request context. A request without a session ID is
// rejected with 400.
func SessionFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.Header.Get("X-Session-ID")
		if sid == "" {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
			})
			return
		}
		sess := service.Session{
			ID:     sid,
			UserID: r.Header.Get("X-User-ID"),
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFromContext extracts the storefront session from the request context.
func sessionFromContext(ctx context.Context) (service.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(service.Session)
	return sess, ok && sess.ID != ""
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
