package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/auth"
	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/service"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/validator"
)

// AuthHandler handles HTTP requests for admin authentication.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new admin auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes returns the admin auth sub-router, mounted by the app at
// /api/v1/admin. Login is rate limited per client IP to slow down
// credential stuffing.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(LoginRateLimit(h.logger)).Post("/login", h.Login)
	r.With(RequireAdmin(h.service, h.logger)).Get("/me", h.Me)

	return r
}

// LoginRequest is the JSON request body for admin login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Login handles POST /api/v1/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			writeJSON(w, http.StatusBadRequest, response{
				Error: &errorResponse{
					Code:    "VALIDATION_ERROR",
					Message: "request validation failed",
					Fields:  valErr.Fields(),
				},
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: result})
}

// Me handles GET /api/v1/admin/me — returns the claims of the presented
// token, used by the back office to restore a session on page load.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, response{
			Error: &errorResponse{Code: "UNAUTHORIZED", Message: "not authenticated"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"admin_id": claims.AdminID,
		"email":    claims.Email,
	}})
}

func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	h.logger.ErrorContext(r.Context(), "internal error",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)
	writeJSON(w, http.StatusInternalServerError, response{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================================================
// Middleware
// ============================================================================

type contextKey string

const claimsKey contextKey = "admin_claims"

// ClaimsFromContext returns the admin claims stored by RequireAdmin, or nil.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// TokenVerifier validates a signed admin token.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// RequireAdmin returns middleware that rejects requests without a valid
// admin bearer token. Other handler packages use it to guard their
// back-office routes.
func RequireAdmin(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, response{
					Error: &errorResponse{Code: "UNAUTHORIZED", Message: "missing authorization header"},
				})
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, response{
					Error: &errorResponse{Code: "UNAUTHORIZED", Message: "invalid authorization header format"},
				})
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, response{
					Error: &errorResponse{Code: "UNAUTHORIZED", Message: "invalid or expired token"},
				})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
