package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/service"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/validator"
)

// FavoritesHandler handles HTTP requests for favorites endpoints.
type FavoritesHandler struct {
	service *service.FavoritesService
	logger  *slog.Logger
}

// NewFavoritesHandler creates a new favorites HTTP handler.
func NewFavoritesHandler(svc *service.FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes returns the favorites sub-router, mounted by the app at
// /api/v1/favorites.
func (h *FavoritesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(sessionFromHeader)

	r.Get("/", h.Get)
	r.Post("/load", h.Load)
	r.Post("/items", h.AddItem)
	r.Post("/toggle", h.Toggle)
	r.Delete("/items/{productId}", h.RemoveItem)
	r.Get("/items/{productId}", h.Contains)

	return r
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for favoriting a product.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// --- Middleware ---

type contextKey string

const sessionKey contextKey = "session"

func sessionFromHeader(next http.Handler) http.Handler {
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

func sessionFromContext(ctx context.Context) service.Session {
	sess, _ := ctx.Value(sessionKey).(service.Session)
	return sess
}

// --- Handlers ---

// Get handles GET /api/v1/favorites
func (h *FavoritesHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	favorites, err := h.service.Get(r.Context(), sess)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: favorites})
}

// AddItem handles POST /api/v1/favorites/items
func (h *FavoritesHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	favorites, err := h.service.AddItem(r.Context(), sess, req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: favorites})
}

// Toggle handles POST /api/v1/favorites/toggle
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "VALIDATION_ERROR", Message: err.Error()},
		})
		return
	}

	favorites, favorited, err := h.service.Toggle(r.Context(), sess, req.ProductID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"favorited": favorited,
		"favorites": favorites,
	}})
}

// RemoveItem handles DELETE /api/v1/favorites/items/{productId}
func (h *FavoritesHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	favorites, err := h.service.RemoveItem(r.Context(), sess, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: favorites})
}

// Contains handles GET /api/v1/favorites/items/{productId}
func (h *FavoritesHandler) Contains(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	productID := chi.URLParam(r, "productId")
	favorited, err := h.service.IsInFavorites(r.Context(), sess, productID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]bool{"favorited": favorited}})
}

// Load handles POST /api/v1/favorites/load
func (h *FavoritesHandler) Load(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	favorites, err := h.service.Load(r.Context(), sess)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: favorites})
}

// --- Helpers ---

func (h *FavoritesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
