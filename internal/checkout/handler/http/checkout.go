package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thiago536/v0-gabycommerce-structure/internal/checkout/service"
	orderdomain "github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Routes returns the checkout sub-router, mounted by the app at
// /api/v1/checkout.
func (h *CheckoutHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(sessionFromHeader)

	r.Post("/quote", h.Quote)
	r.Post("/", h.PlaceOrder)

	return r
}

// --- Request DTOs ---

// QuoteRequest is the JSON request body for pricing the current cart.
type QuoteRequest struct {
	CouponCode string `json:"coupon_code"`
}

// PlaceOrderRequest is the JSON request body for placing an order.
type PlaceOrderRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Phone      string `json:"phone" validate:"required,min=8,max=20"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address" validate:"required,min=5,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=50"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Notes      string `json:"notes" validate:"max=1000"`
	CouponCode string `json:"coupon_code"`
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

// Quote handles POST /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	quote, err := h.service.Quote(r.Context(), sess, req.CouponCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: quote})
}

// PlaceOrder handles POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	input := service.PlaceOrderInput{
		Customer: orderdomain.CustomerInfo{
			Name:       req.Name,
			Phone:      req.Phone,
			Email:      req.Email,
			Address:    req.Address,
			City:       req.City,
			State:      req.State,
			PostalCode: req.PostalCode,
			Notes:      req.Notes,
		},
		CouponCode: req.CouponCode,
	}

	placed, err := h.service.PlaceOrder(r.Context(), sess, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: placed})
}

// --- Helpers ---

func (h *CheckoutHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
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

func (h *CheckoutHandler) writeValidationError(w http.ResponseWriter, err error) {
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
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
