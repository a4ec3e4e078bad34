package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorString(t *testing.T) {
	withCause := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: fmt.Errorf("db connection lost")}
	assert.Contains(t, withCause.Error(), "INTERNAL_ERROR")
	assert.Contains(t, withCause.Error(), "something broke")
	assert.Contains(t, withCause.Error(), "db connection lost")

	bare := &AppError{Code: "NOT_FOUND", Message: "order not found"}
	assert.Equal(t, "NOT_FOUND: order not found", bare.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "nope", Err: ErrNotFound}
	assert.True(t, errors.Is(appErr, ErrNotFound))

	assert.Nil(t, (&AppError{Code: "X", Message: "x"}).Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
		contains []string
	}{
		{
			name:     "not found",
			err:      NotFound("product", "abc-123"),
			code:     "NOT_FOUND",
			status:   http.StatusNotFound,
			sentinel: ErrNotFound,
			contains: []string{"product", "abc-123"},
		},
		{
			name:     "already exists",
			err:      AlreadyExists("admin", "email", "a@b.com"),
			code:     "ALREADY_EXISTS",
			status:   http.StatusConflict,
			sentinel: ErrAlreadyExists,
			contains: []string{"admin", "email", "a@b.com"},
		},
		{
			name:     "invalid input",
			err:      InvalidInput("quantity must be positive"),
			code:     "INVALID_INPUT",
			status:   http.StatusBadRequest,
			sentinel: ErrInvalidInput,
			contains: []string{"quantity must be positive"},
		},
		{
			name:     "unauthorized",
			err:      Unauthorized("invalid credentials"),
			code:     "UNAUTHORIZED",
			status:   http.StatusUnauthorized,
			sentinel: ErrUnauthorized,
		},
		{
			name:     "forbidden",
			err:      Forbidden("not allowed"),
			code:     "FORBIDDEN",
			status:   http.StatusForbidden,
			sentinel: ErrForbidden,
		},
		{
			name:     "conflict",
			err:      Conflict("cart changed concurrently"),
			code:     "CONFLICT",
			status:   http.StatusConflict,
			sentinel: ErrConflict,
		},
		{
			name:     "coupon invalid",
			err:      CouponInvalid("coupon expired"),
			code:     "COUPON_INVALID",
			status:   http.StatusUnprocessableEntity,
			sentinel: ErrCouponInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Message, s)
			}
		})
	}
}

func TestInternalHidesCause(t *testing.T) {
	err := Internal(fmt.Errorf("pq: relation does not exist"))

	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "an internal error occurred", err.Message)
	// The cause stays available for logging via Error/Unwrap.
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestWrapKeepsSentinel(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "get profile")

	assert.Contains(t, wrapped.Error(), "get profile")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("order", "1")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("outer: %w", ErrNotFound)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(ErrCouponInvalid))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrAlreadyExists))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("unknown")))
}
