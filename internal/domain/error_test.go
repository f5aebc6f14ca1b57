package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	dbErr := errors.New("connection refused")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", &Error{Code: EINVALID, Message: "quantity must be positive"}, "quantity must be positive"},
		{"op", &Error{Code: EINVALID, Op: "cart.add", Message: "quantity must be positive"}, "cart.add: quantity must be positive"},
		{"op and cause", &Error{Code: EINTERNAL, Op: "order.place", Message: "failed to save order", Err: dbErr}, "order.place: failed to save order: connection refused"},
		{"cause only", &Error{Code: EINTERNAL, Message: "failed to save order", Err: dbErr}, "failed to save order: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(ErrBookNotFound))
	assert.Equal(t, ENOTFOUND, ErrorCode(fmt.Errorf("loading cart: %w", ErrBookNotFound)))
	assert.Equal(t, EINVALID, ErrorCode(NewValidationError("cart.add", "quantity", "required")))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("boom")))

	assert.True(t, IsCode(ErrInvalidTransition, ECONFLICT))
	assert.False(t, IsCode(ErrInvalidTransition, ENOTFOUND))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "Cart is empty", ErrorMessage(ErrEmptyCart))
	assert.Equal(t, internalMessage, ErrorMessage(Internal(errors.New("dsn=postgres://secret"), "order.place", "failed to save")))
	assert.Equal(t, internalMessage, ErrorMessage(errors.New("raw driver error")))
}

func TestErrorOp(t *testing.T) {
	assert.Equal(t, "wishlist.add", ErrorOp(Conflict("wishlist.add", "duplicate")))
	assert.Equal(t, "", ErrorOp(ErrEmptyCart))
	assert.Equal(t, "", ErrorOp(errors.New("plain")))
	assert.Equal(t, "", ErrorOp(nil))
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "book.list", "unknown sort %q", "rating")

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, EINVALID, e.Code)
	assert.Equal(t, "book.list", e.Op)
	assert.Equal(t, `unknown sort "rating"`, e.Message)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, EINTERNAL, "order.get", "failed"))

	cause := errors.New("timeout")
	err := WrapError(cause, EINTERNAL, "order.get", "failed to load order")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "order.get", ErrorOp(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("auth.register", "email", "must be a valid email")
	assert.Equal(t, "auth.register: email: must be a valid email", err.Error())
	assert.True(t, IsValidationError(err))

	err = AddFieldError(err, "password", "too short")
	assert.Len(t, GetValidationFields(err), 2)
	assert.Equal(t, "auth.register: validation failed for 2 fields", err.Error())

	fresh := AddFieldError(nil, "quantity", "required")
	assert.Equal(t, map[string]string{"quantity": "required"}, GetValidationFields(fresh))
	assert.Equal(t, "quantity: required", fresh.Error())

	assert.False(t, IsValidationError(Invalid("cart.add", "x")))
	assert.Nil(t, GetValidationFields(errors.New("plain")))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{NotFound("order.get", "order", "BW-1"), ENOTFOUND},
		{Unauthorized("auth.login", "bad password"), EUNAUTHORIZED},
		{Forbidden("order.get", "not yours"), EFORBIDDEN},
		{Invalid("cart.add", "bad quantity"), EINVALID},
		{Conflict("auth.register", "email taken"), ECONFLICT},
		{Internal(errors.New("db"), "cart.get", "failed"), EINTERNAL},
		{Unavailable(errors.New("deadline"), "order.place"), EUNAVAILABLE},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, ErrorCode(tt.err), tt.err.Error())
	}
	assert.Equal(t, "order not found: BW-1", ErrorMessage(tests[0].err))
}

func TestIsRetryable(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := Unavailable(cause, "order.place")

	assert.True(t, IsRetryable(err))
	assert.True(t, IsRetryable(fmt.Errorf("job: %w", err)))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsRetryable(Invalid("order.place", "bad address")))
	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestSentinelCodes(t *testing.T) {
	tests := map[string]struct {
		err  error
		code string
	}{
		"book not found":     {ErrBookNotFound, ENOTFOUND},
		"empty cart":         {ErrEmptyCart, EINVALID},
		"insufficient stock": {ErrInsufficientStock, ECONFLICT},
		"bad transition":     {ErrInvalidTransition, ECONFLICT},
		"wishlist duplicate": {ErrAlreadyInWishlist, ECONFLICT},
		"bad credentials":    {ErrInvalidCredentials, EUNAUTHORIZED},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(tt.err))
		})
	}
}
