package address

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"user not found", NewUserNotFound("u1"), http.StatusNotFound, CodeUserNotFound},
		{"address not found", NewAddressNotFound("a1"), http.StatusNotFound, CodeAddressNotFound},
		{"validation", NewValidationFailed(errors.New("bad")), http.StatusBadRequest, CodeValidationFailed},
		{"no current user", NewNoCurrentUser(), http.StatusUnauthorized, CodeNoCurrentUser},
		{"conflict", NewConflict("u1", 3), http.StatusConflict, CodeConflict},
		{"cannot unset default", NewCannotUnsetDefault("a1"), http.StatusConflict, CodeCannotUnsetDefault},
		{"write failed", NewWriteFailed(errors.New("boom")), http.StatusBadGateway, CodeWriteFailed},
		{"read failed", NewReadFailed(errors.New("boom")), http.StatusBadGateway, CodeReadFailed},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewAddressNotFound("a1")), http.StatusNotFound, CodeAddressNotFound},
		{"plain error", errors.New("kaboom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message, code := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, message)
		})
	}

	status, _, code := MapErrorToHTTP(nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, code)
}

func TestErrorCheckers(t *testing.T) {
	err := fmt.Errorf("gateway: %w", NewConflict("u1", 2))

	assert.True(t, IsConflict(err))
	assert.True(t, IsDomainError(err))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrWriteFailed))
	assert.False(t, IsUserNotFound(err))
	assert.Equal(t, CodeConflict, GetErrorCode(err))

	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("x")))
	assert.Equal(t, "x", GetErrorMessage(errors.New("x")))

	cause := errors.New("connection reset")
	wf := NewWriteFailed(cause)
	assert.True(t, IsWriteFailed(wf))
	assert.ErrorIs(t, wf, cause)
	assert.Contains(t, wf.Error(), "connection reset")
}

func TestGetErrorDetails(t *testing.T) {
	fieldErrs := validation.Errors{"phone": errors.New("cannot be blank")}

	details := GetErrorDetails(NewValidationFailed(fieldErrs))
	assert.Equal(t, fieldErrs, details)

	assert.Nil(t, GetErrorDetails(NewAddressNotFound("a1")))
}
