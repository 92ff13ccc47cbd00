package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{"ValidationFailed wraps ErrValidation", ValidationFailed("email", "taken"), ErrValidation, true},
		{"ValidationFields wraps ErrValidation", ValidationFields(map[string]string{"a": "b"}), ErrValidation, true},
		{"Unauthorized wraps ErrUnauthorized", Unauthorized("bad"), ErrUnauthorized, true},
		{"NotVerified wraps ErrNotVerified", NotVerified("verify first"), ErrNotVerified, true},
		{"Forbidden wraps ErrForbidden", Forbidden("nope"), ErrForbidden, true},
		{"NotFound wraps ErrNotFound", NotFound("gone"), ErrNotFound, true},
		{"NotVerified is not ErrUnauthorized", NotVerified("verify first"), ErrUnauthorized, false},
		{"NotFound is not ErrForbidden", NotFound("gone"), ErrForbidden, false},
		{"wrapped twice still matches", fmt.Errorf("outer: %w", Forbidden("nope")), ErrForbidden, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, errors.Is(tt.err, tt.target))
		})
	}
}

func TestValidationFailedFields(t *testing.T) {
	err := ValidationFailed("username", "A user with that username already exists.")
	assert.Equal(t, "A user with that username already exists.", err.Error())
	assert.Equal(t, map[string]string{"username": "A user with that username already exists."}, err.Fields)

	err = ValidationFailed("", "Invalid verification code.")
	assert.Nil(t, err.Fields)
}

func TestCodes(t *testing.T) {
	assert.Equal(t, "invalid_credentials", InvalidCredentials("bad").Code)
	assert.True(t, errors.Is(InvalidCredentials("bad"), ErrUnauthorized))
	assert.Equal(t, "account_not_verified", NotVerified("verify first").Code)
	assert.Empty(t, Forbidden("nope").Code)
}

func TestErrorsAs(t *testing.T) {
	var appErr *AppError

	err := fmt.Errorf("wrapped: %w", NotFoundf("Car listing %d not found", 4))
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Car listing 4 not found", appErr.Message)
}
