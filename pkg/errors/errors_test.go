package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPredefinedErrors tests that all predefined errors are defined.
func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrInvalidDomain", ErrInvalidDomain, "invalid domain"},
		{"ErrEmptyInput", ErrEmptyInput, "empty input"},
		{"ErrBusy", ErrBusy, "save already in progress"},
		{"ErrSaveFailed", ErrSaveFailed, "save failed"},
		{"ErrInvalidPreference", ErrInvalidPreference, "invalid preference"},
		{"ErrPreferenceOwner", ErrPreferenceOwner, "preference belongs to another user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Equal(t, tt.msg, tt.err.Error())
		})
	}
}

// TestAppError_Error tests AppError formatting with and without a cause.
func TestAppError_Error(t *testing.T) {
	withCause := NewAppError("save_failed", "disk full", errors.New("io"))
	assert.Equal(t, "save_failed: disk full: io", withCause.Error())

	withoutCause := NewAppError("bad_request", "missing body", nil)
	assert.Equal(t, "bad_request: missing body", withoutCause.Error())
}

// TestAppError_Unwrap tests that AppError exposes its cause.
func TestAppError_Unwrap(t *testing.T) {
	err := NewAppError("invalid_preference", "name too long", ErrInvalidPreference)
	assert.True(t, errors.Is(err, ErrInvalidPreference))
}

// TestSaveFailed tests the save failure constructor.
func TestSaveFailed(t *testing.T) {
	t.Run("no cause", func(t *testing.T) {
		err := SaveFailed("server says no", nil)
		assert.True(t, errors.Is(err, ErrSaveFailed))
		assert.Equal(t, "server says no", ServerMessage(err))
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := SaveFailed("", cause)
		assert.True(t, errors.Is(err, ErrSaveFailed))
		assert.True(t, errors.Is(err, cause))
		assert.Empty(t, ServerMessage(err))
	})

	t.Run("cause already save failed", func(t *testing.T) {
		err := SaveFailed("x", fmt.Errorf("wrapped: %w", ErrSaveFailed))
		assert.True(t, errors.Is(err, ErrSaveFailed))
	})
}

// TestServerMessage tests extraction through wrapping.
func TestServerMessage(t *testing.T) {
	wrapped := fmt.Errorf("remote: %w", SaveFailed("quota exceeded", nil))
	assert.Equal(t, "quota exceeded", ServerMessage(wrapped))
	assert.Empty(t, ServerMessage(errors.New("plain")))
	assert.Empty(t, ServerMessage(nil))
}

// TestWrap tests error wrapping.
func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	err := Wrap(ErrInvalidDomain, "add domain")
	require.Error(t, err)
	assert.Equal(t, "add domain: invalid domain", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidDomain))
}
