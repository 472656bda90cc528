package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrEmptyInput        = errors.New("empty input")
	ErrBusy              = errors.New("save already in progress")
	ErrSaveFailed        = errors.New("save failed")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrPreferenceOwner   = errors.New("preference belongs to another user")
)

// AppError represents an application error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// SaveFailed builds the error returned when the preference store rejects a
// save. message is what the store reported and may be empty.
func SaveFailed(message string, err error) *AppError {
	if err == nil {
		err = ErrSaveFailed
	} else if !errors.Is(err, ErrSaveFailed) {
		err = fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return NewAppError("save_failed", message, err)
}

// ServerMessage returns the store-provided message carried by err, or "".
func ServerMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
