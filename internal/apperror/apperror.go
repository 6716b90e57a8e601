package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable, caller-correctable conditions the
// service can signal. Handlers map these to HTTP status codes in one place
// (handler/response.go); nothing below the handler layer knows about HTTP.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAlreadyPending     = errors.New("already pending")
	ErrImageProcessing    = errors.New("image processing failed")
)

type AppError struct {
	Err     error  // sentinel category (errors.Is target)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound covers both "does not exist" and "exists but is not yours / not
// actionable". The two are deliberately indistinguishable so a caller can't
// probe for requests owned by other users.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// InvalidCredentials is the single login-failure signal. Unknown email and
// wrong password produce the same error so the response doesn't disclose
// which accounts exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

// Unauthenticated is the uniform outcome for a missing, malformed, expired,
// or signature-invalid token. No sub-classification is surfaced.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "valid authentication required",
	}
}

// AlreadyPending signals that the mentee already has a pending match
// request (to any mentor) and may not create a second one.
func AlreadyPending(menteeID string) *AppError {
	return &AppError{
		Err:     ErrAlreadyPending,
		Message: fmt.Sprintf("mentee %s already has a pending match request", menteeID),
	}
}

// ImageProcessing signals a rejected profile image upload (too large, not
// JPEG/PNG, or undecodable). The update is refused rather than silently
// keeping the previous image.
func ImageProcessing(message string) *AppError {
	return &AppError{
		Err:     ErrImageProcessing,
		Message: message,
	}
}
