package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain. Handlers translate these to HTTP
// statuses; services return them wrapped with context.
var (
	ErrValidation          = errors.New("validation failed")
	ErrAlreadyClaimed      = errors.New("report already claimed")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrVerificationFailed  = errors.New("could not verify the image")
	ErrInvalidTransition   = errors.New("invalid report status transition")
	ErrNotFound            = errors.New("record not found")
	ErrInternalServerError = errors.New("internal server error")
	InActiveUserError      = errors.New("user inactive")
)

// Error pairs a message with the HTTP status a handler should respond
// with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

func ValidationError(message string) *Error {
	return New(message, http.StatusBadRequest)
}

// StatusFor maps a domain error to its HTTP status. Unknown errors are
// treated as internal.
func StatusFor(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientPoints):
		return http.StatusBadRequest
	case errors.Is(err, ErrVerificationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
