// Package errors provides an API for errors across the application.
package errors

import (
	"errors"
	"net/http"
)

// Business errors of the ledger. Services return these (possibly wrapped);
// the HTTP layer maps them to status codes with StatusCodeForError.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("caller does not own this NFT")
	ErrAlreadyListed      = errors.New("NFT is already listed")
	ErrNotListed          = errors.New("NFT is not listed")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrTransferFailed     = errors.New("chain transfer failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateName      = errors.New("name already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyLoggedIn    = errors.New("a user is already logged in")
	ErrNotLoggedIn        = errors.New("no active session")
	ErrPersistence        = errors.New("persistence failure")
	ErrIDGeneration       = errors.New("could not generate a unique id")
	ErrJobQueueFull       = errors.New("job queue is full")
)

// RequestError carries an HTTP status code alongside the underlying error.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusCodeForError resolves the HTTP status code for a business error.
func StatusCodeForError(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotListed):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyListed), errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAlreadyLoggedIn), errors.Is(err, ErrNotLoggedIn):
		return http.StatusConflict
	case errors.Is(err, ErrJobQueueFull):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
