// Package apperrors defines the error kinds the services surface. Handlers
// map a kind to a transport status with HTTPStatus; the services themselves
// never deal in status codes.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateEmail    = errors.New("email is already in use")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrNotFound          = errors.New("user not found")
	ErrTripNotFound      = errors.New("trip not found")
	ErrLogSheetNotFound  = errors.New("log sheet not found")
	ErrDeleted           = errors.New("user account is deleted")
	ErrInactive          = errors.New("user account is inactive")
	ErrWrongPassword     = errors.New("invalid password")
	ErrMissingToken      = errors.New("missing authentication token")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrCrossTripMismatch = errors.New("log sheet does not belong to the given trip")
)

// HTTPStatus returns the status code the boundary should answer with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTripNotFound), errors.Is(err, ErrLogSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDeleted), errors.Is(err, ErrInactive), errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCrossTripMismatch):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
