package domain

import "errors"

// Domain errors (no external dependencies). Infrastructure wraps its driver
// errors into these; the HTTP layer maps them to status codes.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrEmailAlreadyExists = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access denied")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrInsufficientStock  = errors.New("insufficient quantity available")
	ErrUnavailable        = errors.New("store unavailable")
)
