package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the platform connection is missing settings.
	ErrNotConfigured = errors.New("platform connection not configured")

	// Authentication Errors.

	// ErrAuthInvalid indicates the platform rejected the credentials.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrForbidden indicates the credentials lack access to the resource.
	ErrForbidden = errors.New("access forbidden")

	// Platform Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrPlatformUnavailable indicates the platform failed to serve a request.
	ErrPlatformUnavailable = errors.New("platform unavailable")
)
