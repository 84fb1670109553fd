package usecase

import "errors"

// Stable error kinds the delivery layer branches on. Handlers map these
// to HTTP statuses; message text is presentation, never contract.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrConflict            = errors.New("conflict")
	ErrInvalidView         = errors.New("invalid view for role")
	ErrNotOnboarded        = errors.New("onboarding not completed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)
