// Package common defines shared constants and sentinel errors used across
// client and server layers of labdrive. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Request validation errors.
	ErrorInvalidPath = errors.New("invalid path")
	ErrorInvalidMode = errors.New("invalid access mode")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// CSRF errors.
	ErrCSRFMissing  = errors.New("CSRF cookie not set")
	ErrCSRFMismatch = errors.New("CSRF token missing or incorrect")
)
