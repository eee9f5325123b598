// Package common defines shared constants and sentinel errors used across
// the pagespace server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("conflict")

	// Trash lifecycle preconditions. Both are detected before any mutation
	// and reported as client errors.
	ErrorNotTrashed     = errors.New("page is not in trash")
	ErrorAlreadyTrashed = errors.New("page is already in trash")

	// Token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
