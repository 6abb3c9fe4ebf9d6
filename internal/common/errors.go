// Package common defines shared constants and sentinel errors used across
// client and server layers of the sync system. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (malformed push/pull request, rejected before any
	// mutation).
	ErrValidation = errors.New("validation error")

	// Storage errors (local store or record store unavailable, or a
	// transaction failure).
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Network errors (server unreachable or non-success status).
	ErrServerUnavailable = errors.New("server unavailable")

	// Sync lifecycle errors.
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrSyncDeferred   = errors.New("sync deferred by backoff")
)
