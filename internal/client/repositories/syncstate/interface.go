package syncstate

import "context"

// Repository is a small key/value store for per-device sync bookkeeping
// (device id, last sync cursor).
type Repository interface {
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value for key, inserting or replacing.
	Set(ctx context.Context, key string, value string) error
}
