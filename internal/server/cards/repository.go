package cards

import (
	"context"

	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// Stats is the advisory aggregate exposed by the stats endpoint.
type Stats struct {
	TotalCards   int64
	TotalDevices int64
}

// Repository describes record-store persistence for card records.
type Repository interface {
	// Upsert inserts a card or overwrites an existing row with the same id.
	// created_at of an existing row is preserved.
	Upsert(ctx context.Context, card *models.Card) error

	// SelectUpdated returns non-deleted cards with updated_at > since written
	// by devices other than excludeDeviceID, ordered ascending by updated_at.
	SelectUpdated(ctx context.Context, excludeDeviceID string, since int64) ([]*models.Card, error)

	// Stats returns the non-deleted card count and the distinct device count.
	Stats(ctx context.Context) (*Stats, error)
}
