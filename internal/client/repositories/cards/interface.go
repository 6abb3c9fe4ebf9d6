package cards

import (
	"context"

	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// Repository describes local persistence of this device's cards.
// Implementations are backed by the client SQLite database.
type Repository interface {
	// Upsert inserts a card or overwrites an existing one by id. When
	// pending is true the row is flagged as awaiting push.
	Upsert(ctx context.Context, card *models.Card, pending bool) error

	// GetAll returns all non-deleted cards.
	GetAll(ctx context.Context) ([]models.Card, error)

	// GetAllPending returns cards flagged as awaiting push.
	GetAllPending(ctx context.Context) ([]*models.Card, error)

	// MarkSynced clears the pending flag for the given ids.
	MarkSynced(ctx context.Context, ids []string) error

	// MergeRemote applies a last-write-wins merge of one incoming record:
	// replace the local copy only if the incoming updated_at is strictly
	// greater, insert if absent. Merged rows are never pending.
	MergeRemote(ctx context.Context, card *models.Card) error

	// Counts returns the total non-deleted card count and the pending count.
	Counts(ctx context.Context) (total int64, unsynced int64, err error)
}
