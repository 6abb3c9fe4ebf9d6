// Package cards provides the PostgreSQL-backed record store and the merge
// service behind the sync API.
package cards

import (
	"context"
	"fmt"

	"github.com/amyzhang-commits/spanish-cards/internal/dbx"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes a card by id. On conflict every field except created_at is
// replaced, so the row always carries the latest write's device_id and data
// while the original creation time survives updates from other devices.
func (r *PostgresRepository) Upsert(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (id, device_id, card_type, data, created_at, updated_at, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			device_id = EXCLUDED.device_id,
			card_type = EXCLUDED.card_type,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at,
			deleted = EXCLUDED.deleted;
	`
	_, err := r.db.ExecContext(ctx, query,
		card.ID, card.DeviceID, string(card.Type), string(card.Data),
		card.CreatedAt, card.UpdatedAt, card.Deleted)
	if err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}
	return nil
}

// SelectUpdated is the pull query: newer than the cursor, not the caller's own
// writes, tombstones filtered out, ascending by updated_at so a client can
// re-derive a safe cursor after a partial merge.
func (r *PostgresRepository) SelectUpdated(ctx context.Context, excludeDeviceID string, since int64) ([]*models.Card, error) {
	query := `
		SELECT id, device_id, card_type, data, created_at, updated_at, deleted
		FROM cards
		WHERE updated_at > $1 AND device_id <> $2 AND deleted = FALSE
		ORDER BY updated_at ASC;
	`
	rows, err := r.db.QueryContext(ctx, query, since, excludeDeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []*models.Card
	for rows.Next() {
		var (
			item     models.Card
			cardType string
			data     string
		)
		if err := rows.Scan(&item.ID, &item.DeviceID, &cardType, &data,
			&item.CreatedAt, &item.UpdatedAt, &item.Deleted); err != nil {
			return nil, err
		}
		item.Type = models.CardType(cardType)
		item.Data = []byte(data)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Stats returns advisory aggregates in a single round trip.
func (r *PostgresRepository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cards WHERE deleted = FALSE),
			(SELECT COUNT(DISTINCT device_id) FROM cards);
	`
	s := &Stats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.TotalCards, &s.TotalDevices); err != nil {
		return nil, fmt.Errorf("failed to select stats: %w", err)
	}
	return s, nil
}
