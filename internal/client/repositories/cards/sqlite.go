package cards

import (
	"context"
	"fmt"
	"strings"

	"github.com/amyzhang-commits/spanish-cards/internal/dbx"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert writes a card by id. On conflict all content columns are replaced;
// created_at keeps its original value.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Card, pending bool) error {
	query := `INSERT INTO cards (id, device_id, card_type, data, created_at, updated_at, deleted, pending)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				device_id = excluded.device_id,
				card_type = excluded.card_type,
				data = excluded.data,
				updated_at = excluded.updated_at,
				deleted = excluded.deleted,
				pending = excluded.pending
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.DeviceID, string(c.Type), string(c.Data),
		c.CreatedAt, c.UpdatedAt, c.Deleted, pending)
	if err != nil {
		return fmt.Errorf("failed to upsert card: %w", err)
	}
	return nil
}

// GetAll lists all non-deleted cards.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Card, error) {
	query := `SELECT id, device_id, card_type, data, created_at, updated_at, deleted
			FROM cards WHERE deleted=0 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select cards: %w", err)
	}
	defer rows.Close()

	var result []models.Card
	for rows.Next() {
		item, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAllPending returns cards flagged as pending=1 (awaiting push).
func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]*models.Card, error) {
	query := `SELECT id, device_id, card_type, data, created_at, updated_at, deleted
			FROM cards WHERE pending=1 ORDER BY updated_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending cards: %w", err)
	}
	defer rows.Close()

	var pending []*models.Card
	for rows.Next() {
		item, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

// MarkSynced clears the pending flag for the given ids.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`UPDATE cards SET pending=0 WHERE id IN (%s)`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark cards synced: %w", err)
	}
	return nil
}

// MergeRemote upserts an incoming record under last-write-wins: the update
// only fires when the incoming updated_at is strictly greater than the local
// one. created_at of an existing row survives; merged rows are not pending.
func (r *SQLiteRepository) MergeRemote(ctx context.Context, c *models.Card) error {
	query := `INSERT INTO cards (id, device_id, card_type, data, created_at, updated_at, deleted, pending)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0)
			ON CONFLICT(id) DO UPDATE SET
				device_id = excluded.device_id,
				card_type = excluded.card_type,
				data = excluded.data,
				updated_at = excluded.updated_at,
				deleted = excluded.deleted,
				pending = 0
			WHERE excluded.updated_at > cards.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.DeviceID, string(c.Type), string(c.Data),
		c.CreatedAt, c.UpdatedAt, c.Deleted)
	if err != nil {
		return fmt.Errorf("failed to merge card: %w", err)
	}
	return nil
}

// Counts returns the total non-deleted card count and the pending count.
func (r *SQLiteRepository) Counts(ctx context.Context) (int64, int64, error) {
	query := `SELECT
			(SELECT COUNT(*) FROM cards WHERE deleted=0),
			(SELECT COUNT(*) FROM cards WHERE pending=1)`
	var total, unsynced int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &unsynced); err != nil {
		return 0, 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return total, unsynced, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var (
		item     models.Card
		cardType string
		data     string
	)
	if err := row.Scan(&item.ID, &item.DeviceID, &cardType, &data,
		&item.CreatedAt, &item.UpdatedAt, &item.Deleted); err != nil {
		return nil, err
	}
	item.Type = models.CardType(cardType)
	item.Data = []byte(data)
	return &item, nil
}
