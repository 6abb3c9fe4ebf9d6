package cards

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/dbx"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// Service is the authoritative merge point of the sync API. It is stateless
// across requests except for the record store.
type Service struct {
	db      *sql.DB
	repoFor func(db dbx.DBTX) Repository
	now     func() time.Time
}

// NewService constructs a Service over the given database handle.
func NewService(db *sql.DB) *Service {
	return &Service{
		db:      db,
		repoFor: func(db dbx.DBTX) Repository { return NewPostgresRepository(db) },
		now:     time.Now,
	}
}

// Push applies an upload batch from one device as a single transaction.
//
// The whole batch is validated before any row is touched; a single invalid
// card rejects all of them. Every record is stamped with the caller's
// device_id and one receipt timestamp taken from the server clock — the
// client's submitted updated_at is never trusted, which makes the sync cursor
// a function of arrival order at the server. created_at is taken from the
// payload when present, otherwise it is the receipt time.
func (s *Service) Push(ctx context.Context, deviceID string, batch []*models.Card) (int, error) {
	if deviceID == "" {
		return 0, fmt.Errorf("%w: device_id required", common.ErrValidation)
	}
	if err := models.ValidateBatch(batch); err != nil {
		return 0, err
	}

	receipt := s.now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repoFor(tx)
		for _, c := range batch {
			rec := *c
			rec.DeviceID = deviceID
			rec.UpdatedAt = receipt
			if rec.CreatedAt == 0 {
				rec.CreatedAt = receipt
			}
			rec.Deleted = false
			if err := repo.Upsert(ctx, &rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error applying push batch: %w", err)
	}

	return len(batch), nil
}

// Pull returns every record changed since the given cursor, excluding the
// requesting device's own writes so a device never downloads back what it
// just pushed.
func (s *Service) Pull(ctx context.Context, deviceID string, since int64) ([]*models.Card, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device_id required", common.ErrValidation)
	}

	cards, err := s.repoFor(s.db).SelectUpdated(ctx, deviceID, since)
	if err != nil {
		return nil, fmt.Errorf("error selecting updated cards: %w", err)
	}
	return cards, nil
}

// Stats returns advisory aggregates; not used for sync correctness.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repoFor(s.db).Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("error selecting stats: %w", err)
	}
	return stats, nil
}

// Now reports the server receipt clock, exposed for response timestamps.
func (s *Service) Now() time.Time {
	return s.now()
}
