// Package store is the device-local card store. It owns the SQLite
// database, applies schema migrations on open, and provides the write
// and merge operations the sync engine and the CLI are built on.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/amyzhang-commits/spanish-cards/internal/client/migrations"
	"github.com/amyzhang-commits/spanish-cards/internal/client/repositories/cards"
	"github.com/amyzhang-commits/spanish-cards/internal/client/repositories/syncstate"
	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/dbx"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

const (
	keyDeviceID   = "device_id"
	keyLastSyncAt = "last_sync_at"
)

// Store wraps the local database. All mutating operations are serialized
// with a mutex because SQLite allows a single writer at a time.
type Store struct {
	mu sync.Mutex
	db *sql.DB

	cardsFor func(db dbx.DBTX) cards.Repository
	stateFor func(db dbx.DBTX) syncstate.Repository

	deviceID string
	now      func() time.Time
}

// Open opens (creating if needed) the local database at dsn, applies
// migrations and ensures the store has a device id.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	s := &Store{
		db:       db,
		cardsFor: func(db dbx.DBTX) cards.Repository { return cards.NewSQLiteRepository(db) },
		stateFor: func(db dbx.DBTX) syncstate.Repository { return syncstate.NewSQLiteRepository(db) },
		now:      time.Now,
	}

	if err := s.ensureDeviceID(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// ensureDeviceID loads the persisted device id or generates one on first run.
func (s *Store) ensureDeviceID(ctx context.Context) error {
	state := s.stateFor(s.db)

	id, err := state.Get(ctx, keyDeviceID)
	if err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
		if err := state.Set(ctx, keyDeviceID, id); err != nil {
			return err
		}
	}

	s.deviceID = id
	return nil
}

// DeviceID returns the stable identifier of this device.
func (s *Store) DeviceID() string {
	return s.deviceID
}

// SaveCards persists locally created cards as pending. Missing ids are
// generated, the device id is always this store's, and missing timestamps
// are stamped with the current time.
func (s *Store) SaveCards(ctx context.Context, items []*models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.now().UnixMilli()
	for _, c := range items {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.DeviceID = s.deviceID
		if c.CreatedAt == 0 {
			c.CreatedAt = nowMs
		}
		if c.UpdatedAt == 0 {
			c.UpdatedAt = nowMs
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.cardsFor(tx)
		for _, c := range items {
			if err := repo.Upsert(ctx, c, true); err != nil {
				return err
			}
		}
		return nil
	})
}

// UnsyncedCards returns cards awaiting push, oldest first.
func (s *Store) UnsyncedCards(ctx context.Context) ([]*models.Card, error) {
	return s.cardsFor(s.db).GetAllPending(ctx)
}

// MarkSynced clears the pending flag after a successful push.
func (s *Store) MarkSynced(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cardsFor(s.db).MarkSynced(ctx, ids)
}

// MergeRemoteCards applies pulled records under last-write-wins, all of
// them in a single transaction.
func (s *Store) MergeRemoteCards(ctx context.Context, items []*models.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.cardsFor(tx)
		for _, c := range items {
			if err := repo.MergeRemote(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListCards returns all non-deleted cards.
func (s *Store) ListCards(ctx context.Context) ([]models.Card, error) {
	return s.cardsFor(s.db).GetAll(ctx)
}

// Stats returns the total and unsynced card counts.
func (s *Store) Stats(ctx context.Context) (total int64, unsynced int64, err error) {
	return s.cardsFor(s.db).Counts(ctx)
}

// Cursor returns the last sync watermark in epoch milliseconds, zero when
// the store has never synced.
func (s *Store) Cursor(ctx context.Context) (int64, error) {
	v, err := s.stateFor(s.db).Get(ctx, keyLastSyncAt)
	if err != nil {
		return 0, err
	}
	if v == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt sync cursor %q: %w", v, err)
	}
	return cursor, nil
}

// SetCursor advances the sync watermark.
func (s *Store) SetCursor(ctx context.Context, cursor int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateFor(s.db).Set(ctx, keyLastSyncAt, strconv.FormatInt(cursor, 10))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
