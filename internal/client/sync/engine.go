// Package sync drives bidirectional card synchronization: push pending
// local cards to the server, pull foreign cards, merge last-write-wins,
// advance the cursor. At most one sync runs at a time; repeated failures
// back off exponentially.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/logging"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// Store is the slice of the local store the engine needs.
type Store interface {
	DeviceID() string
	UnsyncedCards(ctx context.Context) ([]*models.Card, error)
	MarkSynced(ctx context.Context, ids []string) error
	MergeRemoteCards(ctx context.Context, cards []*models.Card) error
	Cursor(ctx context.Context) (int64, error)
	SetCursor(ctx context.Context, cursor int64) error
	Stats(ctx context.Context) (total int64, unsynced int64, err error)
}

// API is the slice of the server client the engine needs.
type API interface {
	Push(ctx context.Context, deviceID string, cards []*models.Card) (int, error)
	Pull(ctx context.Context, deviceID string, since int64) ([]*models.Card, error)
	Health(ctx context.Context) error
}

// Status is a snapshot of the local sync state.
type Status struct {
	UnsyncedCount int64
	LastSync      int64
}

const (
	backoffBase = time.Second
	backoffCap  = 30 * time.Second
)

// Engine coordinates sync runs.
type Engine struct {
	store   Store
	api     API
	logger  logging.Logger
	timeout time.Duration

	mu          stdsync.Mutex
	syncing     bool
	backoff     retry.Backoff
	nextAttempt time.Time
	listeners   []Listener
	online      bool

	now func() time.Time
}

// NewEngine returns an engine over the given store and server client.
// Every sync run is bounded by timeout.
func NewEngine(store Store, api API, logger logging.Logger, timeout time.Duration) *Engine {
	return &Engine{
		store:   store,
		api:     api,
		logger:  logger,
		timeout: timeout,
		backoff: newBackoff(),
		now:     time.Now,
	}
}

func newBackoff() retry.Backoff {
	return retry.WithCappedDuration(backoffCap, retry.NewExponential(backoffBase))
}

// AddListener registers a sync event listener.
func (e *Engine) AddListener(fn Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	listeners := make([]Listener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// acquire transitions idle -> syncing. Concurrent callers and callers
// inside the failure backoff window are turned away, never queued.
func (e *Engine) acquire() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.syncing {
		return common.ErrSyncInProgress
	}
	if wait := e.nextAttempt.Sub(e.now()); wait > 0 {
		return fmt.Errorf("%w: retry in %s", common.ErrSyncDeferred, wait.Round(time.Millisecond))
	}

	e.syncing = true
	return nil
}

func (e *Engine) release(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.syncing = false
	if err == nil {
		e.backoff = newBackoff()
		e.nextAttempt = time.Time{}
		return
	}

	delay, _ := e.backoff.Next()
	e.nextAttempt = e.now().Add(delay)
}

// SyncCards performs one full sync run. Push and pull are independent:
// a push failure does not prevent the pull from being attempted.
func (e *Engine) SyncCards(ctx context.Context) error {
	if err := e.acquire(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.emit(Event{Type: EventSyncStarted})

	uploaded, pushErr := e.push(ctx)
	downloaded, pullErr := e.pull(ctx)

	err := errors.Join(pushErr, pullErr)
	e.release(err)

	if err != nil {
		e.logger.Warn(ctx, "sync failed", "error", err.Error())
		e.emit(Event{Type: EventSyncFailed, Uploaded: uploaded, Downloaded: downloaded, Err: err})
		return err
	}

	e.logger.Info(ctx, "sync completed", "uploaded", uploaded, "downloaded", downloaded)
	e.emit(Event{Type: EventSyncCompleted, Uploaded: uploaded, Downloaded: downloaded})
	return nil
}

func (e *Engine) push(ctx context.Context) (int, error) {
	pending, err := e.store.UnsyncedCards(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	uploaded, err := e.api.Push(ctx, e.store.DeviceID(), pending)
	if err != nil {
		return 0, err
	}

	ids := make([]string, len(pending))
	for i, c := range pending {
		ids[i] = c.ID
	}
	if err := e.store.MarkSynced(ctx, ids); err != nil {
		return uploaded, err
	}
	return uploaded, nil
}

func (e *Engine) pull(ctx context.Context) (int, error) {
	cursor, err := e.store.Cursor(ctx)
	if err != nil {
		return 0, err
	}

	cards, err := e.api.Pull(ctx, e.store.DeviceID(), cursor)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		// Cursor stays put on an empty pull.
		return 0, nil
	}

	if err := e.store.MergeRemoteCards(ctx, cards); err != nil {
		return 0, err
	}

	// The server returns cards in ascending updated_at order, so the last
	// element carries the new watermark. Never move the cursor backwards.
	latest := cards[len(cards)-1].UpdatedAt
	if latest > cursor {
		if err := e.store.SetCursor(ctx, latest); err != nil {
			return len(cards), err
		}
	}
	return len(cards), nil
}

// TriggerSync starts a sync in the background. Rejections from the
// in-flight guard or the backoff window are expected and only logged.
func (e *Engine) TriggerSync(ctx context.Context) {
	go func() {
		err := e.SyncCards(ctx)
		if errors.Is(err, common.ErrSyncInProgress) || errors.Is(err, common.ErrSyncDeferred) {
			e.logger.Debug(ctx, "sync trigger dropped", "reason", err.Error())
		}
	}()
}

// StartAutoSync launches the periodic sync loop. It returns immediately;
// the loop stops when ctx is canceled.
func (e *Engine) StartAutoSync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.TriggerSync(ctx)
			}
		}
	}()
}

// StartOnlineWatcher launches a connectivity probe loop. An offline to
// online transition triggers an immediate sync.
func (e *Engine) StartOnlineWatcher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.checkOnline(ctx)
			}
		}
	}()
}

func (e *Engine) checkOnline(ctx context.Context) {
	online := e.api.Health(ctx) == nil

	e.mu.Lock()
	wasOnline := e.online
	e.online = online
	e.mu.Unlock()

	if online && !wasOnline {
		e.logger.Info(ctx, "server reachable, triggering sync")
		e.TriggerSync(ctx)
	}
}

// Online reports the result of the most recent connectivity probe.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// RegisterBackgroundSync asks the platform to schedule sync while the app
// is not running. There is no such scheduler here, so this only records
// the request. Never fatal.
func (e *Engine) RegisterBackgroundSync(ctx context.Context) error {
	e.logger.Info(ctx, "background sync not supported on this platform, relying on periodic sync")
	return nil
}

// Status reports the local sync state from the store.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	_, unsynced, err := e.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	lastSync, err := e.store.Cursor(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{UnsyncedCount: unsynced, LastSync: lastSync}, nil
}
