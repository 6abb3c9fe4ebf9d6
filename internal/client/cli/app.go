// Package cli is the interactive device client: a small REPL over the
// local card store, the generation backend, and the sync engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/amyzhang-commits/spanish-cards/internal/client/api"
	"github.com/amyzhang-commits/spanish-cards/internal/client/config"
	"github.com/amyzhang-commits/spanish-cards/internal/client/generate"
	"github.com/amyzhang-commits/spanish-cards/internal/client/store"
	"github.com/amyzhang-commits/spanish-cards/internal/client/sync"
	"github.com/amyzhang-commits/spanish-cards/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	api    *api.Client
	engine *sync.Engine
	gen    *generate.OllamaClient
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	st, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error opening local store: %w", err)
	}

	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	engine := sync.NewEngine(st, apiClient, logger, c.RequestTimeout)

	gen := generate.NewOllamaClient(c.OllamaEndpointAddr, c.OllamaModel, c.OllamaTimeout)

	return &App{
		config: c,
		store:  st,
		api:    apiClient,
		engine: engine,
		gen:    gen,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	fmt.Printf("Spanish Cards CLI, device %s (type 'help' for commands)\n", a.store.DeviceID())

	a.engine.AddListener(printSyncEvent)
	a.engine.StartAutoSync(ctx, a.config.SyncInterval)
	a.engine.StartOnlineWatcher(ctx, a.config.OnlineCheckInterval)
	_ = a.engine.RegisterBackgroundSync(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if a.engine.Online() {
		return "online"
	}
	return "offline"
}

func printSyncEvent(ev sync.Event) {
	switch ev.Type {
	case sync.EventSyncCompleted:
		if ev.Uploaded > 0 || ev.Downloaded > 0 {
			printlnFn(fmt.Sprintf("sync: %d uploaded, %d downloaded", ev.Uploaded, ev.Downloaded))
		}
	case sync.EventSyncFailed:
		printlnFn("sync failed:", ev.Err.Error())
	}
}
