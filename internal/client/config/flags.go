package config

import (
	"flag"
	"os"

	"github.com/amyzhang-commits/spanish-cards/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   base URL of the sync server
//	-d string   path of the local SQLite database
//	-i duration period of the automatic sync loop
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "s", cfg.ServerEndpointAddr, "base URL of the sync server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local SQLite database")
	fs.DurationVar(&cfg.SyncInterval, "i", cfg.SyncInterval, "period of the automatic sync loop")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
