// Package cli implements the coach-memory CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/config"
	"github.com/rcliao/coach-memory/internal/engine"
	"github.com/rcliao/coach-memory/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "coach-memory",
	Short: "Conversational memory for an AI wellness coach",
	Long: "Process conversation transcripts into bounded memory records, score past\n" +
		"conversations against the current message, and assemble tiered prompt context.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
			return
		}
		if lvl, err := log.ParseLevel(loadConfig().Logging.Level); err == nil {
			log.SetLevel(lvl)
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Archive path (default: $COACH_MEMORY_DB or ~/.coach-memory/archive.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $COACH_MEMORY_CONFIG)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// getDBPath resolves the archive path: flag, then environment, then config
// file, then the default under the home directory.
func getDBPath(cfg config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("COACH_MEMORY_DB"); env != "" {
		return env
	}
	if cfg.Archive.Path != "" {
		return cfg.Archive.Path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".coach-memory", "archive.db")
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		path = os.Getenv("COACH_MEMORY_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func openArchive(cfg config.Config) (*store.SQLiteArchive, error) {
	return store.NewSQLiteArchive(getDBPath(cfg))
}

func newEngine(cfg config.Config) *engine.Engine {
	return engine.New(
		engine.WithLimits(cfg.Limits),
		engine.WithLogger(log.Default()),
	)
}

// hydrate replays the latest archived snapshot of every conversation into the
// engine, oldest first so the aggregates keep their recency ordering.
func hydrate(ctx context.Context, e *engine.Engine, archive *store.SQLiteArchive) error {
	snaps, err := archive.List(ctx, store.ListParams{LatestOnly: true, Limit: 100000})
	if err != nil {
		return fmt.Errorf("list archive: %w", err)
	}
	for i := len(snaps) - 1; i >= 0; i-- {
		e.Restore(snaps[i].Memory)
	}
	return nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
