package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/engine"
	"github.com/rcliao/coach-memory/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show engine and archive statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOutput struct {
	Engine  engine.Stats `json:"engine"`
	Archive *store.Stats `json:"archive"`
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	archive, err := openArchive(cfg)
	if err != nil {
		exitErr("open archive", err)
	}
	defer archive.Close()

	e := newEngine(cfg)
	if err := hydrate(cmd.Context(), e, archive); err != nil {
		exitErr("hydrate", err)
	}

	archiveStats, err := archive.Stats(cmd.Context(), getDBPath(cfg))
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(statsOutput{Engine: e.GetMemoryStats(), Archive: archiveStats}, "", "  ")
	fmt.Println(string(b))
}
