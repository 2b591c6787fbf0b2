package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import snapshots from an export",
		Long:  "Import snapshots from a JSON export file or stdin. Imported records get fresh version numbers.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	raw, err := readInput(args)
	if err != nil {
		exitErr("read import", err)
	}
	if len(raw) == 0 {
		exitErr("import", fmt.Errorf("no input (file arg or stdin required)"))
	}

	var snaps []store.Snapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		exitErr("parse import", err)
	}

	archive, err := openArchive(loadConfig())
	if err != nil {
		exitErr("open archive", err)
	}
	defer archive.Close()

	n, err := archive.Import(cmd.Context(), snaps)
	if err != nil {
		exitErr("import", err)
	}
	fmt.Printf("imported %d snapshots\n", n)
}
