package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived snapshots as JSON",
		Long:  "Export every archived snapshot, all versions included.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	archive, err := openArchive(loadConfig())
	if err != nil {
		exitErr("open archive", err)
	}
	defer archive.Close()

	snaps, err := archive.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(snaps, "", "  ")
	fmt.Println(string(b))
}
