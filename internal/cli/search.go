package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search archived conversations",
		Long:  "Find archived conversations whose topics or message text match the query.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	archive, err := openArchive(loadConfig())
	if err != nil {
		exitErr("open archive", err)
	}
	defer archive.Close()

	snaps, err := archive.Search(cmd.Context(), store.SearchParams{Query: query, Limit: limit})
	if err != nil {
		exitErr("search", err)
	}

	b, _ := json.MarshalIndent(snaps, "", "  ")
	fmt.Println(string(b))
}
