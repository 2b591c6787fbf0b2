package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "context [message]",
		Short: "Build the memory context for an incoming message",
		Long: "Rehydrate the engine from the archive and compute the memory context the\n" +
			"coach would receive for this message: relevant past conversations, user\n" +
			"patterns, goal progress, and continuity suggestions.",
		Args: cobra.MinimumNArgs(1),
		Run:  runContext,
	}

	cmd.Flags().StringP("conversation", "c", "", "Conversation id (required)")
	cmd.MarkFlagRequired("conversation")

	RootCmd.AddCommand(cmd)
}

func runContext(cmd *cobra.Command, args []string) {
	conversationID, _ := cmd.Flags().GetString("conversation")
	message := strings.Join(args, " ")

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

	memCtx := e.GetMemoryContext(conversationID, message)

	b, _ := json.MarshalIndent(memCtx, "", "  ")
	fmt.Println(string(b))
}
