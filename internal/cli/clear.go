package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear archived conversation memory",
		Long:  "Remove the archived snapshots for one conversation (-c) or for everything (--all).",
		Run:   runClear,
	}

	cmd.Flags().StringP("conversation", "c", "", "Conversation id to clear")
	cmd.Flags().Bool("all", false, "Clear every conversation")

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	conversationID, _ := cmd.Flags().GetString("conversation")
	all, _ := cmd.Flags().GetBool("all")

	if conversationID == "" && !all {
		exitErr("clear", fmt.Errorf("either -c <conversation> or --all is required"))
	}

	archive, err := openArchive(loadConfig())
	if err != nil {
		exitErr("open archive", err)
	}
	defer archive.Close()

	if all {
		if err := archive.ClearAll(cmd.Context()); err != nil {
			exitErr("clear", err)
		}
		fmt.Println("cleared all conversations")
		return
	}

	if err := archive.Rm(cmd.Context(), conversationID); err != nil {
		exitErr("clear", err)
	}
	fmt.Printf("cleared conversation %s\n", conversationID)
}
