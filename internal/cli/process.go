package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/model"
	"github.com/rcliao/coach-memory/internal/transcript"
)

func init() {
	cmd := &cobra.Command{
		Use:   "process [transcript-file]",
		Short: "Process a transcript into conversation memory",
		Long: "Recompute the memory record for a conversation from a full transcript and\n" +
			"archive it. The transcript is a file or stdin: a JSON message array, one JSON\n" +
			"message per line, or plain \"role: text\" lines.",
		Run: runProcess,
	}

	cmd.Flags().StringP("conversation", "c", "", "Conversation id (required)")
	cmd.Flags().StringP("user", "u", "", "User profile JSON file")
	cmd.MarkFlagRequired("conversation")

	RootCmd.AddCommand(cmd)
}

func runProcess(cmd *cobra.Command, args []string) {
	conversationID, _ := cmd.Flags().GetString("conversation")
	userFile, _ := cmd.Flags().GetString("user")

	raw, err := readInput(args)
	if err != nil {
		exitErr("read transcript", err)
	}
	messages, err := transcript.Parse(raw)
	if err != nil {
		exitErr("parse transcript", err)
	}
	if len(messages) == 0 {
		exitErr("process", fmt.Errorf("transcript is empty (file arg or stdin required)"))
	}

	var user *model.UserProfile
	if userFile != "" {
		user = &model.UserProfile{}
		b, err := os.ReadFile(userFile)
		if err != nil {
			exitErr("read user profile", err)
		}
		if err := json.Unmarshal(b, user); err != nil {
			exitErr("parse user profile", err)
		}
	}

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

	mem := e.ProcessConversationMemory(conversationID, messages, user)
	if _, err := archive.Save(cmd.Context(), mem); err != nil {
		exitErr("archive snapshot", err)
	}

	b, _ := json.MarshalIndent(mem, "", "  ")
	fmt.Println(string(b))
}

// readInput reads the first positional arg as a file, falling back to stdin.
func readInput(args []string) ([]byte, error) {
	if len(args) > 0 {
		return os.ReadFile(args[0])
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return nil, nil
}
