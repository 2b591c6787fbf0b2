package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/assemble"
	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
	"github.com/rcliao/coach-memory/internal/sentiment"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [message]",
		Short: "Extract structured signal from a single message",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAnalyze,
	}

	RootCmd.AddCommand(cmd)
}

type analysis struct {
	Extracted model.ExtractedData `json:"extracted"`
	Sentiment float64             `json:"sentiment"`
	Topics    []string            `json:"topics"`
}

func runAnalyze(cmd *cobra.Command, args []string) {
	message := strings.Join(args, " ")

	out := analysis{
		Extracted: assemble.ExtractStructuredData(message),
		Sentiment: sentiment.Score(message),
		Topics:    lexicon.Topics(message),
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
