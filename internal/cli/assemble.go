package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/coach-memory/internal/assemble"
	"github.com/rcliao/coach-memory/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "assemble [message]",
		Short: "Assemble the tiered prompt context for a message",
		Long: "Build the context string handed to the LLM layer. Tier basic uses only the\n" +
			"message and the optional history file; enhanced and premium fold in the\n" +
			"archived conversation memory.",
		Args: cobra.MinimumNArgs(1),
		Run:  runAssemble,
	}

	cmd.Flags().StringP("conversation", "c", "", "Conversation id (enhanced/premium)")
	cmd.Flags().StringP("tier", "t", "basic", "Tier: basic, enhanced, premium")
	cmd.Flags().String("history", "", "Caller-supplied history JSON file (user, workouts, reflections)")
	cmd.Flags().String("stretch", "", "Stretch recommendation (premium)")

	RootCmd.AddCommand(cmd)
}

// historyFile is the caller-supplied history the engine never fetches itself.
type historyFile struct {
	User        *model.UserProfile      `json:"user,omitempty"`
	LastWorkout *model.WorkoutEntry     `json:"last_workout,omitempty"`
	Soreness    []string                `json:"soreness,omitempty"`
	Workouts    []model.WorkoutEntry    `json:"workouts,omitempty"`
	Reflections []model.ReflectionEntry `json:"reflections,omitempty"`
}

func runAssemble(cmd *cobra.Command, args []string) {
	conversationID, _ := cmd.Flags().GetString("conversation")
	tier, _ := cmd.Flags().GetString("tier")
	historyPath, _ := cmd.Flags().GetString("history")
	stretch, _ := cmd.Flags().GetString("stretch")
	message := strings.Join(args, " ")

	var hist historyFile
	if historyPath != "" {
		b, err := os.ReadFile(historyPath)
		if err != nil {
			exitErr("read history", err)
		}
		if err := json.Unmarshal(b, &hist); err != nil {
			exitErr("parse history", err)
		}
	}

	cfg := loadConfig()
	asm := assemble.New(cfg.Cache.TTL, cfg.Cache.SweepThreshold)
	data := assemble.ExtractStructuredData(message)

	if tier == "basic" {
		fmt.Print(asm.BuildBasicContext(data, hist.User, hist.LastWorkout, hist.Soreness))
		return
	}

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

	switch tier {
	case "enhanced":
		fmt.Print(asm.BuildEnhancedContextWithMemory(data, hist.User, hist.LastWorkout, hist.Soreness, memCtx.History, &memCtx))
	case "premium":
		fmt.Print(asm.BuildPremiumEnhancedPrompt(message, data, assemble.PremiumContext{
			User:        hist.User,
			LastWorkout: hist.LastWorkout,
			Soreness:    hist.Soreness,
			Workouts:    hist.Workouts,
			Reflections: hist.Reflections,
			Convo:       memCtx.History,
			Memory:      &memCtx,
		}, stretch))
	default:
		exitErr("assemble", fmt.Errorf("unknown tier %q (use basic, enhanced, premium)", tier))
	}
}
