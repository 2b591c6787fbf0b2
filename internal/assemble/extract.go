// Package assemble builds the tiered prompt-context strings handed to the LLM
// layer. It is pure string-building over caller-supplied data; the package
// never queries a database.
package assemble

import (
	"strings"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
)

// structuredKeys are the recognized "Key: value" line prefixes. Matching is
// case-sensitive: "mood: stressed" inside prose is not a structured field,
// only a line of the form "Mood: stressed" is.
var structuredKeys = []string{"Exercise", "Mood", "Difficulty", "Soreness"}

// ExtractStructuredData pulls structured signal from a single message.
// Explicit "Key: value" lines win over keyword classification; everything
// else falls back to the lexicon classifiers. Empty input yields the zero
// value rather than an error.
func ExtractStructuredData(message string) model.ExtractedData {
	var data model.ExtractedData

	fields := map[string]string{}
	for _, line := range strings.Split(message, "\n") {
		for _, key := range structuredKeys {
			prefix := key + ":"
			rest, found := strings.CutPrefix(strings.TrimSpace(line), prefix)
			if found && strings.TrimSpace(rest) != "" {
				fields[key] = strings.TrimSpace(rest)
				data.HasStructuredFormat = true
			}
		}
	}

	data.Mood = fields["Mood"]
	data.Exercise = fields["Exercise"]
	if data.Exercise == "" {
		data.Exercise = lexicon.Exercise(message)
	}
	data.Difficulty = fields["Difficulty"]
	if data.Difficulty == "" {
		data.Difficulty = lexicon.Difficulty(message)
	}
	data.Soreness = fields["Soreness"]
	if data.Soreness == "" {
		data.Soreness = strings.Join(lexicon.Soreness(message), ", ")
	}
	data.TimeContext = lexicon.TimeReference(message)
	data.EmotionalContext = lexicon.EmotionalCategory(message)

	return data
}
