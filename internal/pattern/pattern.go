// Package pattern detects time-based, emotional-cycle, and behavioral
// patterns across a message batch.
package pattern

import (
	"strings"
	"time"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
)

// MaxEvents bounds the pattern list per conversation, oldest dropped first.
const MaxEvents = 10

// timeKeywords emit a time pattern named after the keyword itself.
var timeKeywords = []string{
	"morning", "evening", "night", "weekend", "weekday",
	"before work", "after work", "lunch break",
}

// emotionalCycles are named cycles with their trigger keywords.
var emotionalCycles = []lexicon.Rule{
	{Tag: "stress", Keywords: []string{"stressed", "stress", "overwhelmed", "pressure", "anxious"}},
	{Tag: "motivation", Keywords: []string{"motivated", "pumped", "inspired", "energized", "determined"}},
	{Tag: "frustration", Keywords: []string{"frustrated", "annoyed", "stuck", "plateau", "giving up"}},
}

// behavioralCycles are named behaviors with their trigger keywords.
var behavioralCycles = []lexicon.Rule{
	{Tag: "consistency_struggle", Keywords: []string{"skipped", "missed", "couldn't make it", "fell off", "slacking"}},
	{Tag: "motivation_boost", Keywords: []string{"back at it", "new routine", "fresh start", "recommitted"}},
	{Tag: "goal_setting", Keywords: []string{"my goal", "i want to", "planning to", "signed up", "committed to"}},
}

// Identify runs the three pattern scans over the batch and returns the
// concatenated events trimmed to the last MaxEvents. Repeated keyword hits
// across messages produce repeated events; no deduplication is performed.
func Identify(messages []model.Message, now time.Time) []model.PatternEvent {
	var events []model.PatternEvent

	for _, m := range messages {
		text := strings.ToLower(m.Body())
		if text == "" {
			continue
		}
		ts := m.SentAt
		if ts.IsZero() {
			ts = now
		}

		for _, kw := range timeKeywords {
			if lexicon.ContainsWord(text, kw) {
				events = append(events, model.PatternEvent{
					Type: "time", Pattern: kw, Timestamp: ts,
				})
			}
		}
		events = append(events, scanCycles("emotional", emotionalCycles, text, ts)...)
		events = append(events, scanCycles("behavioral", behavioralCycles, text, ts)...)
	}

	if len(events) > MaxEvents {
		events = events[len(events)-MaxEvents:]
	}
	return events
}

func scanCycles(eventType string, cycles []lexicon.Rule, lower string, ts time.Time) []model.PatternEvent {
	var events []model.PatternEvent
	for _, c := range cycles {
		for _, kw := range c.Keywords {
			if lexicon.ContainsWord(lower, kw) {
				events = append(events, model.PatternEvent{
					Type:      eventType,
					Pattern:   c.Tag,
					Keyword:   kw,
					Timestamp: ts,
				})
			}
		}
	}
	return events
}
