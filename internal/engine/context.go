package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
	"github.com/rcliao/coach-memory/internal/sentiment"
)

const (
	relevanceThreshold  = 0.5
	maxRelevantMemories = 3
	trendWindow         = 5
)

// GetMemoryContext assembles the read-side view for one incoming message:
// the stored conversation record (absent ids yield empty fields, never an
// error), the cross-conversation aggregates, topically relevant past
// conversations, and continuity suggestions derived from the current
// conversation only.
func (e *Engine) GetMemoryContext(conversationID, currentMessage string) model.MemoryContext {
	currentTopics := lexicon.Topics(currentMessage)

	e.mu.Lock()
	defer e.mu.Unlock()

	mem := e.conversations[conversationID]
	if mem != nil {
		e.touchLocked(conversationID)
	}

	return model.MemoryContext{
		ConversationID:   conversationID,
		History:          mem,
		UserPatterns:     e.userPatternsLocked(),
		EmotionalContext: e.emotionalContextLocked(),
		Goals:            e.goalContextLocked(),
		RelevantMemories: e.relevantMemoriesLocked(currentTopics),
		Continuity:       generateContinuitySuggestions(mem),
	}
}

// Relevance scores topical overlap between two topic sets: intersection size
// over the larger set, 0 when either set is empty. Always in [0, 1].
func Relevance(current, past []string) float64 {
	if len(current) == 0 || len(past) == 0 {
		return 0
	}
	shared := intersect(current, past)
	max := len(current)
	if len(past) > max {
		max = len(past)
	}
	return sentiment.Clamp(float64(len(shared))/float64(max), 0, 1)
}

// AssessGoalProgress derives a goal's progress state from its mention
// timestamps. Fewer than two mentions is "new"; otherwise the span between
// the earliest and latest of the last three mentions decides:
// under 7 days "active", under 30 days "ongoing", else "stale".
func AssessGoalProgress(mentions []model.GoalMention) string {
	if len(mentions) < 2 {
		return "new"
	}
	recent := mentions
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	earliest, latest := recent[0].Timestamp, recent[0].Timestamp
	for _, m := range recent[1:] {
		if m.Timestamp.Before(earliest) {
			earliest = m.Timestamp
		}
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	span := latest.Sub(earliest)
	switch {
	case span < 7*24*time.Hour:
		return "active"
	case span < 30*24*time.Hour:
		return "ongoing"
	default:
		return "stale"
	}
}

func (e *Engine) userPatternsLocked() []model.UserPattern {
	patterns := make([]model.UserPattern, 0, len(e.patternCache))
	for key, events := range e.patternCache {
		if len(events) == 0 {
			continue
		}
		typ, name, _ := strings.Cut(key, ":")
		patterns = append(patterns, model.UserPattern{
			Type:      typ,
			Pattern:   name,
			Frequency: len(events),
			LastSeen:  events[len(events)-1].Timestamp,
		})
	}
	// Frequency-sorted; pattern name breaks ties so map order never leaks.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		return patterns[i].Pattern < patterns[j].Pattern
	})
	return patterns
}

func (e *Engine) emotionalContextLocked() model.EmotionalContext {
	recent := e.emotionalHistory
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}
	var pos, neg, neu int
	for _, s := range recent {
		switch s.Primary {
		case "positive":
			pos++
		case "negative":
			neg++
		default:
			neu++
		}
	}
	dominant := "neutral"
	switch {
	case pos > neg && pos > neu:
		dominant = "positive"
	case neg > pos && neg > neu:
		dominant = "negative"
	}
	out := make([]model.EmotionalState, len(recent))
	copy(out, recent)
	return model.EmotionalContext{DominantTrend: dominant, Recent: out}
}

func (e *Engine) goalContextLocked() []model.GoalProgress {
	goals := make([]model.GoalProgress, 0, len(e.goalTracker))
	for key, mentions := range e.goalTracker {
		if len(mentions) == 0 {
			continue
		}
		goals = append(goals, model.GoalProgress{
			Goal:          key,
			State:         AssessGoalProgress(mentions),
			Mentions:      len(mentions),
			LastMentioned: mentions[len(mentions)-1].Timestamp,
		})
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].LastMentioned.Equal(goals[j].LastMentioned) {
			return goals[i].LastMentioned.After(goals[j].LastMentioned)
		}
		return goals[i].Goal < goals[j].Goal
	})
	return goals
}

func (e *Engine) relevantMemoriesLocked(currentTopics []string) []model.RelevantMemory {
	var relevant []model.RelevantMemory
	for id, mem := range e.conversations {
		score := Relevance(currentTopics, mem.Topics)
		if score <= relevanceThreshold {
			continue
		}
		relevant = append(relevant, model.RelevantMemory{
			ConversationID: id,
			Relevance:      score,
			Topics:         mem.Topics,
			SharedTopics:   intersect(currentTopics, mem.Topics),
		})
	}
	sort.Slice(relevant, func(i, j int) bool {
		if relevant[i].Relevance != relevant[j].Relevance {
			return relevant[i].Relevance > relevant[j].Relevance
		}
		return relevant[i].ConversationID < relevant[j].ConversationID
	})
	if len(relevant) > maxRelevantMemories {
		relevant = relevant[:maxRelevantMemories]
	}
	return relevant
}

// generateContinuitySuggestions derives up to three suggestions from the
// current conversation's memory: goal continuity (0.8), emotional continuity
// when the dominant emotion is not neutral (0.7), and pattern continuity
// (0.6), sorted descending by relevance. A nil memory yields none.
func generateContinuitySuggestions(mem *model.ConversationMemory) []model.ContinuitySuggestion {
	if mem == nil {
		return nil
	}
	var suggestions []model.ContinuitySuggestion

	if len(mem.Goals) > 0 {
		latest := mem.Goals[len(mem.Goals)-1]
		suggestions = append(suggestions, model.ContinuitySuggestion{
			Type:       "goal_continuity",
			Suggestion: fmt.Sprintf("User previously mentioned the goal %q; ask how it is going", latest.Goal),
			Relevance:  0.8,
		})
	}
	if mem.EmotionalState.Primary != "" && mem.EmotionalState.Primary != "neutral" {
		suggestions = append(suggestions, model.ContinuitySuggestion{
			Type:       "emotional_continuity",
			Suggestion: fmt.Sprintf("The conversation has been %s; acknowledge that tone", mem.EmotionalState.Primary),
			Relevance:  0.7,
		})
	}
	if len(mem.Patterns) > 0 {
		latest := mem.Patterns[len(mem.Patterns)-1]
		suggestions = append(suggestions, model.ContinuitySuggestion{
			Type:       "pattern_continuity",
			Suggestion: fmt.Sprintf("A recurring %s pattern (%s) came up; consider referencing it", latest.Type, latest.Pattern),
			Relevance:  0.6,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Relevance > suggestions[j].Relevance
	})
	return suggestions
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, t := range b {
		set[t] = true
	}
	var shared []string
	for _, t := range a {
		if set[t] {
			shared = append(shared, t)
			set[t] = false
		}
	}
	return shared
}
