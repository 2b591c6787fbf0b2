package assemble

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
)

const (
	workoutWindow      = 10
	reflectionWindow   = 20
	sorenessRecurrence = 3
)

// PremiumContext carries the caller-fetched history for the premium tier.
// History is fetched by the caller before invoking the assembler.
type PremiumContext struct {
	User        *model.UserProfile
	LastWorkout *model.WorkoutEntry
	Soreness    []string
	Workouts    []model.WorkoutEntry
	Reflections []model.ReflectionEntry
	Convo       *model.ConversationMemory
	Memory      *model.MemoryContext
}

// BuildPremiumEnhancedPrompt builds the premium tier: the enhanced fields plus
// aggregated workout and reflection history and an optional stretch
// recommendation. Missing history silently degrades to the enhanced fields.
func (a *Assembler) BuildPremiumEnhancedPrompt(message string, data model.ExtractedData, pctx PremiumContext, stretchRecommendation string) string {
	identity := "anon"
	if pctx.User != nil && pctx.User.Name != "" {
		identity = pctx.User.Name
	}
	key := fmt.Sprintf("premium|%s|%s", identity, Fingerprint(data))
	return a.getCachedContext(key, func() string {
		var b strings.Builder
		b.WriteString(basicContext(data, pctx.User, pctx.LastWorkout, pctx.Soreness))
		writeConversationSummary(&b, pctx.Convo)
		writeMemoryInsights(&b, pctx.Memory)
		writeWorkoutHistory(&b, pctx.Workouts)
		writeReflectionThemes(&b, pctx.Reflections)
		if stretchRecommendation != "" {
			fmt.Fprintf(&b, "Stretch recommendation: %s\n", stretchRecommendation)
		}
		fmt.Fprintf(&b, "Current message: %s\n", message)
		return b.String()
	})
}

// writeWorkoutHistory aggregates the last workoutWindow workouts into an
// exercise frequency table, dominant mood, and soreness recurrence flags.
func writeWorkoutHistory(b *strings.Builder, workouts []model.WorkoutEntry) {
	if len(workouts) == 0 {
		return
	}
	if len(workouts) > workoutWindow {
		workouts = workouts[len(workouts)-workoutWindow:]
	}

	exerciseFreq := map[string]int{}
	moodFreq := map[string]int{}
	sorenessFreq := map[string]int{}
	for _, w := range workouts {
		if w.Exercise != "" {
			exerciseFreq[w.Exercise]++
		}
		if w.Mood != "" {
			moodFreq[w.Mood]++
		}
		if w.Soreness != "" {
			sorenessFreq[w.Soreness]++
		}
	}

	fmt.Fprintf(b, "Workout history (last %d): %s\n", len(workouts), freqLine(exerciseFreq))
	if mood := dominantKey(moodFreq); mood != "" {
		fmt.Fprintf(b, "Dominant workout mood: %s\n", mood)
	}
	for _, area := range sortedKeys(sorenessFreq) {
		if sorenessFreq[area] >= sorenessRecurrence {
			fmt.Fprintf(b, "Recurring soreness pattern: %s (%d mentions)\n", area, sorenessFreq[area])
		}
	}
}

// writeReflectionThemes aggregates the last reflectionWindow reflections into
// a theme frequency line using the topic keyword tables.
func writeReflectionThemes(b *strings.Builder, reflections []model.ReflectionEntry) {
	if len(reflections) == 0 {
		return
	}
	if len(reflections) > reflectionWindow {
		reflections = reflections[len(reflections)-reflectionWindow:]
	}

	themeFreq := map[string]int{}
	for _, r := range reflections {
		for _, topic := range lexicon.Topics(r.Content) {
			themeFreq[topic]++
		}
	}
	if len(themeFreq) > 0 {
		fmt.Fprintf(b, "Reflection themes (last %d): %s\n", len(reflections), freqLine(themeFreq))
	}
}

func freqLine(freq map[string]int) string {
	keys := sortedKeys(freq)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s x%d", k, freq[k])
	}
	return strings.Join(parts, ", ")
}

// sortedKeys orders keys by descending count, name ascending on ties.
func sortedKeys(freq map[string]int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func dominantKey(freq map[string]int) string {
	keys := sortedKeys(freq)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
