// Package lexicon provides the fixed keyword tables and pure text classifiers
// used by the memory engine. Matching is case-insensitive with word boundaries.
// Tables are ordered slices, not maps: rules are evaluated in declaration order
// and the first hit wins, so overlapping keywords resolve deterministically.
package lexicon

import "strings"

// Rule pairs a tag with the keywords that trigger it.
type Rule struct {
	Tag      string
	Keywords []string
}

// ExerciseRules maps exercise families to their trigger keywords.
var ExerciseRules = []Rule{
	{"running", []string{"run", "running", "jog", "jogging", "marathon", "sprint", "5k", "10k"}},
	{"walking", []string{"walk", "walking", "hike", "hiking", "steps"}},
	{"cycling", []string{"bike", "biking", "cycling", "spin", "spinning"}},
	{"swimming", []string{"swim", "swimming", "laps", "pool"}},
	{"strength", []string{"lift", "lifting", "weights", "squat", "squats", "deadlift", "bench", "strength"}},
	{"yoga", []string{"yoga", "pilates"}},
	{"stretching", []string{"stretch", "stretching", "mobility", "foam roll"}},
	{"hiit", []string{"hiit", "interval", "intervals", "circuit"}},
	{"cardio", []string{"cardio", "treadmill", "elliptical", "rowing"}},
}

// DifficultyRules buckets difficulty adjectives by tone.
var DifficultyRules = []Rule{
	{"positive", []string{"easy", "smooth", "comfortable", "effortless", "light"}},
	{"challenging", []string{"hard", "tough", "difficult", "challenging", "brutal", "intense", "exhausting", "grueling"}},
	{"neutral", []string{"okay", "ok", "fine", "moderate", "manageable", "decent"}},
	{"negative", []string{"impossible", "awful", "terrible", "miserable", "painful"}},
}

// SorenessAreas are the body areas scanned for soreness mentions.
var SorenessAreas = []string{
	"lower back", "back", "shoulders", "shoulder", "neck", "knees", "knee",
	"legs", "quads", "hamstrings", "calves", "arms", "chest", "hips",
	"glutes", "ankles", "wrists",
}

// MoodRules buckets mood keywords.
var MoodRules = []Rule{
	{"positive", []string{"happy", "great", "energized", "motivated", "excited", "amazing", "fantastic", "strong", "confident", "proud"}},
	{"neutral", []string{"okay", "ok", "fine", "alright", "meh", "normal"}},
	{"negative", []string{"tired", "sad", "stressed", "anxious", "frustrated", "exhausted", "unmotivated", "down", "overwhelmed", "drained"}},
	{"recovery", []string{"resting", "recovering", "recovery", "rest day", "taking it easy"}},
}

// TimeRules buckets time references.
var TimeRules = []Rule{
	{"immediate", []string{"right now", "now", "today", "tonight", "this morning", "this evening"}},
	{"recent", []string{"yesterday", "this week", "recently", "last night", "the other day"}},
	{"past", []string{"last week", "last month", "ago", "back then", "used to"}},
	{"ongoing", []string{"always", "every day", "everyday", "usually", "often", "lately", "these days", "consistently"}},
}

// TopicRules maps conversation topics to their trigger keywords.
var TopicRules = []Rule{
	{"workout", []string{"workout", "exercise", "training", "gym", "session", "reps"}},
	{"nutrition", []string{"eat", "eating", "diet", "nutrition", "protein", "meal", "food", "calories"}},
	{"sleep", []string{"sleep", "sleeping", "insomnia", "slept", "bedtime"}},
	{"motivation", []string{"motivation", "motivated", "unmotivated", "discipline", "habit", "willpower"}},
	{"goals", []string{"goal", "goals", "target", "milestone", "aiming"}},
	{"stress", []string{"stress", "stressed", "anxiety", "anxious", "pressure", "deadline"}},
	{"recovery", []string{"sore", "soreness", "recovery", "injury", "injured", "pain", "ache", "rest"}},
	{"progress", []string{"progress", "improvement", "improving", "stronger", "faster", "gains", "personal best"}},
}

// PositiveWords and NegativeWords drive sentiment scoring.
var PositiveWords = []string{
	"great", "good", "happy", "amazing", "awesome", "love", "proud", "excited",
	"fantastic", "strong", "better", "energized", "accomplished", "motivated", "wonderful",
}

var NegativeWords = []string{
	"bad", "tired", "sad", "stressed", "awful", "terrible", "hate", "frustrated",
	"anxious", "exhausted", "worse", "hurt", "pain", "unmotivated", "overwhelmed", "sore",
}

// NeutralWords mark explicitly neutral emotional signal.
var NeutralWords = []string{"okay", "ok", "fine", "alright", "normal", "average", "regular"}

// AchievementWords mark success moments worth remembering.
var AchievementWords = []string{
	"finally", "achieved", "accomplished", "proud", "personal best", "milestone",
	"first time", "new record", "breakthrough", "nailed it",
}

// Exercise returns the first matching exercise family, or "" if none.
func Exercise(text string) string {
	return matchRules(ExerciseRules, text)
}

// Difficulty returns the first matching difficulty adjective, or "" if none.
func Difficulty(text string) string {
	t := strings.ToLower(text)
	for _, r := range DifficultyRules {
		for _, kw := range r.Keywords {
			if ContainsWord(t, kw) {
				return kw
			}
		}
	}
	return ""
}

// DifficultyTone returns the tone bucket of the first matching difficulty
// adjective: positive, challenging, neutral, or negative. "" if none.
func DifficultyTone(text string) string {
	return matchRules(DifficultyRules, text)
}

// Soreness returns every body area mentioned in the text, in table order.
// Overlapping areas ("lower back" vs "back") report the more specific one first
// and suppress the substring duplicate.
func Soreness(text string) []string {
	t := strings.ToLower(text)
	var areas []string
	for _, area := range SorenessAreas {
		if !ContainsWord(t, area) {
			continue
		}
		covered := false
		for _, seen := range areas {
			if strings.Contains(seen, area) {
				covered = true
				break
			}
		}
		if !covered {
			areas = append(areas, area)
		}
	}
	return areas
}

// Mood returns the mood bucket for the text, defaulting to "neutral".
func Mood(text string) string {
	if tag := matchRules(MoodRules, text); tag != "" {
		return tag
	}
	return "neutral"
}

// TimeReference returns the time bucket for the text, or "" if none.
func TimeReference(text string) string {
	return matchRules(TimeRules, text)
}

// Topics returns every topic whose keywords appear in the text, in table order.
func Topics(text string) []string {
	t := strings.ToLower(text)
	var topics []string
	for _, r := range TopicRules {
		for _, kw := range r.Keywords {
			if ContainsWord(t, kw) {
				topics = append(topics, r.Tag)
				break
			}
		}
	}
	return topics
}

// EmotionalCategory classifies a message into the coarse positive, negative, or
// neutral category. Evaluation order is positive, negative, neutral; the
// category with the most keyword hits wins and earlier categories win ties.
func EmotionalCategory(text string) string {
	t := strings.ToLower(text)
	pos := countAny(t, PositiveWords)
	neg := countAny(t, NegativeWords)
	neu := countAny(t, NeutralWords)

	best, tag := pos, "positive"
	if neg > best {
		best, tag = neg, "negative"
	}
	if neu > best {
		best, tag = neu, "neutral"
	}
	if best == 0 {
		return "neutral"
	}
	return tag
}

// CountSentiment returns the number of positive and negative keyword
// occurrences in the text, counting duplicates.
func CountSentiment(text string) (pos, neg int) {
	t := strings.ToLower(text)
	return countAny(t, PositiveWords), countAny(t, NegativeWords)
}

// HasAchievement reports whether the text contains an achievement keyword.
func HasAchievement(text string) bool {
	t := strings.ToLower(text)
	for _, kw := range AchievementWords {
		if ContainsWord(t, kw) {
			return true
		}
	}
	return false
}

func matchRules(rules []Rule, text string) string {
	t := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if ContainsWord(t, kw) {
				return r.Tag
			}
		}
	}
	return ""
}

func countAny(lower string, words []string) int {
	n := 0
	for _, w := range words {
		n += CountWord(lower, w)
	}
	return n
}

// ContainsWord reports whether kw occurs in lower with word boundaries on both
// sides. lower must already be lowercased.
func ContainsWord(lower, kw string) bool {
	return CountWord(lower, kw) > 0
}

// CountWord counts word-boundary occurrences of kw in lower, duplicates
// included. lower must already be lowercased.
func CountWord(lower, kw string) int {
	if lower == "" || kw == "" {
		return 0
	}
	count := 0
	for i := 0; i+len(kw) <= len(lower); {
		j := strings.Index(lower[i:], kw)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(kw)
		if boundary(lower, start, end) {
			count++
		}
		i = end
	}
	return count
}

func boundary(s string, start, end int) bool {
	if start > 0 && isWordChar(s[start-1]) {
		return false
	}
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
