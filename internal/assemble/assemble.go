package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gocache "github.com/patrickmn/go-cache"

	"github.com/rcliao/coach-memory/internal/model"
)

const (
	// DefaultTTL is how long an assembled context string stays cached.
	DefaultTTL = 5 * time.Minute
	// DefaultSweepThreshold triggers a full expired-entry sweep once the
	// cache grows past it. Pure TTL sweep, not LRU.
	DefaultSweepThreshold = 100
)

// Assembler builds prompt-context strings, memoized in a short-lived TTL cache
// keyed by identity plus a fingerprint of the extracted data.
type Assembler struct {
	cache          *gocache.Cache
	sweepThreshold int
}

// New creates an Assembler. A non-positive ttl or threshold uses the default.
func New(ttl time.Duration, sweepThreshold int) *Assembler {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepThreshold <= 0 {
		sweepThreshold = DefaultSweepThreshold
	}
	// Cleanup interval 0: no janitor goroutine, expiry is checked on read
	// and swept explicitly once the cache exceeds the threshold.
	return &Assembler{
		cache:          gocache.New(ttl, 0),
		sweepThreshold: sweepThreshold,
	}
}

// Fingerprint deterministically serializes extracted data for cache keys.
func Fingerprint(data model.ExtractedData) string {
	b, _ := json.Marshal(data)
	return string(b)
}

// getCachedContext returns the cached string for key if fresh, otherwise
// invokes build, stores the result, and sweeps expired entries when the
// cache has grown past the threshold.
func (a *Assembler) getCachedContext(key string, build func() string) string {
	if v, ok := a.cache.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	s := build()
	a.cache.Set(key, s, gocache.DefaultExpiration)
	if a.cache.ItemCount() > a.sweepThreshold {
		a.cache.DeleteExpired()
	}
	return s
}

// CacheSize returns the number of cached entries, expired included.
func (a *Assembler) CacheSize() int {
	return a.cache.ItemCount()
}

// BuildBasicContext builds the unauthenticated tier: user facts if a profile
// was supplied, last-workout and soreness facts from caller-supplied history,
// and the signal extracted from the current message.
func (a *Assembler) BuildBasicContext(data model.ExtractedData, user *model.UserProfile, lastWorkout *model.WorkoutEntry, sorenessHistory []string) string {
	identity := "anon"
	if user != nil && user.Name != "" {
		identity = user.Name
	}
	key := fmt.Sprintf("basic|%s|%s", identity, Fingerprint(data))
	return a.getCachedContext(key, func() string {
		return basicContext(data, user, lastWorkout, sorenessHistory)
	})
}

func basicContext(data model.ExtractedData, user *model.UserProfile, lastWorkout *model.WorkoutEntry, sorenessHistory []string) string {
	var b strings.Builder
	if user != nil {
		fmt.Fprintf(&b, "User: %s", user.Name)
		if user.FitnessLevel != "" {
			fmt.Fprintf(&b, " (fitness level: %s)", user.FitnessLevel)
		}
		b.WriteString("\n")
		if len(user.Goals) > 0 {
			fmt.Fprintf(&b, "Stated goals: %s\n", strings.Join(user.Goals, ", "))
		}
	}
	if lastWorkout != nil {
		fmt.Fprintf(&b, "Last workout: %s", lastWorkout.Exercise)
		if lastWorkout.Mood != "" {
			fmt.Fprintf(&b, " (mood: %s)", lastWorkout.Mood)
		}
		b.WriteString("\n")
	}
	if len(sorenessHistory) > 0 {
		fmt.Fprintf(&b, "Recent soreness: %s\n", strings.Join(sorenessHistory, ", "))
	}
	writeSignals(&b, data)
	return b.String()
}

func writeSignals(b *strings.Builder, data model.ExtractedData) {
	var signals []string
	if data.Exercise != "" {
		signals = append(signals, "exercise="+data.Exercise)
	}
	if data.Mood != "" {
		signals = append(signals, "mood="+data.Mood)
	}
	if data.Difficulty != "" {
		signals = append(signals, "difficulty="+data.Difficulty)
	}
	if data.Soreness != "" {
		signals = append(signals, "soreness="+data.Soreness)
	}
	if data.TimeContext != "" {
		signals = append(signals, "time="+data.TimeContext)
	}
	if data.EmotionalContext != "" {
		signals = append(signals, "emotion="+data.EmotionalContext)
	}
	if len(signals) > 0 {
		fmt.Fprintf(b, "Current message signals: %s\n", strings.Join(signals, ", "))
	}
}

// BuildEnhancedContextWithMemory builds the authenticated tier: the basic
// facts plus a conversation summary and the memory context folded into
// readable lines.
func (a *Assembler) BuildEnhancedContextWithMemory(data model.ExtractedData, user *model.UserProfile, lastWorkout *model.WorkoutEntry, sorenessHistory []string, convo *model.ConversationMemory, memCtx *model.MemoryContext) string {
	identity := "anon"
	if user != nil && user.Name != "" {
		identity = user.Name
	}
	key := fmt.Sprintf("enhanced|%s|%s", identity, Fingerprint(data))
	return a.getCachedContext(key, func() string {
		var b strings.Builder
		b.WriteString(basicContext(data, user, lastWorkout, sorenessHistory))
		writeConversationSummary(&b, convo)
		writeMemoryInsights(&b, memCtx)
		return b.String()
	})
}

func writeConversationSummary(b *strings.Builder, convo *model.ConversationMemory) {
	if convo == nil {
		return
	}
	fmt.Fprintf(b, "Conversation so far: %d messages", convo.Insights.MessageCount)
	if len(convo.Topics) > 0 {
		fmt.Fprintf(b, ", topics: %s", strings.Join(convo.Topics, ", "))
	}
	fmt.Fprintf(b, " (engagement: %s)\n", convo.Insights.Engagement)
}

func writeMemoryInsights(b *strings.Builder, memCtx *model.MemoryContext) {
	if memCtx == nil {
		return
	}
	if n := len(memCtx.RelevantMemories); n > 0 {
		fmt.Fprintf(b, "Relevant past conversations: %d\n", n)
	}
	if len(memCtx.UserPatterns) > 0 {
		top := memCtx.UserPatterns
		if len(top) > 3 {
			top = top[:3]
		}
		parts := make([]string, len(top))
		for i, p := range top {
			parts[i] = fmt.Sprintf("%s/%s (%dx)", p.Type, p.Pattern, p.Frequency)
		}
		fmt.Fprintf(b, "Recurring patterns: %s\n", strings.Join(parts, ", "))
	}
	if memCtx.EmotionalContext.DominantTrend != "" {
		fmt.Fprintf(b, "Emotional trend: %s\n", memCtx.EmotionalContext.DominantTrend)
	}
	if len(memCtx.Goals) > 0 {
		top := memCtx.Goals
		if len(top) > 2 {
			top = top[:2]
		}
		parts := make([]string, len(top))
		for i, g := range top {
			parts[i] = fmt.Sprintf("%s (%s)", g.Goal, g.State)
		}
		fmt.Fprintf(b, "Tracked goals: %s\n", strings.Join(parts, ", "))
	}
	if len(memCtx.Continuity) > 0 {
		top := memCtx.Continuity
		if len(top) > 2 {
			top = top[:2]
		}
		for _, s := range top {
			fmt.Fprintf(b, "Continuity: %s\n", s.Suggestion)
		}
	}
}
