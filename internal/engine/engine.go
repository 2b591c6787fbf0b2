// Package engine implements the conversational memory engine: per-conversation
// bounded memory records plus the cross-conversation aggregates (pattern cache,
// emotional history, goal tracker, success moments) that feed context synthesis.
//
// All state lives on the Engine instance so callers own the lifecycle and can
// isolate tenants by constructing one engine each. A single mutex guards the
// maps; every operation is a short in-memory read-modify-write.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
	"github.com/rcliao/coach-memory/internal/pattern"
	"github.com/rcliao/coach-memory/internal/sentiment"
)

// Limits are the caps applied to every bounded collection. Insertion trims
// from the front (oldest) whenever a cap is exceeded.
type Limits struct {
	KeyMessages      int `yaml:"key_messages"`
	MinMessageLength int `yaml:"min_message_length"`
	Goals            int `yaml:"goals"`
	EmotionalHistory int `yaml:"emotional_history"`
	SuccessMoments   int `yaml:"success_moments"`
	GoalMentions     int `yaml:"goal_mentions"`
	PatternHits      int `yaml:"pattern_hits"`
	Conversations    int `yaml:"conversations"`
}

// DefaultLimits returns the standard caps.
func DefaultLimits() Limits {
	return Limits{
		KeyMessages:      20,
		MinMessageLength: 10,
		Goals:            15,
		EmotionalHistory: 10,
		SuccessMoments:   8,
		GoalMentions:     20,
		PatternHits:      10,
		Conversations:    1000,
	}
}

// Engine holds all conversational memory state for one tenant.
type Engine struct {
	mu     sync.Mutex
	limits Limits
	now    func() time.Time
	logger *log.Logger

	conversations map[string]*model.ConversationMemory
	recency       []string // conversation ids, least-recently-touched first

	emotionalHistory []model.EmotionalState
	goalTracker      map[string][]model.GoalMention
	patternCache     map[string][]model.PatternEvent
	successMoments   []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithLimits overrides the default caps. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		d := DefaultLimits()
		if l.KeyMessages > 0 {
			d.KeyMessages = l.KeyMessages
		}
		if l.MinMessageLength > 0 {
			d.MinMessageLength = l.MinMessageLength
		}
		if l.Goals > 0 {
			d.Goals = l.Goals
		}
		if l.EmotionalHistory > 0 {
			d.EmotionalHistory = l.EmotionalHistory
		}
		if l.SuccessMoments > 0 {
			d.SuccessMoments = l.SuccessMoments
		}
		if l.GoalMentions > 0 {
			d.GoalMentions = l.GoalMentions
		}
		if l.PatternHits > 0 {
			d.PatternHits = l.PatternHits
		}
		if l.Conversations > 0 {
			d.Conversations = l.Conversations
		}
		e.limits = d
	}
}

// New constructs an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		limits:        DefaultLimits(),
		now:           time.Now,
		logger:        log.Default(),
		conversations: make(map[string]*model.ConversationMemory),
		goalTracker:   make(map[string][]model.GoalMention),
		patternCache:  make(map[string][]model.PatternEvent),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessConversationMemory recomputes the memory record for the conversation
// from the full message batch and stores it, replacing any prior record for
// that id. The record's components are then folded into the engine-wide
// aggregates. The computed record is returned.
func (e *Engine) ProcessConversationMemory(conversationID string, messages []model.Message, user *model.UserProfile) *model.ConversationMemory {
	now := e.now()
	state := sentiment.AnalyzeEmotionalState(messages)
	topics := collectTopics(messages)
	goals := e.extractGoals(messages, now)
	patterns := pattern.Identify(messages, now)

	mem := &model.ConversationMemory{
		ConversationID: conversationID,
		CreatedAt:      now,
		Messages:       e.extractKeyMessages(messages, now),
		EmotionalState: state,
		Topics:         topics,
		Goals:          goals,
		Patterns:       patterns,
		Insights:       buildInsights(messages, topics, state, sentiment.Trend(messages)),
	}

	bodies := make([]string, 0, len(messages))
	for _, m := range messages {
		bodies = append(bodies, m.Body())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.conversations[conversationID]; !exists && user != nil && user.Name != "" {
		e.logger.Debug("new conversation memory", "conversation", conversationID, "user", user.Name)
	}
	e.storeLocked(mem, bodies)
	return mem
}

// Restore inserts an already-computed memory record, folding its components
// into the engine-wide aggregates. Used to rehydrate an engine from archived
// snapshots; the record is not recomputed.
func (e *Engine) Restore(mem *model.ConversationMemory) {
	if mem == nil {
		return
	}
	bodies := make([]string, 0, len(mem.Messages))
	for _, m := range mem.Messages {
		bodies = append(bodies, m.Content)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.storeLocked(mem, bodies)
}

// storeLocked replaces the conversation record and folds its components into
// the aggregates. Aggregates accumulate across calls, bounded by their caps;
// conversation-scoped fields are replaced wholesale.
func (e *Engine) storeLocked(mem *model.ConversationMemory, bodies []string) {
	e.conversations[mem.ConversationID] = mem
	e.touchLocked(mem.ConversationID)
	e.evictLocked()

	e.emotionalHistory = append(e.emotionalHistory, mem.EmotionalState)
	e.emotionalHistory = trimFront(e.emotionalHistory, e.limits.EmotionalHistory)

	for _, g := range mem.Goals {
		key := NormalizeGoal(g.Goal)
		e.goalTracker[key] = trimFront(append(e.goalTracker[key], g), e.limits.GoalMentions)
	}

	for _, p := range mem.Patterns {
		key := fmt.Sprintf("%s:%s", p.Type, p.Pattern)
		e.patternCache[key] = trimFront(append(e.patternCache[key], p), e.limits.PatternHits)
	}

	for _, body := range bodies {
		if lexicon.HasAchievement(body) {
			e.successMoments = append(e.successMoments, body)
		}
	}
	e.successMoments = trimFront(e.successMoments, e.limits.SuccessMoments)
}

// ClearConversationMemory removes the record for one conversation id.
func (e *Engine) ClearConversationMemory(conversationID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.conversations, conversationID)
	e.recency = lo.Without(e.recency, conversationID)
}

// ClearAllMemory resets the engine to its empty state.
func (e *Engine) ClearAllMemory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.conversations = make(map[string]*model.ConversationMemory)
	e.recency = nil
	e.emotionalHistory = nil
	e.goalTracker = make(map[string][]model.GoalMention)
	e.patternCache = make(map[string][]model.PatternEvent)
	e.successMoments = nil
}

// Stats are diagnostic counts of the engine's internal structures.
type Stats struct {
	Conversations    int `json:"conversations"`
	EmotionalHistory int `json:"emotional_history"`
	TrackedGoals     int `json:"tracked_goals"`
	CachedPatterns   int `json:"cached_patterns"`
	SuccessMoments   int `json:"success_moments"`
}

// GetMemoryStats returns diagnostic counts.
func (e *Engine) GetMemoryStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Conversations:    len(e.conversations),
		EmotionalHistory: len(e.emotionalHistory),
		TrackedGoals:     len(e.goalTracker),
		CachedPatterns:   len(e.patternCache),
		SuccessMoments:   len(e.successMoments),
	}
}

// extractKeyMessages keeps messages whose body meets the minimum length,
// bounded to the most recent KeyMessages entries.
func (e *Engine) extractKeyMessages(messages []model.Message, now time.Time) []model.KeyMessage {
	var keep []model.KeyMessage
	for _, m := range messages {
		body := m.Body()
		if len(body) < e.limits.MinMessageLength {
			continue
		}
		ts := m.SentAt
		if ts.IsZero() {
			ts = now
		}
		keep = append(keep, model.KeyMessage{Role: m.Role, Content: body, Timestamp: ts})
	}
	return trimFront(keep, e.limits.KeyMessages)
}

// goalMarkers are scanned in order; the remainder of the sentence after the
// marker is the goal text.
var goalMarkers = []string{"my goal is to ", "i want to "}

func (e *Engine) extractGoals(messages []model.Message, now time.Time) []model.GoalMention {
	var goals []model.GoalMention
	for _, m := range messages {
		body := m.Body()
		lower := strings.ToLower(body)
		ts := m.SentAt
		if ts.IsZero() {
			ts = now
		}
		for _, marker := range goalMarkers {
			idx := 0
			for {
				j := strings.Index(lower[idx:], marker)
				if j < 0 {
					break
				}
				start := idx + j + len(marker)
				goal := sentenceRemainder(body[start:])
				if goal != "" {
					goals = append(goals, model.GoalMention{Goal: goal, Timestamp: ts, Source: m.Role})
				}
				idx = start
			}
		}
	}
	return trimFront(goals, e.limits.Goals)
}

// sentenceRemainder returns text up to the first sentence terminator.
func sentenceRemainder(s string) string {
	end := len(s)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?', '\n', ',':
			end = i
		}
		if end != len(s) {
			break
		}
	}
	return strings.TrimSpace(s[:end])
}

// NormalizeGoal canonicalizes goal text for tracker keys.
func NormalizeGoal(goal string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(goal))), " ")
}

func collectTopics(messages []model.Message) []string {
	var topics []string
	for _, m := range messages {
		topics = append(topics, lexicon.Topics(m.Body())...)
	}
	return lo.Uniq(topics)
}

func buildInsights(messages []model.Message, topics []string, state model.EmotionalState, trend string) model.ConversationInsights {
	var totalLen int
	for _, m := range messages {
		totalLen += len(m.Body())
	}
	avg := 0.0
	if len(messages) > 0 {
		avg = float64(totalLen) / float64(len(messages))
	}

	engagement := "low"
	switch {
	case avg > 80 || len(topics) > 4:
		engagement = "high"
	case avg > 40 || len(topics) > 2:
		engagement = "medium"
	}

	return model.ConversationInsights{
		MessageCount:     len(messages),
		AvgMessageLength: avg,
		TopicDiversity:   len(topics),
		Engagement:       engagement,
		DominantEmotion:  state.Primary,
		EmotionalTrend:   trend,
	}
}

// touchLocked marks the conversation as most recently used.
func (e *Engine) touchLocked(conversationID string) {
	e.recency = append(lo.Without(e.recency, conversationID), conversationID)
}

// evictLocked drops least-recently-touched conversations over the cap.
func (e *Engine) evictLocked() {
	for len(e.conversations) > e.limits.Conversations && len(e.recency) > 0 {
		oldest := e.recency[0]
		e.recency = e.recency[1:]
		delete(e.conversations, oldest)
		e.logger.Debug("evicted conversation memory", "conversation", oldest)
	}
}

// trimFront bounds a slice to its last max entries.
func trimFront[T any](s []T, max int) []T {
	if max > 0 && len(s) > max {
		return s[len(s)-max:]
	}
	return s
}
