// Package model defines the core conversational memory data types.
package model

import "time"

// Message is a raw transcript message as supplied by the caller.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	Text    string    `json:"text,omitempty"` // legacy field name, used when Content is empty
	SentAt  time.Time `json:"sent_at,omitempty"`
}

// Body returns the message text, tolerating the legacy field name.
// Malformed messages degrade to an empty string rather than erroring.
func (m Message) Body() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Text
}

// KeyMessage is a retained message inside a ConversationMemory.
type KeyMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// EmotionalState is the per-batch emotional classification.
type EmotionalState struct {
	Primary       string  `json:"primary"` // positive | negative | neutral
	Confidence    float64 `json:"confidence"`
	TotalMessages int     `json:"total_messages"`
}

// GoalMention is one extracted goal statement.
type GoalMention struct {
	Goal      string    `json:"goal"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"` // role of the message the goal came from
}

// PatternEvent is one detected time/emotional/behavioral pattern hit.
type PatternEvent struct {
	Type      string    `json:"type"` // time | emotional | behavioral
	Pattern   string    `json:"pattern"`
	Keyword   string    `json:"keyword,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationInsights summarizes a processed conversation.
type ConversationInsights struct {
	MessageCount     int     `json:"message_count"`
	AvgMessageLength float64 `json:"avg_message_length"`
	TopicDiversity   int     `json:"topic_diversity"`
	Engagement       string  `json:"engagement"` // low | medium | high
	DominantEmotion  string  `json:"dominant_emotion"`
	EmotionalTrend   string  `json:"emotional_trend"` // improving | declining | stable
}

// ConversationMemory is the full recomputed record for one conversation id.
// Each process call replaces the prior record wholesale; there is no merge.
type ConversationMemory struct {
	ConversationID string               `json:"conversation_id"`
	CreatedAt      time.Time            `json:"created_at"`
	Messages       []KeyMessage         `json:"messages"`
	EmotionalState EmotionalState       `json:"emotional_state"`
	Topics         []string             `json:"topics"`
	Goals          []GoalMention        `json:"goals"`
	Patterns       []PatternEvent       `json:"patterns"`
	Insights       ConversationInsights `json:"insights"`
}

// ContinuitySuggestion is a generated hint to reference a past goal, emotion,
// or pattern. Derived fresh per call, never persisted.
type ContinuitySuggestion struct {
	Type       string  `json:"type"` // goal_continuity | emotional_continuity | pattern_continuity
	Suggestion string  `json:"suggestion"`
	Relevance  float64 `json:"relevance"`
}

// RelevantMemory is a past conversation scored against the current message.
type RelevantMemory struct {
	ConversationID string   `json:"conversation_id"`
	Relevance      float64  `json:"relevance"`
	Topics         []string `json:"topics"`
	SharedTopics   []string `json:"shared_topics"`
}

// UserPattern is a cross-conversation pattern aggregate.
type UserPattern struct {
	Type      string    `json:"type"`
	Pattern   string    `json:"pattern"`
	Frequency int       `json:"frequency"`
	LastSeen  time.Time `json:"last_seen"`
}

// GoalProgress is the progress state of one tracked goal.
type GoalProgress struct {
	Goal          string    `json:"goal"`
	State         string    `json:"state"` // new | active | ongoing | stale
	Mentions      int       `json:"mentions"`
	LastMentioned time.Time `json:"last_mentioned"`
}

// EmotionalContext is the cross-conversation emotional summary.
type EmotionalContext struct {
	DominantTrend string           `json:"dominant_trend"` // positive | negative | neutral
	Recent        []EmotionalState `json:"recent"`
}

// MemoryContext is the full read-side view assembled for one incoming message.
type MemoryContext struct {
	ConversationID   string                 `json:"conversation_id"`
	History          *ConversationMemory    `json:"history,omitempty"`
	UserPatterns     []UserPattern          `json:"user_patterns"`
	EmotionalContext EmotionalContext       `json:"emotional_context"`
	Goals            []GoalProgress         `json:"goals"`
	RelevantMemories []RelevantMemory       `json:"relevant_memories"`
	Continuity       []ContinuitySuggestion `json:"continuity"`
}
