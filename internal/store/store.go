// Package store provides the snapshot archive: durable, versioned copies of
// processed conversation memories. The engine itself is pure in-memory; the
// caller (the CLI here) archives each processed record and rehydrates fresh
// engine instances from the archive.
package store

import (
	"context"
	"time"

	"github.com/rcliao/coach-memory/internal/model"
)

// Snapshot is one archived conversation memory record.
type Snapshot struct {
	ID              string                    `json:"id"`
	ConversationID  string                    `json:"conversation_id"`
	Version         int                       `json:"version"`
	CreatedAt       time.Time                 `json:"created_at"`
	Topics          []string                  `json:"topics,omitempty"`
	DominantEmotion string                    `json:"dominant_emotion,omitempty"`
	Engagement      string                    `json:"engagement,omitempty"`
	MessageCount    int                       `json:"message_count"`
	Memory          *model.ConversationMemory `json:"memory,omitempty"`
}

// ListParams filters snapshot listing.
type ListParams struct {
	ConversationID string
	Limit          int
	LatestOnly     bool
}

// SearchParams filters snapshot search.
type SearchParams struct {
	Query string // matched against topics and archived message text
	Limit int
}

// Archive is the snapshot storage interface.
type Archive interface {
	// Save archives a processed memory as a new version for its conversation.
	Save(ctx context.Context, mem *model.ConversationMemory) (*Snapshot, error)

	// Latest returns the most recent snapshot for a conversation, or nil if
	// the conversation was never archived.
	Latest(ctx context.Context, conversationID string) (*Snapshot, error)

	// List lists snapshots, newest first.
	List(ctx context.Context, p ListParams) ([]Snapshot, error)

	// Search finds snapshots whose topics or message text match the query.
	Search(ctx context.Context, p SearchParams) ([]Snapshot, error)

	// Rm removes all snapshots for a conversation.
	Rm(ctx context.Context, conversationID string) error

	// Close closes the archive.
	Close() error
}
