package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/coach-memory/internal/model"
)

// SQLiteArchive implements Archive using SQLite.
type SQLiteArchive struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteArchive opens or creates an archive database at the given path.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteArchive{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteArchive) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteArchive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id               TEXT PRIMARY KEY,
		conversation_id  TEXT NOT NULL,
		version          INTEGER NOT NULL DEFAULT 1,
		created_at       TEXT NOT NULL,
		topics           TEXT,
		dominant_emotion TEXT,
		engagement       TEXT,
		message_count    INTEGER NOT NULL DEFAULT 0,
		message_text     TEXT,
		payload          TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_conversation ON snapshots(conversation_id, version DESC);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save archives a processed memory as a new version for its conversation.
func (s *SQLiteArchive) Save(ctx context.Context, mem *model.ConversationMemory) (*Snapshot, error) {
	if mem == nil || mem.ConversationID == "" {
		return nil, fmt.Errorf("save: memory with conversation id required")
	}

	payload, err := json.Marshal(mem)
	if err != nil {
		return nil, fmt.Errorf("marshal memory: %w", err)
	}
	topicsJSON, _ := json.Marshal(mem.Topics)

	// Concatenated message text, kept alongside the payload for search.
	var texts []string
	for _, m := range mem.Messages {
		texts = append(texts, m.Content)
	}
	messageText := strings.Join(texts, "\n")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM snapshots WHERE conversation_id = ? ORDER BY version DESC LIMIT 1`,
		mem.ConversationID).Scan(&prevVersion)
	version := 1
	if err == nil {
		version = prevVersion + 1
	}

	snap := &Snapshot{
		ID:              s.newID(),
		ConversationID:  mem.ConversationID,
		Version:         version,
		CreatedAt:       mem.CreatedAt.UTC(),
		Topics:          mem.Topics,
		DominantEmotion: mem.EmotionalState.Primary,
		Engagement:      mem.Insights.Engagement,
		MessageCount:    mem.Insights.MessageCount,
		Memory:          mem,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, conversation_id, version, created_at, topics, dominant_emotion, engagement, message_count, message_text, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.ConversationID, snap.Version, snap.CreatedAt.Format(time.RFC3339),
		string(topicsJSON), snap.DominantEmotion, snap.Engagement, snap.MessageCount,
		messageText, string(payload))
	if err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Latest returns the most recent snapshot for a conversation, nil if absent.
func (s *SQLiteArchive) Latest(ctx context.Context, conversationID string) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` FROM snapshots s WHERE conversation_id = ? ORDER BY version DESC LIMIT 1`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	snap, err := scanSnapshot(rows)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// List lists snapshots, newest first.
func (s *SQLiteArchive) List(ctx context.Context, p ListParams) ([]Snapshot, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1=1"}
	args := []interface{}{}
	if p.ConversationID != "" {
		where = append(where, "s.conversation_id = ?")
		args = append(args, p.ConversationID)
	}

	query := selectColumns + ` FROM snapshots s WHERE ` + strings.Join(where, " AND ")
	if p.LatestOnly {
		query = selectColumns + ` FROM snapshots s
			INNER JOIN (
				SELECT conversation_id, MAX(version) AS max_ver
				FROM snapshots GROUP BY conversation_id
			) latest ON s.conversation_id = latest.conversation_id AND s.version = latest.max_ver
			WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY s.created_at DESC, s.version DESC LIMIT ?`
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

// Rm removes all snapshots for a conversation.
func (s *SQLiteArchive) Rm(ctx context.Context, conversationID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("conversation not archived: %s", conversationID)
	}
	return nil
}

// ClearAll removes every snapshot.
func (s *SQLiteArchive) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	return err
}

// Close closes the archive.
func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT s.id, s.conversation_id, s.version, s.created_at,
	s.topics, s.dominant_emotion, s.engagement, s.message_count, s.payload`

func (s *SQLiteArchive) query(ctx context.Context, query string, args ...interface{}) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var createdAt, payload string
	var topicsJSON, emotion, engagement sql.NullString

	err := row.Scan(&snap.ID, &snap.ConversationID, &snap.Version, &createdAt,
		&topicsJSON, &emotion, &engagement, &snap.MessageCount, &payload)
	if err != nil {
		return snap, err
	}

	snap.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if topicsJSON.Valid {
		json.Unmarshal([]byte(topicsJSON.String), &snap.Topics)
	}
	if emotion.Valid {
		snap.DominantEmotion = emotion.String
	}
	if engagement.Valid {
		snap.Engagement = engagement.String
	}

	var mem model.ConversationMemory
	if err := json.Unmarshal([]byte(payload), &mem); err != nil {
		return snap, fmt.Errorf("unmarshal payload: %w", err)
	}
	snap.Memory = &mem

	return snap, nil
}
