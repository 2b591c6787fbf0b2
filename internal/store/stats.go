package store

import (
	"context"
	"os"
)

// Stats holds archive statistics.
type Stats struct {
	DBPath         string              `json:"db_path"`
	DBSizeBytes    int64               `json:"db_size_bytes"`
	TotalSnapshots int                 `json:"total_snapshots"`
	Conversations  []ConversationStats `json:"conversations"`
}

// ConversationStats holds per-conversation snapshot counts.
type ConversationStats struct {
	ConversationID string `json:"conversation_id"`
	Snapshots      int    `json:"snapshots"`
	LatestVersion  int    `json:"latest_version"`
}

// Stats returns archive statistics.
func (s *SQLiteArchive) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&st.TotalSnapshots)

	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, COUNT(*) AS cnt, MAX(version) AS latest
		FROM snapshots
		GROUP BY conversation_id ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs ConversationStats
		rows.Scan(&cs.ConversationID, &cs.Snapshots, &cs.LatestVersion)
		st.Conversations = append(st.Conversations, cs)
	}

	return st, nil
}
