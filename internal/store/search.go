package store

import (
	"context"
)

// Search finds the latest snapshot of each conversation whose topics or
// archived message text match the query substring.
func (s *SQLiteArchive) Search(ctx context.Context, p SearchParams) ([]Snapshot, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + p.Query + "%"
	sql := selectColumns + ` FROM snapshots s
		INNER JOIN (
			SELECT conversation_id, MAX(version) AS max_ver
			FROM snapshots GROUP BY conversation_id
		) latest ON s.conversation_id = latest.conversation_id AND s.version = latest.max_ver
		WHERE (s.topics LIKE ? OR s.message_text LIKE ?)
		ORDER BY s.created_at DESC
		LIMIT ?`

	return s.query(ctx, sql, query, query, limit)
}
