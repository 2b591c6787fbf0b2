package store

import (
	"context"
)

// ExportAll returns every snapshot, all versions included, ordered by
// conversation then version.
func (s *SQLiteArchive) ExportAll(ctx context.Context) ([]Snapshot, error) {
	return s.query(ctx, selectColumns+` FROM snapshots s ORDER BY s.conversation_id, s.version`)
}

// Import archives memories from an export. Each imported record gets a fresh
// version number in this archive.
func (s *SQLiteArchive) Import(ctx context.Context, snaps []Snapshot) (int, error) {
	imported := 0
	for _, snap := range snaps {
		if snap.Memory == nil {
			continue
		}
		if _, err := s.Save(ctx, snap.Memory); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
