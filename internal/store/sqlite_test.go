package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/coach-memory/internal/model"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteArchive(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testMemory(conversationID string, topics ...string) *model.ConversationMemory {
	return &model.ConversationMemory{
		ConversationID: conversationID,
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Messages: []model.KeyMessage{
			{Role: "user", Content: "a long enough workout message", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		},
		EmotionalState: model.EmotionalState{Primary: "positive", Confidence: 0.6, TotalMessages: 1},
		Topics:         topics,
		Insights:       model.ConversationInsights{MessageCount: 1, Engagement: "medium"},
	}
}

func TestSaveAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	snap, err := s.Save(ctx, testMemory("c1", "workout"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("expected version 1, got %d", snap.Version)
	}
	if snap.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.Latest(ctx, "c1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if got.Memory == nil || got.Memory.ConversationID != "c1" {
		t.Errorf("payload round-trip failed: %+v", got.Memory)
	}
	if got.DominantEmotion != "positive" {
		t.Errorf("expected dominant emotion positive, got %q", got.DominantEmotion)
	}
}

func TestSaveVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout"))
	snap, _ := s.Save(ctx, testMemory("c1", "workout", "stress"))

	if snap.Version != 2 {
		t.Errorf("expected version 2, got %d", snap.Version)
	}

	got, _ := s.Latest(ctx, "c1")
	if got.Version != 2 {
		t.Errorf("latest should be version 2, got %d", got.Version)
	}
	if len(got.Topics) != 2 {
		t.Errorf("expected 2 topics, got %v", got.Topics)
	}
}

func TestLatestUnknownConversation(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	got, err := s.Latest(ctx, "nope")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown conversation, got %+v", got)
	}
}

func TestListLatestOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c2", "sleep"))

	all, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(all))
	}

	latest, err := s.List(ctx, ListParams{LatestOnly: true})
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(latest) != 2 {
		t.Errorf("expected 2 latest snapshots, got %d", len(latest))
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout", "stress"))
	s.Save(ctx, testMemory("c2", "sleep"))

	results, err := s.Search(ctx, SearchParams{Query: "stress"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ConversationID != "c1" {
		t.Errorf("expected c1, got %s", results[0].ConversationID)
	}

	// Message text is searchable too.
	results, err = s.Search(ctx, SearchParams{Query: "workout message"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results on message text, got %d", len(results))
	}
}

func TestRm(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c1", "workout"))

	if err := s.Rm(ctx, "c1"); err != nil {
		t.Fatalf("rm: %v", err)
	}
	got, _ := s.Latest(ctx, "c1")
	if got != nil {
		t.Error("expected conversation to be gone")
	}

	if err := s.Rm(ctx, "c1"); err == nil {
		t.Error("expected error removing unknown conversation")
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c2", "sleep"))

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	all, _ := s.List(ctx, ListParams{})
	if len(all) != 0 {
		t.Errorf("expected empty archive, got %d", len(all))
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	s := newTestArchive(t)

	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c2", "sleep"))

	snaps, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}

	dest := newTestArchive(t)
	n, err := dest.Import(ctx, snaps)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	got, _ := dest.Latest(ctx, "c1")
	if got == nil {
		t.Fatal("expected imported conversation")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	s, err := NewSQLiteArchive(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer s.Close()

	s.Save(ctx, testMemory("c1", "workout"))
	s.Save(ctx, testMemory("c1", "workout"))

	st, err := s.Stats(ctx, path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalSnapshots != 2 {
		t.Errorf("expected 2 snapshots, got %d", st.TotalSnapshots)
	}
	if len(st.Conversations) != 1 || st.Conversations[0].LatestVersion != 2 {
		t.Errorf("unexpected conversation stats: %+v", st.Conversations)
	}
}
