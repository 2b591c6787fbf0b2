package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/coach-memory/internal/model"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestIdentifyTimePatterns(t *testing.T) {
	events := Identify([]model.Message{
		{Role: "user", Content: "I always train in the morning before work"},
	}, now)

	var patterns []string
	for _, e := range events {
		if e.Type == "time" {
			patterns = append(patterns, e.Pattern)
		}
	}
	assert.Equal(t, []string{"morning", "before work"}, patterns)
}

func TestIdentifyEmotionalCycles(t *testing.T) {
	events := Identify([]model.Message{
		{Role: "user", Content: "feeling really stressed and overwhelmed"},
	}, now)

	require.Len(t, events, 2)
	assert.Equal(t, "emotional", events[0].Type)
	assert.Equal(t, "stress", events[0].Pattern)
	assert.Equal(t, "stressed", events[0].Keyword)
	assert.Equal(t, "overwhelmed", events[1].Keyword)
}

func TestIdentifyBehavioralCycles(t *testing.T) {
	events := Identify([]model.Message{
		{Role: "user", Content: "I skipped the gym again but my goal is still there"},
	}, now)

	require.Len(t, events, 2)
	assert.Equal(t, "behavioral", events[0].Type)
	assert.Equal(t, "consistency_struggle", events[0].Pattern)
	assert.Equal(t, "goal_setting", events[1].Pattern)
}

func TestIdentifyNoDeduplication(t *testing.T) {
	events := Identify([]model.Message{
		{Role: "user", Content: "stressed today"},
		{Role: "user", Content: "still stressed"},
	}, now)

	require.Len(t, events, 2)
	assert.Equal(t, events[0].Pattern, events[1].Pattern)
}

func TestIdentifyCapsAtMaxEvents(t *testing.T) {
	var batch []model.Message
	for i := 0; i < 15; i++ {
		batch = append(batch, model.Message{Role: "user", Content: "so stressed"})
	}
	events := Identify(batch, now)
	assert.Len(t, events, MaxEvents)
}

func TestIdentifyUsesMessageTimestamp(t *testing.T) {
	sent := now.Add(-48 * time.Hour)
	events := Identify([]model.Message{
		{Role: "user", Content: "morning workout done", SentAt: sent},
		{Role: "user", Content: "evening stretch too"},
	}, now)

	require.Len(t, events, 2)
	assert.Equal(t, sent, events[0].Timestamp)
	assert.Equal(t, now, events[1].Timestamp)
}

func TestIdentifyEmptyBatch(t *testing.T) {
	assert.Empty(t, Identify(nil, now))
	assert.Empty(t, Identify([]model.Message{{Role: "user"}}, now))
}
