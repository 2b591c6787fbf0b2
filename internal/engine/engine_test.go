package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/coach-memory/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(opts...)
}

func userMsgs(texts ...string) []model.Message {
	out := make([]model.Message, len(texts))
	for i, t := range texts {
		out[i] = model.Message{Role: "user", Content: t}
	}
	return out
}

func TestProcessBuildsMemory(t *testing.T) {
	e := newTestEngine()

	mem := e.ProcessConversationMemory("c1", userMsgs(
		"my goal is to run a marathon next year",
		"feeling stressed about training in the morning",
	), nil)

	require.NotNil(t, mem)
	assert.Equal(t, "c1", mem.ConversationID)
	assert.Equal(t, testNow, mem.CreatedAt)
	assert.Len(t, mem.Messages, 2)
	require.Len(t, mem.Goals, 1)
	assert.Equal(t, "run a marathon next year", mem.Goals[0].Goal)
	assert.NotEmpty(t, mem.Patterns)
	assert.Contains(t, mem.Topics, "stress")
}

func TestKeyMessagesFilterAndCap(t *testing.T) {
	e := newTestEngine()

	batch := userMsgs("short", "ok")
	for i := 0; i < 25; i++ {
		batch = append(batch, model.Message{Role: "user", Content: fmt.Sprintf("long enough message number %d", i)})
	}
	mem := e.ProcessConversationMemory("c1", batch, nil)

	// 25 qualifying messages trimmed to the last 20; the short ones dropped.
	require.Len(t, mem.Messages, 20)
	assert.Equal(t, "long enough message number 5", mem.Messages[0].Content)
	assert.Equal(t, "long enough message number 24", mem.Messages[19].Content)
}

func TestProcessReplacesNotMerges(t *testing.T) {
	e := newTestEngine()

	e.ProcessConversationMemory("c1", userMsgs("my goal is to run a marathon"), nil)
	mem := e.ProcessConversationMemory("c1", userMsgs("just a plain check-in message"), nil)

	assert.Empty(t, mem.Goals)
	ctx := e.GetMemoryContext("c1", "hello")
	require.NotNil(t, ctx.History)
	assert.Empty(t, ctx.History.Goals)
}

func TestProcessIsIdempotentForConversationFields(t *testing.T) {
	e := newTestEngine()
	batch := userMsgs("my goal is to run a marathon", "feeling great after the morning run")

	first := e.ProcessConversationMemory("c1", batch, nil)
	second := e.ProcessConversationMemory("c1", batch, nil)

	assert.Equal(t, first.Messages, second.Messages)
	assert.Equal(t, first.Topics, second.Topics)
	assert.Equal(t, first.Goals, second.Goals)
	assert.Equal(t, first.Patterns, second.Patterns)
	assert.Equal(t, first.EmotionalState, second.EmotionalState)

	// Aggregates accumulate additively across repeated calls.
	stats := e.GetMemoryStats()
	assert.Equal(t, 2, stats.EmotionalHistory)
}

func TestGlobalAggregatesAreCapped(t *testing.T) {
	e := newTestEngine()

	for i := 0; i < 15; i++ {
		e.ProcessConversationMemory(fmt.Sprintf("c%d", i), userMsgs(
			"feeling great, finally achieved a personal best today",
		), nil)
	}

	stats := e.GetMemoryStats()
	assert.Equal(t, 15, stats.Conversations)
	assert.Equal(t, 10, stats.EmotionalHistory)
	assert.Equal(t, 8, stats.SuccessMoments)
}

func TestGoalCap(t *testing.T) {
	e := newTestEngine()

	var batch []model.Message
	for i := 0; i < 20; i++ {
		batch = append(batch, model.Message{
			Role:    "user",
			Content: fmt.Sprintf("my goal is to finish session %d", i),
		})
	}
	mem := e.ProcessConversationMemory("c1", batch, nil)

	require.Len(t, mem.Goals, 15)
	assert.Equal(t, "finish session 5", mem.Goals[0].Goal)
}

func TestMalformedMessagesDegrade(t *testing.T) {
	e := newTestEngine()

	mem := e.ProcessConversationMemory("c1", []model.Message{
		{Role: "user"},
		{Role: "user", Text: "legacy text field with enough length"},
	}, nil)

	require.Len(t, mem.Messages, 1)
	assert.Equal(t, "legacy text field with enough length", mem.Messages[0].Content)
}

func TestClearConversationMemory(t *testing.T) {
	e := newTestEngine()
	e.ProcessConversationMemory("c1", userMsgs("a long enough message"), nil)
	e.ProcessConversationMemory("c2", userMsgs("another long enough message"), nil)

	e.ClearConversationMemory("c1")

	stats := e.GetMemoryStats()
	assert.Equal(t, 1, stats.Conversations)
	assert.Nil(t, e.GetMemoryContext("c1", "hello").History)
}

func TestClearAllMemory(t *testing.T) {
	e := newTestEngine()
	e.ProcessConversationMemory("c1", userMsgs("my goal is to run a marathon"), nil)

	e.ClearAllMemory()

	stats := e.GetMemoryStats()
	assert.Equal(t, Stats{}, stats)
}

func TestConversationLRUEviction(t *testing.T) {
	e := newTestEngine(WithLimits(Limits{Conversations: 2}))

	e.ProcessConversationMemory("c1", userMsgs("first conversation message"), nil)
	e.ProcessConversationMemory("c2", userMsgs("second conversation message"), nil)
	// Touch c1 so c2 becomes the eviction candidate.
	e.GetMemoryContext("c1", "hello")
	e.ProcessConversationMemory("c3", userMsgs("third conversation message"), nil)

	assert.NotNil(t, e.GetMemoryContext("c1", "x").History)
	assert.Nil(t, e.GetMemoryContext("c2", "x").History)
	assert.NotNil(t, e.GetMemoryContext("c3", "x").History)
}

func TestRestoreFoldsAggregates(t *testing.T) {
	e := newTestEngine()
	mem := e.ProcessConversationMemory("c1", userMsgs("my goal is to run a marathon", "morning runs are tough"), nil)

	fresh := newTestEngine()
	fresh.Restore(mem)

	stats := fresh.GetMemoryStats()
	assert.Equal(t, 1, stats.Conversations)
	assert.Equal(t, 1, stats.TrackedGoals)
	assert.Equal(t, 1, stats.EmotionalHistory)
	require.NotNil(t, fresh.GetMemoryContext("c1", "x").History)
}

func TestNormalizeGoal(t *testing.T) {
	assert.Equal(t, "run a marathon", NormalizeGoal("  Run   a  Marathon "))
	assert.Equal(t, "", NormalizeGoal("   "))
}
