package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExercise(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"went for a run this morning", "running"},
		{"did some squats and deadlifts", "strength"},
		{"yoga class was great", "yoga"},
		{"swam laps at the pool", "swimming"},
		{"nothing sporty here", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Exercise(c.text), "text: %q", c.text)
	}
}

func TestExerciseFirstMatchWins(t *testing.T) {
	// running is declared before cycling, so a message with both resolves
	// to running.
	assert.Equal(t, "running", Exercise("run then bike"))
}

func TestDifficulty(t *testing.T) {
	assert.Equal(t, "brutal", Difficulty("that workout was brutal"))
	assert.Equal(t, "easy", Difficulty("felt easy today"))
	assert.Equal(t, "", Difficulty("no adjectives"))
	assert.Equal(t, "challenging", DifficultyTone("such a tough session"))
}

func TestSoreness(t *testing.T) {
	assert.Equal(t, []string{"legs"}, Soreness("my legs are sore"))
	// "lower back" matches before "back" and suppresses the duplicate.
	assert.Equal(t, []string{"lower back"}, Soreness("my lower back hurts"))
	assert.Nil(t, Soreness("feeling fine"))
}

func TestMoodDefaultsToNeutral(t *testing.T) {
	assert.Equal(t, "neutral", Mood(""))
	assert.Equal(t, "neutral", Mood("the weather is nice"))
	assert.Equal(t, "negative", Mood("so tired today"))
	assert.Equal(t, "recovery", Mood("taking it easy, rest day"))
}

func TestTimeReference(t *testing.T) {
	assert.Equal(t, "immediate", TimeReference("heading out right now"))
	assert.Equal(t, "recent", TimeReference("I worked out yesterday"))
	assert.Equal(t, "past", TimeReference("back when I trained last month"))
	assert.Equal(t, "ongoing", TimeReference("I usually skip mondays"))
	assert.Equal(t, "", TimeReference("no time words"))
}

func TestTopics(t *testing.T) {
	topics := Topics("stressed about my workout and my diet")
	assert.Equal(t, []string{"workout", "nutrition", "stress"}, topics)
	assert.Nil(t, Topics(""))
}

func TestEmotionalCategory(t *testing.T) {
	assert.Equal(t, "positive", EmotionalCategory("feeling great and strong"))
	assert.Equal(t, "negative", EmotionalCategory("tired and frustrated"))
	assert.Equal(t, "neutral", EmotionalCategory("it was okay"))
	assert.Equal(t, "neutral", EmotionalCategory(""))
	// One positive and one negative hit: positive is evaluated first and
	// wins the tie.
	assert.Equal(t, "positive", EmotionalCategory("good but tired"))
}

func TestCountSentimentCountsDuplicates(t *testing.T) {
	pos, neg := CountSentiment("great great great")
	assert.Equal(t, 3, pos)
	assert.Equal(t, 0, neg)
}

func TestWordBoundaries(t *testing.T) {
	// "run" must not match inside "crunches".
	assert.Equal(t, 0, CountWord("doing crunches", "run"))
	assert.Equal(t, 1, CountWord("a good run today", "run"))
	assert.Equal(t, 1, CountWord("run!", "run"))
	assert.False(t, ContainsWord("prune", "run"))
}

func TestHasAchievement(t *testing.T) {
	assert.True(t, HasAchievement("finally hit a new record on my 5k"))
	assert.True(t, HasAchievement("I'm so proud of that personal best"))
	assert.False(t, HasAchievement("just another session"))
	assert.False(t, HasAchievement(""))
}
