// Package sentiment scores message sentiment and classifies the emotional
// state of message batches.
package sentiment

import (
	"strings"

	"github.com/rcliao/coach-memory/internal/lexicon"
	"github.com/rcliao/coach-memory/internal/model"
)

const keywordWeight = 0.3

// Score computes a sentiment value in [-1, 1] for a single message:
// +0.3 per positive keyword occurrence, -0.3 per negative, duplicates counted,
// clamped. An empty message scores 0.
func Score(text string) float64 {
	pos, neg := lexicon.CountSentiment(text)
	return Clamp(float64(pos)*keywordWeight-float64(neg)*keywordWeight, -1, 1)
}

// AnalyzeEmotionalState classifies a message batch. Keyword hits are counted
// per coarse category across all messages, each category's ratio is its hit
// count over the message count, and the highest ratio wins. Categories are
// evaluated in the order positive, negative, neutral; on equal ratios the
// earlier category wins. An empty batch is neutral with confidence 0.5.
func AnalyzeEmotionalState(messages []model.Message) model.EmotionalState {
	if len(messages) == 0 {
		return model.EmotionalState{Primary: "neutral", Confidence: 0.5}
	}

	var pos, neg, neu int
	for _, m := range messages {
		p, n := lexicon.CountSentiment(m.Body())
		pos += p
		neg += n
		neu += countNeutral(m.Body())
	}

	total := float64(len(messages))
	ratios := []struct {
		tag   string
		ratio float64
	}{
		{"positive", float64(pos) / total},
		{"negative", float64(neg) / total},
		{"neutral", float64(neu) / total},
	}

	best := ratios[0]
	for _, r := range ratios[1:] {
		if r.ratio > best.ratio {
			best = r
		}
	}
	if best.ratio == 0 {
		return model.EmotionalState{Primary: "neutral", Confidence: 0.5, TotalMessages: len(messages)}
	}

	return model.EmotionalState{
		Primary:       best.tag,
		Confidence:    Clamp(best.ratio, 0, 1),
		TotalMessages: len(messages),
	}
}

// Trend classifies the emotional direction over the last 5 messages, each
// scored individually: more positive than negative states is "improving",
// the reverse is "declining", anything else "stable". Fewer than 2 messages
// is always "stable".
func Trend(messages []model.Message) string {
	if len(messages) < 2 {
		return "stable"
	}

	window := messages
	if len(window) > 5 {
		window = window[len(window)-5:]
	}

	var pos, neg int
	for _, m := range window {
		switch lexicon.EmotionalCategory(m.Body()) {
		case "positive":
			pos++
		case "negative":
			neg++
		}
	}

	switch {
	case pos > neg:
		return "improving"
	case neg > pos:
		return "declining"
	default:
		return "stable"
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func countNeutral(text string) int {
	// lexicon.CountSentiment covers positive/negative; neutral needs its own pass.
	n := 0
	lower := strings.ToLower(text)
	for _, w := range lexicon.NeutralWords {
		n += lexicon.CountWord(lower, w)
	}
	return n
}
