package model

import "time"

// UserProfile is the caller-supplied user record. The engine never loads it;
// the HTTP layer fetches it and passes it in.
type UserProfile struct {
	Name         string   `json:"name"`
	FitnessLevel string   `json:"fitness_level,omitempty"`
	Goals        []string `json:"goals,omitempty"`
	Premium      bool     `json:"premium,omitempty"`
}

// WorkoutEntry is one caller-supplied historical workout record.
type WorkoutEntry struct {
	Exercise string    `json:"exercise"`
	Mood     string    `json:"mood,omitempty"`
	Soreness string    `json:"soreness,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// ReflectionEntry is one caller-supplied historical reflection record.
type ReflectionEntry struct {
	Content  string    `json:"content"`
	LoggedAt time.Time `json:"logged_at"`
}

// ExtractedData is the structured signal pulled out of a single message.
type ExtractedData struct {
	Exercise            string `json:"exercise,omitempty"`
	Mood                string `json:"mood,omitempty"`
	Difficulty          string `json:"difficulty,omitempty"`
	Soreness            string `json:"soreness,omitempty"`
	TimeContext         string `json:"time_context,omitempty"`
	EmotionalContext    string `json:"emotional_context,omitempty"`
	HasStructuredFormat bool   `json:"has_structured_format"`
}
