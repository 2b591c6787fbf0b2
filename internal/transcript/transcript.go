// Package transcript parses raw conversation transcripts into messages for
// CLI ingestion. Three formats are accepted: a JSON array of messages, one
// JSON message per line, or plain "role: text" lines.
package transcript

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rcliao/coach-memory/internal/model"
)

// Parse detects the transcript format and returns the parsed messages.
// Empty input yields an empty batch, not an error.
func Parse(data []byte) ([]model.Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var messages []model.Message
		if err := json.Unmarshal(trimmed, &messages); err != nil {
			return nil, fmt.Errorf("parse transcript array: %w", err)
		}
		return messages, nil
	case '{':
		return parseLines(trimmed)
	default:
		return parsePlain(trimmed), nil
	}
}

func parseLines(data []byte) ([]model.Message, error) {
	var messages []model.Message
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var m model.Message
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			return nil, fmt.Errorf("parse transcript line %d: %w", line, err)
		}
		messages = append(messages, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}
	return messages, nil
}

// parsePlain reads "role: text" lines. Lines without a recognized role prefix
// continue the previous message; leading text before any role line becomes a
// user message.
func parsePlain(data []byte) []model.Message {
	var messages []model.Message
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		role, rest := splitRole(line)
		if role == "" {
			if len(messages) == 0 {
				messages = append(messages, model.Message{Role: "user", Content: line})
			} else {
				last := &messages[len(messages)-1]
				last.Content = last.Content + " " + line
			}
			continue
		}
		messages = append(messages, model.Message{Role: role, Content: rest})
	}
	return messages
}

func splitRole(line string) (role, rest string) {
	prefix, rest, found := strings.Cut(line, ":")
	if !found {
		return "", ""
	}
	switch strings.ToLower(strings.TrimSpace(prefix)) {
	case "user", "u":
		return "user", strings.TrimSpace(rest)
	case "assistant", "coach", "a":
		return "assistant", strings.TrimSpace(rest)
	}
	return "", ""
}
