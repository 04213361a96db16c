package entity

import (
	"time"

	"ComputexChatbot/pkg/nlp"
)

type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

type ChatMessage struct {
	Type           MessageType `json:"type"`
	Message        string      `json:"message"`
	Category       string      `json:"category,omitempty"`
	MatchedKeyword *string     `json:"matched_keyword,omitempty"`
	ProcessingTime float64     `json:"processing_time,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// ChatSession holds both the transcript shown through the API and the turn
// history the dialogue engine resolves references against.
type ChatSession struct {
	ID           string        `json:"session_id"`
	Messages     []ChatMessage `json:"messages"`
	History      nlp.History   `json:"history"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
}

func (s ChatSession) CountByType(t MessageType) int {
	n := 0
	for _, m := range s.Messages {
		if m.Type == t {
			n++
		}
	}
	return n
}

func (s ChatSession) ActiveSince(cutoff time.Time) bool {
	return s.LastActivity.After(cutoff)
}

// Clone copies the slices so callers cannot alias stored state.
func (s ChatSession) Clone() ChatSession {
	s.Messages = append([]ChatMessage(nil), s.Messages...)
	s.History = append(nlp.History(nil), s.History...)
	return s
}

// ChatStats backs GET /stats. CategoriesCount tallies bot replies only; user
// messages carry no category and are not counted under any key, "unknown"
// included. TotalMessages counts both sides and is not reduced by cleanup.
type ChatStats struct {
	TotalSessions   int            `json:"total_sessions"`
	TotalMessages   int            `json:"total_messages"`
	CategoriesCount map[string]int `json:"categories_count"`
	ActiveSessions  int            `json:"active_sessions"`
}
