package models

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one exchange entry in a conversation session.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is the explicit per-conversation state. It replaces the original
// system's process-global history file: the caller owns the session identity
// and passes the session by reference into the dispatcher.
type Session struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	History   []Turn    `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Append records a turn and bumps UpdatedAt.
func (s *Session) Append(role, content string) {
	now := time.Now()
	s.History = append(s.History, Turn{Role: role, Content: content, At: now})
	s.UpdatedAt = now
}
