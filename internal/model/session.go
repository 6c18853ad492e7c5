// Package model defines domain types for codeassist projects, turns, and billing.
package model

import "time"

// Role tags a turn in the conversation history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Known reports whether r is one of the roles the completion endpoint accepts.
// Unknown roles are still stored as-is.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one message in a project's conversation. Turns are append-only.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	TS      Timestamp `json:"ts"`
	Usage   *Usage    `json:"usage,omitempty"`
}

// Session is the durable per-project record of turns, billing, and selected model.
type Session struct {
	ProjectID string    `json:"project_id"`
	CreatedAt Timestamp `json:"created_at"`
	Model     *string   `json:"model"`
	Billing   Ledger    `json:"billing"`
	Turns     []Turn    `json:"turns"`
}

// NewSession returns an empty session for projectID created at the given time.
func NewSession(projectID string, at time.Time) *Session {
	return &Session{
		ProjectID: projectID,
		CreatedAt: NewTimestamp(at),
		Billing:   Ledger{Entries: []BillingEntry{}},
		Turns:     []Turn{},
	}
}

// SelectedModel returns the session's model, or "" when none was chosen yet.
func (s *Session) SelectedModel() string {
	if s.Model == nil {
		return ""
	}
	return *s.Model
}

// SetModel records modelID as the session default.
func (s *Session) SetModel(modelID string) {
	s.Model = &modelID
}

// AddTurn appends a turn stamped with at. Usage is attached only when it
// carries token counts. The session is not persisted.
func (s *Session) AddTurn(role Role, content string, usage *Usage, at time.Time) {
	t := Turn{Role: role, Content: content, TS: NewTimestamp(at)}
	if !usage.IsZero() {
		u := *usage
		t.Usage = &u
	}
	s.Turns = append(s.Turns, t)
}

// RecentMessages returns role/content pairs for the last n turns, oldest first.
func (s *Session) RecentMessages(n int) []Message {
	if n <= 0 {
		return nil
	}
	turns := s.Turns
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	msgs := make([]Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, Message{Role: t.Role, Content: t.Content})
	}
	return msgs
}
