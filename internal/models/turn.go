package models

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single exchange entry in a conversation. Turns are owned by
// exactly one session and never shared.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session holds the bounded conversation history for one client-supplied
// session id. When Turns is non-empty, Turns[0] is always the system turn.
type Session struct {
	ID         string    `json:"id"`
	Turns      []Turn    `json:"turns"`
	LastActive time.Time `json:"last_active"`
}
