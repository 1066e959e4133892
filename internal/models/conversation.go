package models

import (
	"time"
)

// Roles of a stored conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one stored message of the free-chat context window.
// Only a bounded number of recent turns is ever read back.
type ConversationTurn struct {
	ID        int64     `json:"id" db:"id"`
	ChatID    int64     `json:"chat_id" db:"chat_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
