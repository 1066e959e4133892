package services

import (
	"fmt"
	"time"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
)

// ContextWindow is how many recent turns are replayed to the AI coach.
const ContextWindow = 6

// ConversationService stores the rolling free-chat context.
type ConversationService struct {
	db *database.DB
}

func NewConversationService(db *database.DB) *ConversationService {
	return &ConversationService{db: db}
}

// Append stores one turn of the conversation.
func (s *ConversationService) Append(chatID int64, role, content string) error {
	query := `INSERT INTO ai_conversations (chat_id, role, content, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, chatID, role, content, time.Now()); err != nil {
		return fmt.Errorf("failed to store conversation turn: %w", err)
	}
	return nil
}

// Recent returns the last ContextWindow turns, oldest first, ready to be
// replayed as context.
func (s *ConversationService) Recent(chatID int64) ([]models.ConversationTurn, error) {
	var turns []models.ConversationTurn
	query := `SELECT id, chat_id, role, content, created_at FROM ai_conversations
			WHERE chat_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	if err := s.db.Select(&turns, query, chatID, ContextWindow); err != nil {
		return nil, fmt.Errorf("failed to load conversation context: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
