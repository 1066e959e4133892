package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
)

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// GetOrCreate returns the user for a chat id, creating the record on first
// contact. Users are never deleted.
func (s *UserService) GetOrCreate(chatID int64, username, firstName string) (*models.User, error) {
	user, err := s.Get(chatID)
	if err == nil {
		return user, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now()
	query := `
		INSERT INTO users (chat_id, username, first_name, created_at, last_interaction)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.db.Exec(query, chatID, username, firstName, now, now); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.Get(chatID)
}

// Get retrieves a user by chat id. Returns sql.ErrNoRows when unknown.
func (s *UserService) Get(chatID int64) (*models.User, error) {
	var user models.User
	query := `SELECT chat_id, username, first_name, created_at, last_interaction, total_points,
			level, streak_days, last_activity_date, reminder_time, reminder_enabled, onboarding_completed
			FROM users WHERE chat_id = ?`

	if err := s.db.Get(&user, query, chatID); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAll returns a snapshot of every user, for the outreach sweeps.
func (s *UserService) ListAll() ([]models.User, error) {
	var users []models.User
	query := `SELECT chat_id, username, first_name, created_at, last_interaction, total_points,
			level, streak_days, last_activity_date, reminder_time, reminder_enabled, onboarding_completed
			FROM users`

	if err := s.db.Select(&users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetReminderTime stores the daily reminder time of day as "HH:MM".
func (s *UserService) SetReminderTime(chatID int64, hour, minute int) error {
	value := fmt.Sprintf("%02d:%02d", hour, minute)
	_, err := s.db.Exec(`UPDATE users SET reminder_time = ? WHERE chat_id = ?`, value, chatID)
	if err != nil {
		return fmt.Errorf("failed to set reminder time: %w", err)
	}
	return nil
}

// SetReminderEnabled toggles the daily reminder.
func (s *UserService) SetReminderEnabled(chatID int64, enabled bool) error {
	_, err := s.db.Exec(`UPDATE users SET reminder_enabled = ? WHERE chat_id = ?`, enabled, chatID)
	return err
}

// CompleteOnboarding marks the first-contact flow as done.
func (s *UserService) CompleteOnboarding(chatID int64) error {
	_, err := s.db.Exec(`UPDATE users SET onboarding_completed = TRUE WHERE chat_id = ?`, chatID)
	return err
}

// Stats aggregates goal counters for /stats and the weekly recap.
func (s *UserService) Stats(chatID int64) (*models.UserStats, error) {
	var stats models.UserStats
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN completed THEN 0 ELSE 1 END), 0) AS active_goals,
			COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed_goals,
			COALESCE(CAST(ROUND(AVG(progress)) AS INTEGER), 0)      AS avg_progress
		FROM goals WHERE chat_id = ?
	`
	row := s.db.QueryRow(query, chatID)
	if err := row.Scan(&stats.ActiveGoals, &stats.CompletedGoals, &stats.AvgProgress); err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}
	return &stats, nil
}
