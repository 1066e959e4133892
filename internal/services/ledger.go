package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
)

// ErrGoalNotFound signals a progress index outside the current active goal
// list. No state is mutated in that case.
var ErrGoalNotFound = errors.New("goal not found")

// LedgerService owns goal progress values and their append-only history.
type LedgerService struct {
	db *database.DB
}

func NewLedgerService(db *database.DB) *LedgerService {
	return &LedgerService{db: db}
}

// ApplyResult is the outcome of one accepted progress change.
type ApplyResult struct {
	Goal      models.Goal
	Completed bool // true only when this change crossed into completion
}

// ActiveGoals returns the user's uncompleted goals, newest first. Progress
// indexes always resolve against a fresh call of this snapshot, never a
// cached list from a prior turn.
func (s *LedgerService) ActiveGoals(chatID int64) ([]models.Goal, error) {
	var goals []models.Goal
	query := `SELECT id, chat_id, title, description, category, progress, created_at, deadline, completed, completed_at
			FROM goals WHERE chat_id = ? AND completed = FALSE ORDER BY created_at DESC, id DESC`

	if err := s.db.Select(&goals, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}
	return goals, nil
}

// AllGoals returns every goal of a user, active first, newest first.
func (s *LedgerService) AllGoals(chatID int64) ([]models.Goal, error) {
	var goals []models.Goal
	query := `SELECT id, chat_id, title, description, category, progress, created_at, deadline, completed, completed_at
			FROM goals WHERE chat_id = ? ORDER BY completed ASC, created_at DESC, id DESC`

	if err := s.db.Select(&goals, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// RecentGoals returns the N most recently created goals regardless of
// status, for the progress chart.
func (s *LedgerService) RecentGoals(chatID int64, limit int) ([]models.Goal, error) {
	var goals []models.Goal
	query := `SELECT id, chat_id, title, description, category, progress, created_at, deadline, completed, completed_at
			FROM goals WHERE chat_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	if err := s.db.Select(&goals, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent goals: %w", err)
	}
	return goals, nil
}

// CompletedCount returns how many goals the user has completed.
func (s *LedgerService) CompletedCount(chatID int64) (int, error) {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM goals WHERE chat_id = ? AND completed = TRUE`, chatID); err != nil {
		return 0, fmt.Errorf("failed to count completed goals: %w", err)
	}
	return count, nil
}

// GoalCount returns the total number of goals the user ever created.
func (s *LedgerService) GoalCount(chatID int64) (int, error) {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM goals WHERE chat_id = ?`, chatID); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return count, nil
}

// ActiveGoalCounts returns the number of active goals per user, for the
// outreach sweeps.
func (s *LedgerService) ActiveGoalCounts() (map[int64]int, error) {
	rows, err := s.db.Query(`SELECT chat_id, COUNT(*) FROM goals WHERE completed = FALSE GROUP BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count active goals: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var chatID int64
		var count int
		if err := rows.Scan(&chatID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan active goal count: %w", err)
		}
		counts[chatID] = count
	}
	return counts, rows.Err()
}

// CreateGoal inserts a new goal at progress 0 in the default category.
func (s *LedgerService) CreateGoal(chatID int64, title string) (*models.Goal, error) {
	query := `
		INSERT INTO goals (chat_id, title, description, category, progress, created_at, completed)
		VALUES (?, ?, '', 'generale', 0, ?, FALSE)
	`
	result, err := s.db.Exec(query, chatID, title, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal id: %w", err)
	}

	var goal models.Goal
	if err := s.db.Get(&goal, `SELECT id, chat_id, title, description, category, progress, created_at, deadline, completed, completed_at FROM goals WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to load created goal: %w", err)
	}
	return &goal, nil
}

// ApplyProgress resolves a 1-based index against the fresh active-goal
// snapshot and applies a signed delta, clamped to [0,100]. The goal update,
// the audit event and any completion flip are committed in one transaction:
// either all of them land or none does.
func (s *LedgerService) ApplyProgress(chatID int64, goalIndex, delta int) (*ApplyResult, error) {
	goals, err := s.ActiveGoals(chatID)
	if err != nil {
		return nil, err
	}
	if goalIndex < 1 || goalIndex > len(goals) {
		return nil, ErrGoalNotFound
	}
	goal := goals[goalIndex-1]

	oldProgress := goal.Progress
	newProgress := models.ClampProgress(oldProgress + delta)
	now := time.Now()
	completing := newProgress == 100 && !goal.Completed

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE goals SET progress = ? WHERE id = ?`, newProgress, goal.ID); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	historyQuery := `
		INSERT INTO progress_history (goal_id, chat_id, old_progress, new_progress, change_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(historyQuery, goal.ID, chatID, oldProgress, newProgress, delta, now); err != nil {
		return nil, fmt.Errorf("failed to record progress event: %w", err)
	}

	if completing {
		if _, err := tx.Exec(`UPDATE goals SET completed = TRUE, completed_at = ? WHERE id = ?`, now, goal.ID); err != nil {
			return nil, fmt.Errorf("failed to mark goal completed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit progress: %w", err)
	}

	goal.Progress = newProgress
	if completing {
		goal.Completed = true
		goal.CompletedAt = &now
	}

	return &ApplyResult{Goal: goal, Completed: completing}, nil
}

// History returns the audit trail of one user, newest first.
func (s *LedgerService) History(chatID int64, limit int) ([]models.ProgressEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	var events []models.ProgressEvent
	query := `SELECT id, goal_id, chat_id, old_progress, new_progress, change_value, created_at
			FROM progress_history WHERE chat_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	if err := s.db.Select(&events, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to list progress history: %w", err)
	}
	return events, nil
}
