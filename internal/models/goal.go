package models

import (
	"time"
)

// Goal is a single tracked objective. Progress is always within [0,100]
// and completed implies progress == 100.
type Goal struct {
	ID          int64      `json:"id" db:"id"`
	ChatID      int64      `json:"chat_id" db:"chat_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	Progress    int        `json:"progress" db:"progress"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Deadline    *string    `json:"deadline" db:"deadline"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

// ProgressEvent is one append-only audit record per accepted progress
// change. Old/new snapshots carry the clamped outcome, not the raw request.
type ProgressEvent struct {
	ID          int64     `json:"id" db:"id"`
	GoalID      int64     `json:"goal_id" db:"goal_id"`
	ChatID      int64     `json:"chat_id" db:"chat_id"`
	OldProgress int       `json:"old_progress" db:"old_progress"`
	NewProgress int       `json:"new_progress" db:"new_progress"`
	ChangeValue int       `json:"change_value" db:"change_value"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserStats aggregates the goal state shown by /stats and the weekly recap.
type UserStats struct {
	ActiveGoals    int `json:"active_goals"`
	CompletedGoals int `json:"completed_goals"`
	AvgProgress    int `json:"avg_progress"`
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
