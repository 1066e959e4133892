package models

import (
	"time"
)

// User represents a coached user, keyed by the transport chat id.
type User struct {
	ChatID              int64     `json:"chat_id" db:"chat_id"`
	Username            string    `json:"username" db:"username"`
	FirstName           string    `json:"first_name" db:"first_name"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	LastInteraction     time.Time `json:"last_interaction" db:"last_interaction"`
	TotalPoints         int       `json:"total_points" db:"total_points"`
	Level               int       `json:"level" db:"level"`
	StreakDays          int       `json:"streak_days" db:"streak_days"`
	LastActivityDate    string    `json:"last_activity_date" db:"last_activity_date"` // calendar day, "2006-01-02"
	ReminderTime        string    `json:"reminder_time" db:"reminder_time"`           // "HH:MM"
	ReminderEnabled     bool      `json:"reminder_enabled" db:"reminder_enabled"`
	OnboardingCompleted bool      `json:"onboarding_completed" db:"onboarding_completed"`
}

// DisplayName returns the best available name for user-facing copy.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "amico"
}

// LevelTier describes one tier of the fixed level ladder.
type LevelTier struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
}

// Levels is the fixed ascending ladder. Level is always the highest tier
// whose MinPoints is <= total points.
var Levels = []LevelTier{
	{Level: 1, Name: "🌱 Principiante", MinPoints: 0},
	{Level: 2, Name: "🔰 Apprendista", MinPoints: 100},
	{Level: 3, Name: "⚡ Motivato", MinPoints: 300},
	{Level: 4, Name: "💪 Determinato", MinPoints: 600},
	{Level: 5, Name: "🔥 Guerriero", MinPoints: 1000},
	{Level: 6, Name: "🏆 Campione", MinPoints: 1500},
	{Level: 7, Name: "👑 Maestro", MinPoints: 2500},
	{Level: 8, Name: "⭐ Leggenda", MinPoints: 4000},
	{Level: 9, Name: "💎 Diamante", MinPoints: 6000},
	{Level: 10, Name: "🚀 Immortale", MinPoints: 10000},
}

// LevelForPoints returns the level for a total point count. Pure and
// idempotent: the same total always maps to the same level, never below 1.
func LevelForPoints(points int) int {
	for i := len(Levels) - 1; i >= 0; i-- {
		if points >= Levels[i].MinPoints {
			return Levels[i].Level
		}
	}
	return 1
}

// LevelInfo returns the tier metadata for a level, falling back to the
// first tier for out-of-range values.
func LevelInfo(level int) LevelTier {
	for _, t := range Levels {
		if t.Level == level {
			return t
		}
	}
	return Levels[0]
}

// NextLevelInfo returns the tier above the given level, or nil at the top.
func NextLevelInfo(level int) *LevelTier {
	for i := range Levels {
		if Levels[i].Level == level+1 {
			return &Levels[i]
		}
	}
	return nil
}
