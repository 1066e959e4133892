package models

import (
	"time"
)

// BadgeType enumerates the fixed badge catalog. The engine never invents
// kinds outside this set.
type BadgeType string

const (
	BadgeFirstGoal     BadgeType = "FIRST_GOAL"
	BadgeFirstComplete BadgeType = "FIRST_COMPLETE"
	BadgeWeekStreak    BadgeType = "WEEK_STREAK"
	BadgeMonthStreak   BadgeType = "MONTH_STREAK"
	BadgeFiveGoals     BadgeType = "FIVE_GOALS"
	BadgeTenGoals      BadgeType = "TEN_GOALS"
	BadgeLevel5        BadgeType = "LEVEL_5"
	BadgeLevel10       BadgeType = "LEVEL_10"
	BadgeEarlyBird     BadgeType = "EARLY_BIRD"
	BadgeNightOwl      BadgeType = "NIGHT_OWL"
)

// Badge is a one-time achievement record. At most one row exists per
// (chat_id, badge_type) pair.
type Badge struct {
	ID       int64     `json:"id" db:"id"`
	ChatID   int64     `json:"chat_id" db:"chat_id"`
	Type     BadgeType `json:"badge_type" db:"badge_type"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// BadgeInfo carries the display metadata of one catalog entry.
type BadgeInfo struct {
	Emoji       string `json:"emoji"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BadgeCatalog maps every badge kind to its display metadata.
var BadgeCatalog = map[BadgeType]BadgeInfo{
	BadgeFirstGoal:     {Emoji: "🎯", Name: "Primo Obiettivo", Description: "Hai creato il tuo primo obiettivo!"},
	BadgeFirstComplete: {Emoji: "🏆", Name: "Prima Vittoria", Description: "Hai completato il tuo primo obiettivo!"},
	BadgeWeekStreak:    {Emoji: "🔥", Name: "Settimana di Fuoco", Description: "7 giorni di streak!"},
	BadgeMonthStreak:   {Emoji: "💪", Name: "Mese Perfetto", Description: "30 giorni di streak!"},
	BadgeFiveGoals:     {Emoji: "⭐", Name: "Ambizioso", Description: "5 obiettivi completati!"},
	BadgeTenGoals:      {Emoji: "💎", Name: "Inarrestabile", Description: "10 obiettivi completati!"},
	BadgeLevel5:        {Emoji: "🔥", Name: "Guerriero Livello 5", Description: "Hai raggiunto il livello 5!"},
	BadgeLevel10:       {Emoji: "👑", Name: "Immortale", Description: "Livello massimo raggiunto!"},
	BadgeEarlyBird:     {Emoji: "🌅", Name: "Mattiniero", Description: "Attivo prima delle 7:00!"},
	BadgeNightOwl:      {Emoji: "🦉", Name: "Gufo Notturno", Description: "Attivo dopo le 23:00!"},
}

// IsValid reports whether the badge type is part of the catalog.
func (b BadgeType) IsValid() bool {
	_, ok := BadgeCatalog[b]
	return ok
}

// Info returns the display metadata for the badge type.
func (b BadgeType) Info() BadgeInfo {
	return BadgeCatalog[b]
}
