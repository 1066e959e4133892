package coach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tahcohcat/coach-pro/internal/models"
	"github.com/tahcohcat/coach-pro/internal/scheduler"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0))
	assert.Equal(t, "█░░░░░░░░░", ProgressBar(10))
	assert.Equal(t, "█████░░░░░", ProgressBar(50))
	assert.Equal(t, "█████░░░░░", ProgressBar(55))
	assert.Equal(t, "██████████", ProgressBar(100))

	// Out-of-range values are clamped, never panic.
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-5))
	assert.Equal(t, "██████████", ProgressBar(250))
}

func TestComposeGoalListSplitsActiveAndCompleted(t *testing.T) {
	goals := []models.Goal{
		{Title: "Correre la mezza maratona", Progress: 40},
		{Title: "Leggere dodici libri", Progress: 100, Completed: true},
	}

	out := composeGoalList(goals)
	assert.Contains(t, out, "1. *Correre la mezza maratona*")
	assert.Contains(t, out, "40%")
	assert.Contains(t, out, "Completati: 1")
	assert.NotContains(t, out, "Leggere dodici libri")
}

func TestComposeGoalListEmpty(t *testing.T) {
	assert.Contains(t, composeGoalList(nil), "Nessun obiettivo ancora")
}

func TestComposeStatsShowsPointsToNextLevel(t *testing.T) {
	user := &models.User{FirstName: "Marco", Level: 1, TotalPoints: 60, StreakDays: 3}
	stats := &models.UserStats{ActiveGoals: 2, CompletedGoals: 1, AvgProgress: 55}

	out := composeStats(user, stats, nil)
	assert.Contains(t, out, "60 punti")
	assert.Contains(t, out, "(40 al prossimo livello)")
	assert.Contains(t, out, "Progresso medio: 55%")
	assert.Contains(t, out, "Nessun badge ancora")
}

func TestComposeStatsCapsBadgeListAtFive(t *testing.T) {
	user := &models.User{Level: 1}
	stats := &models.UserStats{}

	badges := []models.Badge{
		{Type: models.BadgeFirstGoal, EarnedAt: time.Now()},
		{Type: models.BadgeFirstComplete, EarnedAt: time.Now()},
		{Type: models.BadgeWeekStreak, EarnedAt: time.Now()},
		{Type: models.BadgeFiveGoals, EarnedAt: time.Now()},
		{Type: models.BadgeEarlyBird, EarnedAt: time.Now()},
		{Type: models.BadgeNightOwl, EarnedAt: time.Now()},
		{Type: models.BadgeLevel5, EarnedAt: time.Now()},
	}

	out := composeStats(user, stats, badges)
	assert.Contains(t, out, "*Badge (7)*")
	assert.Contains(t, out, "...e altri 2")
}

func TestComposeOutreachPerKind(t *testing.T) {
	reminder := composeOutreach(scheduler.Outreach{Kind: scheduler.OutreachReminder, ActiveGoals: 2, StreakDays: 5})
	assert.Contains(t, reminder, "Promemoria giornaliero")
	assert.Contains(t, reminder, "2 obiettivi attivi")

	nudge := composeOutreach(scheduler.Outreach{Kind: scheduler.OutreachReengagement})
	assert.Contains(t, nudge, "Non ti vedo da qualche giorno")

	recap := composeOutreach(scheduler.Outreach{Kind: scheduler.OutreachRecap, ActiveGoals: 1, StreakDays: 2, LevelName: "🌱 Principiante"})
	assert.Contains(t, recap, "BUON LUNEDÌ")
	assert.Contains(t, recap, "🌱 Principiante")

	assert.Empty(t, composeOutreach(scheduler.Outreach{Kind: scheduler.OutreachKind("sconosciuto")}))
}
