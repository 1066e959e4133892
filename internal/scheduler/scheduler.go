package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tahcohcat/coach-pro/internal/models"
)

// OutreachKind identifies the proactive message a sweep asks for.
type OutreachKind string

const (
	OutreachReminder     OutreachKind = "reminder"
	OutreachReengagement OutreachKind = "reengagement"
	OutreachRecap        OutreachKind = "recap"
)

// Outreach is an instruction to notify one user. Sweeps only emit
// instructions; executing them (composing text, sending) is the caller's
// job, and delivery is fire-and-forget.
type Outreach struct {
	ID     string
	Kind   OutreachKind
	ChatID int64

	// Snapshot data carried for composition.
	ActiveGoals int
	StreakDays  int
	LevelName   string
}

// Snapshot is the read-only view of the user base a sweep runs over.
type Snapshot struct {
	Users       []models.User
	ActiveGoals map[int64]int // chat id -> uncompleted goal count
}

// reengagementAfter is how long a user must be silent before the coach
// reaches out.
const reengagementAfter = 3 * 24 * time.Hour

// ReminderSweep emits a reminder for every user whose reminder is enabled,
// whose configured time of day falls in the current half-hour window, and
// who has at least one active goal. Polling every 30 minutes gives a
// roughly half-open firing window per day rather than an exact-once
// trigger; that imprecision is accepted.
func ReminderSweep(snap Snapshot, now time.Time) []Outreach {
	var out []Outreach
	for _, user := range snap.Users {
		if !user.ReminderEnabled {
			continue
		}
		if snap.ActiveGoals[user.ChatID] == 0 {
			continue
		}

		hour, minute, ok := parseReminderTime(user.ReminderTime)
		if !ok {
			continue
		}
		if now.Hour() != hour {
			continue
		}
		diff := now.Minute() - minute
		if diff < 0 {
			diff = -diff
		}
		if diff >= 30 {
			continue
		}

		out = append(out, newOutreach(OutreachReminder, user, snap.ActiveGoals[user.ChatID]))
	}
	return out
}

// ReengagementSweep emits a nudge for every user silent for more than three
// days who still has active goals. Stateless by design: it re-fires on
// every invocation until the user interacts again or has no active goals
// left. No suppression or backoff is applied.
func ReengagementSweep(snap Snapshot, now time.Time) []Outreach {
	var out []Outreach
	for _, user := range snap.Users {
		if now.Sub(user.LastInteraction) <= reengagementAfter {
			continue
		}
		if snap.ActiveGoals[user.ChatID] == 0 {
			continue
		}
		out = append(out, newOutreach(OutreachReengagement, user, snap.ActiveGoals[user.ChatID]))
	}
	return out
}

// RecapSweep emits a weekly recap for every user with at least one active
// goal, carrying the counters the recap message shows.
func RecapSweep(snap Snapshot, now time.Time) []Outreach {
	var out []Outreach
	for _, user := range snap.Users {
		if snap.ActiveGoals[user.ChatID] == 0 {
			continue
		}
		out = append(out, newOutreach(OutreachRecap, user, snap.ActiveGoals[user.ChatID]))
	}
	return out
}

func newOutreach(kind OutreachKind, user models.User, activeGoals int) Outreach {
	return Outreach{
		ID:          uuid.NewString(),
		Kind:        kind,
		ChatID:      user.ChatID,
		ActiveGoals: activeGoals,
		StreakDays:  user.StreakDays,
		LevelName:   models.LevelInfo(user.Level).Name,
	}
}

func parseReminderTime(value string) (hour, minute int, ok bool) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}
