package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/coach-pro/internal/models"
)

func snapshotWith(users ...models.User) Snapshot {
	active := make(map[int64]int)
	for _, u := range users {
		active[u.ChatID] = 1
	}
	return Snapshot{Users: users, ActiveGoals: active}
}

func TestReminderSweepFiresInsideWindow(t *testing.T) {
	snap := snapshotWith(models.User{
		ChatID:          1,
		ReminderEnabled: true,
		ReminderTime:    "09:00",
		StreakDays:      3,
		Level:           2,
	})

	now := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	out := ReminderSweep(snap, now)
	require.Len(t, out, 1)
	assert.Equal(t, OutreachReminder, out[0].Kind)
	assert.Equal(t, int64(1), out[0].ChatID)
	assert.Equal(t, 3, out[0].StreakDays)
	assert.Equal(t, models.LevelInfo(2).Name, out[0].LevelName)
	assert.NotEmpty(t, out[0].ID)
}

func TestReminderSweepSkipsOutsideWindow(t *testing.T) {
	snap := snapshotWith(models.User{
		ChatID:          1,
		ReminderEnabled: true,
		ReminderTime:    "09:00",
	})

	// Same hour but 30+ minutes away.
	out := ReminderSweep(snap, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC))
	assert.Empty(t, out)

	// Different hour entirely.
	out = ReminderSweep(snap, time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC))
	assert.Empty(t, out)
}

func TestReminderSweepSkipsDisabledAndGoalless(t *testing.T) {
	disabled := models.User{ChatID: 1, ReminderEnabled: false, ReminderTime: "09:00"}
	goalless := models.User{ChatID: 2, ReminderEnabled: true, ReminderTime: "09:00"}

	snap := Snapshot{
		Users:       []models.User{disabled, goalless},
		ActiveGoals: map[int64]int{1: 2},
	}

	out := ReminderSweep(snap, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, out)
}

func TestReminderSweepSkipsMalformedTime(t *testing.T) {
	snap := snapshotWith(models.User{
		ChatID:          1,
		ReminderEnabled: true,
		ReminderTime:    "non-un-orario",
	})

	out := ReminderSweep(snap, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	assert.Empty(t, out)
}

func TestReengagementSweepFiresAfterThreeDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	silent := models.User{ChatID: 1, LastInteraction: now.Add(-4 * 24 * time.Hour)}
	recent := models.User{ChatID: 2, LastInteraction: now.Add(-2 * time.Hour)}

	snap := snapshotWith(silent, recent)
	out := ReengagementSweep(snap, now)
	require.Len(t, out, 1)
	assert.Equal(t, OutreachReengagement, out[0].Kind)
	assert.Equal(t, int64(1), out[0].ChatID)
}

func TestReengagementSweepRefiresWhileSilent(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	snap := snapshotWith(models.User{ChatID: 1, LastInteraction: now.Add(-5 * 24 * time.Hour)})

	// No suppression between invocations: still silent, still nudged.
	require.Len(t, ReengagementSweep(snap, now), 1)
	require.Len(t, ReengagementSweep(snap, now.Add(24*time.Hour)), 1)
}

func TestReengagementSweepSkipsGoalless(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Users:       []models.User{{ChatID: 1, LastInteraction: now.Add(-5 * 24 * time.Hour)}},
		ActiveGoals: map[int64]int{},
	}

	assert.Empty(t, ReengagementSweep(snap, now))
}

func TestRecapSweepCoversActiveUsersOnly(t *testing.T) {
	busy := models.User{ChatID: 1, StreakDays: 7, Level: 3}
	idle := models.User{ChatID: 2}

	snap := Snapshot{
		Users:       []models.User{busy, idle},
		ActiveGoals: map[int64]int{1: 2},
	}

	out := RecapSweep(snap, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))
	require.Len(t, out, 1)
	assert.Equal(t, OutreachRecap, out[0].Kind)
	assert.Equal(t, 2, out[0].ActiveGoals)
	assert.Equal(t, 7, out[0].StreakDays)
}

func TestParseReminderTime(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
		wantOK     bool
	}{
		{value: "09:00", wantHour: 9, wantMinute: 0, wantOK: true},
		{value: "23:59", wantHour: 23, wantMinute: 59, wantOK: true},
		{value: "0:05", wantHour: 0, wantMinute: 5, wantOK: true},
		{value: "24:00", wantOK: false},
		{value: "12:60", wantOK: false},
		{value: "mezzogiorno", wantOK: false},
	}

	for _, tt := range tests {
		hour, minute, ok := parseReminderTime(tt.value)
		assert.Equal(t, tt.wantOK, ok, "value %q", tt.value)
		if tt.wantOK {
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		}
	}
}
