package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "coach_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *database.DB, chatID int64) *models.User {
	t.Helper()

	user, err := NewUserService(db).GetOrCreate(chatID, "test_user", "Marco")
	require.NoError(t, err)
	return user
}

// setLastActivity pins the streak state so tests can simulate day gaps.
func setLastActivity(t *testing.T, db *database.DB, chatID int64, day string, streak int) {
	t.Helper()

	_, err := db.Exec(`UPDATE users SET last_activity_date = ?, streak_days = ? WHERE chat_id = ?`, day, streak, chatID)
	require.NoError(t, err)
}

func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func dayString(t time.Time) string {
	return t.Format(dayFormat)
}
