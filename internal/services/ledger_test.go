package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGoalDefaults(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	goal, err := ledger.CreateGoal(user.ChatID, "Correre 5km tre volte a settimana")
	require.NoError(t, err)

	assert.Equal(t, "Correre 5km tre volte a settimana", goal.Title)
	assert.Equal(t, "generale", goal.Category)
	assert.Equal(t, 0, goal.Progress)
	assert.False(t, goal.Completed)
	assert.Nil(t, goal.CompletedAt)
}

func TestActiveGoalsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Leggere dodici libri quest'anno")
	require.NoError(t, err)
	_, err = ledger.CreateGoal(user.ChatID, "Risparmiare 200 euro al mese")
	require.NoError(t, err)

	goals, err := ledger.ActiveGoals(user.ChatID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "Risparmiare 200 euro al mese", goals[0].Title)
	assert.Equal(t, "Leggere dodici libri quest'anno", goals[1].Title)
}

func TestApplyProgressBasic(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Meditare dieci minuti al giorno")
	require.NoError(t, err)

	result, err := ledger.ApplyProgress(user.ChatID, 1, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, result.Goal.Progress)
	assert.False(t, result.Completed)

	history, err := ledger.History(user.ChatID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 0, history[0].OldProgress)
	assert.Equal(t, 30, history[0].NewProgress)
	assert.Equal(t, 30, history[0].ChangeValue)
}

func TestApplyProgressClampsAboveHundred(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Completare il corso di spagnolo")
	require.NoError(t, err)

	result, err := ledger.ApplyProgress(user.ChatID, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Goal.Progress)
	assert.True(t, result.Completed)
	require.NotNil(t, result.Goal.CompletedAt)

	// The audit event records the clamped landing value, not 200.
	history, err := ledger.History(user.ChatID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 100, history[0].NewProgress)
	assert.Equal(t, 200, history[0].ChangeValue)
}

func TestApplyProgressClampsBelowZero(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Scrivere un capitolo ogni settimana")
	require.NoError(t, err)
	_, err = ledger.ApplyProgress(user.ChatID, 1, 10)
	require.NoError(t, err)

	result, err := ledger.ApplyProgress(user.ChatID, 1, -50)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Goal.Progress)
	assert.False(t, result.Completed)
}

func TestApplyProgressCompletionCrossing(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Perdere cinque chili entro giugno")
	require.NoError(t, err)
	_, err = ledger.ApplyProgress(user.ChatID, 1, 95)
	require.NoError(t, err)

	result, err := ledger.ApplyProgress(user.ChatID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Goal.Progress)
	assert.True(t, result.Completed)

	// A completed goal leaves the active snapshot.
	active, err := ledger.ActiveGoals(user.ChatID)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := ledger.AllGoals(user.ChatID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed)
}

func TestApplyProgressIndexOutOfRange(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Imparare a suonare la chitarra")
	require.NoError(t, err)

	_, err = ledger.ApplyProgress(user.ChatID, 2, 10)
	assert.ErrorIs(t, err, ErrGoalNotFound)
	_, err = ledger.ApplyProgress(user.ChatID, 0, 10)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	// Nothing mutated, nothing audited.
	goals, err := ledger.ActiveGoals(user.ChatID)
	require.NoError(t, err)
	assert.Equal(t, 0, goals[0].Progress)

	history, err := ledger.History(user.ChatID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestApplyProgressIndexShiftsAfterCompletion(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Finire il progetto del sito web")
	require.NoError(t, err)
	_, err = ledger.CreateGoal(user.ChatID, "Preparare la mezza maratona")
	require.NoError(t, err)

	// Newest first: index 1 is the marathon goal. Complete it.
	result, err := ledger.ApplyProgress(user.ChatID, 1, 100)
	require.NoError(t, err)
	require.True(t, result.Completed)

	// The remaining goal is now index 1 of the fresh snapshot.
	result, err = ledger.ApplyProgress(user.ChatID, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, "Finire il progetto del sito web", result.Goal.Title)
	assert.Equal(t, 25, result.Goal.Progress)
}

func TestActiveGoalCounts(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, 1)
	bob := seedUser(t, db, 2)
	ledger := NewLedgerService(db)

	_, err := ledger.CreateGoal(alice.ChatID, "Dormire otto ore ogni notte")
	require.NoError(t, err)
	_, err = ledger.CreateGoal(alice.ChatID, "Cucinare a casa cinque sere")
	require.NoError(t, err)
	_, err = ledger.CreateGoal(bob.ChatID, "Fare stretching ogni mattina")
	require.NoError(t, err)
	_, err = ledger.ApplyProgress(bob.ChatID, 1, 100)
	require.NoError(t, err)

	counts, err := ledger.ActiveGoalCounts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[alice.ChatID])
	assert.Zero(t, counts[bob.ChatID])
}

func TestUserStatsAggregation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, 100)
	ledger := NewLedgerService(db)
	users := NewUserService(db)

	_, err := ledger.CreateGoal(user.ChatID, "Bere due litri d'acqua al giorno")
	require.NoError(t, err)
	_, err = ledger.CreateGoal(user.ChatID, "Camminare diecimila passi al giorno")
	require.NoError(t, err)
	_, err = ledger.ApplyProgress(user.ChatID, 1, 100)
	require.NoError(t, err)
	_, err = ledger.ApplyProgress(user.ChatID, 1, 50)
	require.NoError(t, err)

	stats, err := users.Stats(user.ChatID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveGoals)
	assert.Equal(t, 1, stats.CompletedGoals)
	assert.Equal(t, 75, stats.AvgProgress)
}
