package coach

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
	"github.com/tahcohcat/coach-pro/internal/scheduler"
	"github.com/tahcohcat/coach-pro/internal/services"
	"github.com/tahcohcat/coach-pro/internal/transport"
)

// fakeTransport records every outbound message in memory.
type fakeTransport struct {
	texts   []string
	images  int
	choices []string
}

func (f *fakeTransport) SendText(chatID int64, text string, markdown bool) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeTransport) SendImage(chatID int64, png []byte, caption string) error {
	f.images++
	return nil
}

func (f *fakeTransport) SendChoicePrompt(chatID int64, text string, choices []transport.Choice) error {
	f.choices = append(f.choices, text)
	return nil
}

func (f *fakeTransport) joined() string {
	return strings.Join(f.texts, "\n---\n")
}

type testHarness struct {
	coach        *Coach
	transport    *fakeTransport
	users        *services.UserService
	ledger       *services.LedgerService
	gamification *services.GamificationService
}

func newTestCoach(t *testing.T) *testHarness {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "coach_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := services.NewUserService(db)
	ledger := services.NewLedgerService(db)
	gamification := services.NewGamificationService(db, ledger, nil)
	conversations := services.NewConversationService(db)

	c := New(users, ledger, gamification, conversations, nil)
	ft := &fakeTransport{}
	c.AddTransport(ft)

	return &testHarness{coach: c, transport: ft, users: users, ledger: ledger, gamification: gamification}
}

const testChatID = int64(42)

func TestNewGoalFlowAwardsPointsAndBadge(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Correre 5km tre volte a settimana")

	goals, err := h.ledger.ActiveGoals(testChatID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Correre 5km tre volte a settimana", goals[0].Title)

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.Equal(t, services.PointsNewGoal, user.TotalPoints)
	assert.Equal(t, 1, user.Level)

	badges, err := h.gamification.Badges(testChatID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, models.BadgeFirstGoal, badges[0].Type)

	out := h.transport.joined()
	assert.Contains(t, out, "Obiettivo aggiunto")
	assert.Contains(t, out, "Primo Obiettivo")
}

func TestProgressUpdateFlow(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Leggere venti pagine ogni sera")
	h.transport.texts = nil

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "1 +30")

	goals, err := h.ledger.ActiveGoals(testChatID)
	require.NoError(t, err)
	assert.Equal(t, 30, goals[0].Progress)

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	// 20 for the goal, 6 for the +30 delta.
	assert.Equal(t, services.PointsNewGoal+6, user.TotalPoints)

	out := h.transport.joined()
	assert.Contains(t, out, "Aggiornato")
	assert.Contains(t, out, "30%")
}

func TestCompletionFlowAwardsBonusOnce(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Completare il corso di spagnolo")
	h.coach.OnTextMessage(testChatID, "marco", "Marco", "1 +95")
	h.transport.texts = nil

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "1 +10")

	all, err := h.ledger.AllGoals(testChatID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Completed)
	assert.Equal(t, 100, all[0].Progress)

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	// 20 creation + 19 for +95 + 2 for +10 + 100 completion bonus.
	assert.Equal(t, 141, user.TotalPoints)
	assert.Equal(t, 2, user.Level)

	badges, err := h.gamification.Badges(testChatID)
	require.NoError(t, err)
	kinds := make(map[models.BadgeType]bool)
	for _, b := range badges {
		kinds[b.Type] = true
	}
	assert.True(t, kinds[models.BadgeFirstComplete])

	out := h.transport.joined()
	assert.Contains(t, out, "OBIETTIVO COMPLETATO")
	assert.Contains(t, out, "LEVEL UP")
}

func TestProgressUpdateUnknownIndex(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Scrivere un capitolo ogni settimana")
	h.transport.texts = nil

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "3 +10")

	out := h.transport.joined()
	assert.Contains(t, out, "Non ho trovato quell'obiettivo")

	goals, err := h.ledger.ActiveGoals(testChatID)
	require.NoError(t, err)
	assert.Equal(t, 0, goals[0].Progress)
}

func TestReminderTimeSetFlow(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "8:30")

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.Equal(t, "08:30", user.ReminderTime)

	assert.Contains(t, h.transport.joined(), "Promemoria impostato alle 8:30")
}

func TestFreeChatFallsBackToCannedReply(t *testing.T) {
	h := newTestCoach(t)

	// No AI client configured: chat-shaped text gets a canned reply,
	// never silence.
	h.coach.OnTextMessage(testChatID, "marco", "Marco", "come posso restare motivato ogni giorno?")

	out := h.transport.joined()
	assert.Contains(t, out, "Marco")
	require.NotEmpty(t, h.transport.texts)

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.Equal(t, services.PointsFreeChat, user.TotalPoints)
}

func TestStartCommandOnboardsNewUser(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/start")

	assert.Contains(t, h.transport.joined(), "Benvenuto nel Coach Motivazionale PRO")
	require.Len(t, h.transport.choices, 1)

	h.coach.OnChoiceSelected(testChatID, "cat_fitness")
	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.True(t, user.OnboardingCompleted)
}

func TestStartCommandWelcomesBackOnboardedUser(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/start")
	h.coach.OnChoiceSelected(testChatID, "cat_fitness")
	h.transport.texts = nil

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/start")
	assert.Contains(t, h.transport.joined(), "Bentornato, Marco")
}

func TestStatsCommand(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Bere due litri d'acqua al giorno")
	h.transport.texts = nil

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/stats")

	out := h.transport.joined()
	assert.Contains(t, out, "LE TUE STATISTICHE")
	assert.Contains(t, out, "Attivi: 1")
}

func TestMotivationCommandAwardsPoints(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/motivazione")

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.Equal(t, services.PointsQuote, user.TotalPoints)
	require.NotEmpty(t, h.transport.texts)
}

func TestHelpCommandDoesNotTouchStreak(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/aiuto")

	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.StreakDays)
	assert.Contains(t, h.transport.joined(), "COMANDI DISPONIBILI")
}

func TestReminderToggleFlow(t *testing.T) {
	h := newTestCoach(t)

	h.coach.OnTextMessage(testChatID, "marco", "Marco", "/promemoria")
	require.Len(t, h.transport.choices, 1)
	assert.Contains(t, h.transport.choices[0], "09:00 (attivo)")

	h.coach.OnChoiceSelected(testChatID, "reminder_off")
	user, err := h.users.Get(testChatID)
	require.NoError(t, err)
	assert.False(t, user.ReminderEnabled)
	assert.Contains(t, h.transport.joined(), "Promemoria disattivati")

	h.coach.OnChoiceSelected(testChatID, "reminder_on")
	user, err = h.users.Get(testChatID)
	require.NoError(t, err)
	assert.True(t, user.ReminderEnabled)
}

func TestExecuteOutreachSendsComposedMessages(t *testing.T) {
	h := newTestCoach(t)
	h.coach.OnTextMessage(testChatID, "marco", "Marco", "Fare stretching ogni mattina")
	h.transport.texts = nil

	h.coach.ExecuteOutreach([]scheduler.Outreach{
		{Kind: scheduler.OutreachReminder, ChatID: testChatID, ActiveGoals: 1, StreakDays: 2},
		{Kind: scheduler.OutreachRecap, ChatID: testChatID, ActiveGoals: 1, StreakDays: 2, LevelName: "🌱 Principiante"},
	})

	require.Len(t, h.transport.texts, 2)
	assert.Contains(t, h.transport.texts[0], "Promemoria giornaliero")
	assert.Contains(t, h.transport.texts[1], "BUON LUNEDÌ")
}
