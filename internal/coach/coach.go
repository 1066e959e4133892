package coach

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/tahcohcat/coach-pro/internal/chart"
	"github.com/tahcohcat/coach-pro/internal/intent"
	"github.com/tahcohcat/coach-pro/internal/llm"
	"github.com/tahcohcat/coach-pro/internal/logger"
	"github.com/tahcohcat/coach-pro/internal/models"
	"github.com/tahcohcat/coach-pro/internal/scheduler"
	"github.com/tahcohcat/coach-pro/internal/services"
	"github.com/tahcohcat/coach-pro/internal/transport"
)

// onboardingCategories is the category picker shown on first contact.
var onboardingCategories = []transport.Choice{
	{ID: "cat_fitness", Label: "💪 Fitness"},
	{ID: "cat_carriera", Label: "💼 Carriera"},
	{ID: "cat_finanze", Label: "💰 Finanze"},
	{ID: "cat_studio", Label: "📚 Studio"},
	{ID: "cat_relazioni", Label: "❤️ Relazioni"},
	{ID: "cat_hobby", Label: "🎨 Hobby"},
	{ID: "cat_altro", Label: "🔍 Altro"},
}

// Coach is the interaction core: it classifies inbound messages, drives
// the ledger and the gamification engine, and composes every reply.
type Coach struct {
	users         *services.UserService
	ledger        *services.LedgerService
	gamification  *services.GamificationService
	conversations *services.ConversationService
	ai            llm.LLM
	canned        *llm.Canned
	logger        *logger.Log

	transports []transport.Transport

	// Per-user serialization: messages from the same user are handled
	// one at a time so read-modify-write transitions never interleave.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New(users *services.UserService, ledger *services.LedgerService, gamification *services.GamificationService,
	conversations *services.ConversationService, ai llm.LLM) *Coach {
	return &Coach{
		users:         users,
		ledger:        ledger,
		gamification:  gamification,
		conversations: conversations,
		ai:            ai,
		canned:        llm.NewCanned(),
		logger:        logger.New(),
		locks:         make(map[int64]*sync.Mutex),
	}
}

// AddTransport registers an outbound channel. Every send goes to all
// registered transports.
func (c *Coach) AddTransport(t transport.Transport) {
	c.transports = append(c.transports, t)
}

func (c *Coach) userLock(chatID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[chatID] = lock
	}
	return lock
}

// sendText delivers to every transport; a failed send is logged and
// swallowed, never surfaced to the caller.
func (c *Coach) sendText(chatID int64, text string) {
	for _, t := range c.transports {
		if err := t.SendText(chatID, text, true); err != nil {
			c.logger.WithError(err).Warnf("Send failed for chat %d", chatID)
		}
	}
}

func (c *Coach) sendImage(chatID int64, png []byte, caption string) error {
	var lastErr error
	for _, t := range c.transports {
		if err := t.SendImage(chatID, png, caption); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *Coach) sendChoices(chatID int64, text string, choices []transport.Choice) {
	for _, t := range c.transports {
		if err := t.SendChoicePrompt(chatID, text, choices); err != nil {
			c.logger.WithError(err).Warnf("Choice prompt failed for chat %d", chatID)
		}
	}
}

// sendEvents renders gamification events into their notifications.
func (c *Coach) sendEvents(events []services.Event) {
	for _, e := range events {
		switch e.Kind {
		case services.EventPointsAwarded:
			c.sendText(e.ChatID, composePointsAwarded(e.Points, e.Reason))
		case services.EventLevelUp:
			c.sendText(e.ChatID, composeLevelUp(e.Level))
		case services.EventBadgeEarned:
			c.sendText(e.ChatID, composeBadgeEarned(e.Badge))
		}
	}
}

// OnTextMessage is the inbound entry point for plain messages.
func (c *Coach) OnTextMessage(chatID int64, username, firstName, text string) {
	lock := c.userLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	user, err := c.users.GetOrCreate(chatID, username, firstName)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load user %d", chatID)
		return
	}

	if strings.HasPrefix(text, "/") {
		c.handleCommand(user, text)
		return
	}

	c.recordActivity(chatID)
	c.handleFreeText(user, text)
}

// OnChoiceSelected is the inbound entry point for inline choices.
func (c *Coach) OnChoiceSelected(chatID int64, choiceID string) {
	lock := c.userLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	user, err := c.users.GetOrCreate(chatID, "", "")
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load user %d", chatID)
		return
	}

	switch {
	case strings.HasPrefix(choiceID, "cat_"):
		category := strings.TrimPrefix(choiceID, "cat_")
		if err := c.users.CompleteOnboarding(chatID); err != nil {
			c.logger.WithError(err).Warnf("Failed to complete onboarding for %d", chatID)
		}
		c.sendText(chatID, composeCategoryChosen(category))
	case choiceID == "reminder_on", choiceID == "reminder_off":
		enabled := choiceID == "reminder_on"
		if err := c.users.SetReminderEnabled(chatID, enabled); err != nil {
			c.logger.WithError(err).Warnf("Failed to toggle reminder for %d", chatID)
			return
		}
		c.sendText(chatID, composeReminderToggled(enabled))
	case choiceID == "show_charts":
		c.commandCharts(user)
	case choiceID == "new_goal":
		c.sendText(chatID, composeNewGoalPrompt())
	}
}

// ExecuteOutreach implements the scheduler executor: compose and send,
// fire-and-forget.
func (c *Coach) ExecuteOutreach(instructions []scheduler.Outreach) {
	for _, o := range instructions {
		if text := composeOutreach(o); text != "" {
			c.sendText(o.ChatID, text)
		}
	}
}

func (c *Coach) recordActivity(chatID int64) {
	events, err := c.gamification.RecordActivity(chatID, time.Now())
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to record activity for %d", chatID)
		return
	}
	c.sendEvents(events)
}

func (c *Coach) handleCommand(user *models.User, text string) {
	command := strings.Fields(text)[0]
	// Strip the bot mention of group chats: "/stats@CoachBot".
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}

	switch command {
	case "/start":
		c.recordActivity(user.ChatID)
		c.commandStart(user)
	case "/nuovo":
		c.recordActivity(user.ChatID)
		c.sendText(user.ChatID, composeNewGoalPrompt())
	case "/obiettivi":
		c.recordActivity(user.ChatID)
		c.commandGoals(user)
	case "/progresso":
		c.recordActivity(user.ChatID)
		c.commandProgress(user)
	case "/stats":
		c.recordActivity(user.ChatID)
		c.commandStats(user)
	case "/grafici":
		c.recordActivity(user.ChatID)
		c.commandCharts(user)
	case "/motivazione":
		c.recordActivity(user.ChatID)
		c.commandMotivation(user)
	case "/badge":
		c.recordActivity(user.ChatID)
		c.commandBadges(user)
	case "/promemoria":
		c.commandReminder(user)
	case "/aiuto":
		c.sendText(user.ChatID, composeHelp())
	default:
		c.sendText(user.ChatID, composeHelp())
	}
}

func (c *Coach) commandStart(user *models.User) {
	if !user.OnboardingCompleted {
		c.sendText(user.ChatID, composeWelcome(user.DisplayName()))
		c.sendChoices(user.ChatID, composeCategoryPrompt(), onboardingCategories)
		return
	}

	stats, err := c.users.Stats(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load stats for %d", user.ChatID)
		return
	}
	c.sendText(user.ChatID, composeWelcomeBack(user, stats))
}

func (c *Coach) commandGoals(user *models.User) {
	goals, err := c.ledger.AllGoals(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to list goals for %d", user.ChatID)
		return
	}

	c.sendText(user.ChatID, composeGoalList(goals))
	if len(goals) > 0 {
		c.sendChoices(user.ChatID, "Cosa vuoi fare?", []transport.Choice{
			{ID: "show_charts", Label: "📊 Vedi Grafici"},
			{ID: "new_goal", Label: "➕ Nuovo Obiettivo"},
		})
	}
}

func (c *Coach) commandProgress(user *models.User) {
	goals, err := c.ledger.ActiveGoals(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to list active goals for %d", user.ChatID)
		return
	}
	c.sendText(user.ChatID, composeProgressPrompt(goals))
}

func (c *Coach) commandStats(user *models.User) {
	stats, err := c.users.Stats(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load stats for %d", user.ChatID)
		return
	}
	badges, err := c.gamification.Badges(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load badges for %d", user.ChatID)
		return
	}
	c.sendText(user.ChatID, composeStats(user, stats, badges))
}

func (c *Coach) commandCharts(user *models.User) {
	goals, err := c.ledger.RecentGoals(user.ChatID, chart.MaxGoals)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load goals for chart for %d", user.ChatID)
		return
	}
	if len(goals) == 0 {
		c.sendText(user.ChatID, composeNoChartData())
		return
	}

	png, err := chart.RenderProgress(goals)
	if err != nil {
		c.logger.WithError(err).Error("Chart rendering failed")
		c.sendText(user.ChatID, composeChartFailed())
		return
	}

	if err := c.sendImage(user.ChatID, png, composeChartCaption()); err != nil {
		c.logger.WithError(err).Warnf("Chart delivery failed for %d", user.ChatID)
		c.sendText(user.ChatID, composeChartFailed())
		return
	}

	events, err := c.gamification.AddPoints(user.ChatID, services.PointsChartViewed, "Hai controllato i tuoi progressi!")
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to award chart points for %d", user.ChatID)
		return
	}
	c.sendEvents(events)
}

func (c *Coach) commandMotivation(user *models.User) {
	quote := MotivationalQuotes[rand.Intn(len(MotivationalQuotes))]
	c.sendText(user.ChatID, quote)

	events, err := c.gamification.AddPoints(user.ChatID, services.PointsQuote, "")
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to award quote points for %d", user.ChatID)
		return
	}
	c.sendEvents(events)
}

func (c *Coach) commandReminder(user *models.User) {
	toggle := transport.Choice{ID: "reminder_off", Label: "🔕 Disattiva promemoria"}
	if !user.ReminderEnabled {
		toggle = transport.Choice{ID: "reminder_on", Label: "🔔 Attiva promemoria"}
	}
	c.sendChoices(user.ChatID, composeReminderPrompt(user.ReminderTime, user.ReminderEnabled), []transport.Choice{toggle})
}

func (c *Coach) commandBadges(user *models.User) {
	badges, err := c.gamification.Badges(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to load badges for %d", user.ChatID)
		return
	}
	c.sendText(user.ChatID, composeBadgeList(badges))
}

// handleFreeText routes a non-command message through the intent
// classifier.
func (c *Coach) handleFreeText(user *models.User, text string) {
	classified := intent.Classify(text)

	switch classified.Kind {
	case intent.ProgressUpdate:
		c.applyProgress(user, classified.GoalIndex, classified.Delta)
	case intent.ReminderTimeSet:
		if err := c.users.SetReminderTime(user.ChatID, classified.Hour, classified.Minute); err != nil {
			c.logger.WithError(err).Errorf("Failed to set reminder for %d", user.ChatID)
			return
		}
		c.sendText(user.ChatID, composeReminderSet(classified.Hour, classified.Minute))
	case intent.NewGoal:
		c.createGoal(user, classified.Title)
	default:
		c.freeChat(user, text)
	}
}

func (c *Coach) applyProgress(user *models.User, goalIndex, delta int) {
	result, err := c.ledger.ApplyProgress(user.ChatID, goalIndex, delta)
	if errors.Is(err, services.ErrGoalNotFound) {
		c.sendText(user.ChatID, composeGoalNotFound())
		return
	}
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to apply progress for %d", user.ChatID)
		return
	}

	c.sendText(user.ChatID, composeProgressUpdated(result.Goal, delta, result.Completed))

	if points := services.ProgressPoints(delta); points > 0 {
		events, err := c.gamification.AddPoints(user.ChatID, points, "Progresso aggiornato!")
		if err != nil {
			c.logger.WithError(err).Warnf("Failed to award progress points for %d", user.ChatID)
		} else {
			c.sendEvents(events)
		}
	}

	if result.Completed {
		events, err := c.gamification.OnGoalCompleted(user.ChatID)
		if err != nil {
			c.logger.WithError(err).Errorf("Failed to apply completion rewards for %d", user.ChatID)
			return
		}
		c.sendEvents(events)
	}
}

func (c *Coach) createGoal(user *models.User, title string) {
	goal, err := c.ledger.CreateGoal(user.ChatID, title)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to create goal for %d", user.ChatID)
		return
	}

	c.sendText(user.ChatID, composeGoalCreated(goal.Title))

	events, err := c.gamification.OnGoalCreated(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Errorf("Failed to apply creation rewards for %d", user.ChatID)
		return
	}
	c.sendEvents(events)
}

// freeChat answers conversational text with the AI coach, falling back to
// the canned responder on any failure. The user always gets an answer.
func (c *Coach) freeChat(user *models.User, text string) {
	reply := c.aiReply(user, text)
	c.sendText(user.ChatID, reply)

	events, err := c.gamification.AddPoints(user.ChatID, services.PointsFreeChat, "")
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to award chat points for %d", user.ChatID)
		return
	}
	c.sendEvents(events)
}

func (c *Coach) aiReply(user *models.User, text string) string {
	if c.ai == nil {
		return c.canned.Respond(user.DisplayName(), text)
	}

	goals, err := c.ledger.ActiveGoals(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to load goals for AI context for %d", user.ChatID)
		return c.canned.Respond(user.DisplayName(), text)
	}

	stored, err := c.conversations.Recent(user.ChatID)
	if err != nil {
		c.logger.WithError(err).Warnf("Failed to load conversation context for %d", user.ChatID)
		return c.canned.Respond(user.DisplayName(), text)
	}

	turns := make([]llm.Turn, 0, len(stored))
	for _, t := range stored {
		turns = append(turns, llm.Turn{Role: t.Role, Content: t.Content})
	}

	reply, err := c.ai.Complete(context.Background(), buildSystemContext(user, goals), turns, text)
	if err != nil || strings.TrimSpace(reply) == "" {
		c.logger.WithError(err).Warn("AI coach unavailable, using canned reply")
		return c.canned.Respond(user.DisplayName(), text)
	}

	if err := c.conversations.Append(user.ChatID, models.RoleUser, text); err != nil {
		c.logger.WithError(err).Warnf("Failed to store user turn for %d", user.ChatID)
	}
	if err := c.conversations.Append(user.ChatID, models.RoleAssistant, reply); err != nil {
		c.logger.WithError(err).Warnf("Failed to store assistant turn for %d", user.ChatID)
	}

	return reply
}

func buildSystemContext(user *models.User, goals []models.Goal) string {
	titles := make([]string, 0, len(goals))
	for _, g := range goals {
		titles = append(titles, fmt.Sprintf("%s (%d%%)", g.Title, g.Progress))
	}

	return fmt.Sprintf("Sei un coach motivazionale entusiasta e di supporto.\n"+
		"User info: %s, Livello %d, Streak %d giorni.\n"+
		"Obiettivi attivi: %s.\n"+
		"Fornisci risposte brevi (max 2-3 frasi), motivanti e pratiche in italiano.",
		user.DisplayName(), user.Level, user.StreakDays, strings.Join(titles, ", "))
}
