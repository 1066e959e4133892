package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/tahcohcat/coach-pro/internal/models"
	"github.com/tahcohcat/coach-pro/internal/services"
)

// CoachHandler exposes a read-only view of the coach state for
// dashboards and debugging. All mutation happens through the chat
// surface, never here.
type CoachHandler struct {
	users        *services.UserService
	ledger       *services.LedgerService
	gamification *services.GamificationService
}

func NewCoachHandler(users *services.UserService, ledger *services.LedgerService, gamification *services.GamificationService) *CoachHandler {
	return &CoachHandler{
		users:        users,
		ledger:       ledger,
		gamification: gamification,
	}
}

func RegisterRoutes(router *mux.Router, users *services.UserService, ledger *services.LedgerService, gamification *services.GamificationService) *CoachHandler {
	handler := NewCoachHandler(users, ledger, gamification)

	router.HandleFunc("/users/{chatID}/stats", handler.GetStats).Methods("GET")
	router.HandleFunc("/users/{chatID}/goals", handler.ListGoals).Methods("GET")
	router.HandleFunc("/users/{chatID}/badges", handler.ListBadges).Methods("GET")
	router.HandleFunc("/users/{chatID}/history", handler.GetHistory).Methods("GET")

	return handler
}

func chatIDFromRequest(r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	chatID, err := strconv.ParseInt(vars["chatID"], 10, 64)
	if err != nil {
		return 0, false
	}
	return chatID, true
}

// GET /api/v1/users/{chatID}/stats - Points, level and goal totals
func (ch *CoachHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	user, err := ch.users.Get(chatID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	stats, err := ch.users.Stats(chatID)
	if err != nil {
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"chat_id":         user.ChatID,
		"name":            user.DisplayName(),
		"total_points":    user.TotalPoints,
		"level":           user.Level,
		"level_name":      models.LevelInfo(user.Level).Name,
		"streak_days":     user.StreakDays,
		"active_goals":    stats.ActiveGoals,
		"completed_goals": stats.CompletedGoals,
		"avg_progress":    stats.AvgProgress,
	})
}

// GET /api/v1/users/{chatID}/goals - All goals, newest first
func (ch *CoachHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	goals, err := ch.ledger.AllGoals(chatID)
	if err != nil {
		http.Error(w, "Failed to load goals", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"goals": goals,
		"count": len(goals),
	})
}

// GET /api/v1/users/{chatID}/badges - Earned badges with metadata
func (ch *CoachHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	badges, err := ch.gamification.Badges(chatID)
	if err != nil {
		http.Error(w, "Failed to load badges", http.StatusInternalServerError)
		return
	}

	type badgeView struct {
		Type     models.BadgeType `json:"type"`
		Name     string           `json:"name"`
		Emoji    string           `json:"emoji"`
		EarnedAt string           `json:"earned_at"`
	}

	views := make([]badgeView, 0, len(badges))
	for _, b := range badges {
		info := b.Type.Info()
		views = append(views, badgeView{
			Type:     b.Type,
			Name:     info.Name,
			Emoji:    info.Emoji,
			EarnedAt: b.EarnedAt.Format("2006-01-02"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"badges": views,
		"count":  len(views),
	})
}

// GET /api/v1/users/{chatID}/history?limit=N - Recent progress events
func (ch *CoachHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	history, err := ch.ledger.History(chatID, limit)
	if err != nil {
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

// GET /healthz - Liveness probe
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
	})
}
