package services

import (
	"fmt"
	"time"

	"github.com/tahcohcat/coach-pro/internal/database"
	"github.com/tahcohcat/coach-pro/internal/models"
)

// Point awards, fixed policy.
const (
	PointsNewGoal       = 20
	PointsGoalCompleted = 100
	PointsChartViewed   = 5
	PointsQuote         = 2
	PointsFreeChat      = 1
)

// ProgressPoints converts a requested progress delta into points:
// floor(delta/5), zero or negative deltas award nothing.
func ProgressPoints(delta int) int {
	if delta <= 0 {
		return 0
	}
	return delta / 5
}

// GamificationService owns points, level, streak and badge state.
type GamificationService struct {
	db     *database.DB
	ledger *LedgerService
	loc    *time.Location
}

func NewGamificationService(db *database.DB, ledger *LedgerService, loc *time.Location) *GamificationService {
	if loc == nil {
		loc = time.Local
	}
	return &GamificationService{db: db, ledger: ledger, loc: loc}
}

const dayFormat = "2006-01-02"

// RecordActivity refreshes the streak for an interaction happening at the
// given instant. Same calendar day: no change. Consecutive day: streak+1
// with milestone badge checks. Any gap (or first ever activity): reset to 1.
// Also awards the early-bird / night-owl badges from the local hour.
func (s *GamificationService) RecordActivity(chatID int64, now time.Time) ([]Event, error) {
	local := now.In(s.loc)
	today := local.Format(dayFormat)
	yesterday := local.AddDate(0, 0, -1).Format(dayFormat)

	var user models.User
	if err := s.db.Get(&user, `SELECT chat_id, streak_days, last_activity_date FROM users WHERE chat_id = ?`, chatID); err != nil {
		return nil, fmt.Errorf("failed to load user for activity: %w", err)
	}

	var events []Event
	newStreak := user.StreakDays
	if user.LastActivityDate != today {
		if user.LastActivityDate == yesterday {
			newStreak++
			streakEvents, err := s.checkStreakBadges(chatID, newStreak)
			if err != nil {
				return nil, err
			}
			events = append(events, streakEvents...)
		} else {
			newStreak = 1
		}
	}

	query := `UPDATE users SET last_interaction = ?, last_activity_date = ?, streak_days = ? WHERE chat_id = ?`
	if _, err := s.db.Exec(query, now, today, newStreak, chatID); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	// Time-of-day badges, independent of the streak logic.
	if local.Hour() < 7 {
		badgeEvents, err := s.AwardBadge(chatID, models.BadgeEarlyBird)
		if err != nil {
			return nil, err
		}
		events = append(events, badgeEvents...)
	}
	if local.Hour() >= 23 {
		badgeEvents, err := s.AwardBadge(chatID, models.BadgeNightOwl)
		if err != nil {
			return nil, err
		}
		events = append(events, badgeEvents...)
	}

	return events, nil
}

// AddPoints adds a non-negative amount and recomputes the level from the
// fixed ladder. A level-up event fires at most once per call: only the
// final level is compared against the prior one, however many thresholds
// the award crossed.
func (s *GamificationService) AddPoints(chatID int64, amount int, reason string) ([]Event, error) {
	if amount < 0 {
		amount = 0
	}

	var user models.User
	if err := s.db.Get(&user, `SELECT chat_id, total_points, level FROM users WHERE chat_id = ?`, chatID); err != nil {
		return nil, fmt.Errorf("failed to load user for points: %w", err)
	}

	newPoints := user.TotalPoints + amount
	newLevel := models.LevelForPoints(newPoints)

	if _, err := s.db.Exec(`UPDATE users SET total_points = ?, level = ? WHERE chat_id = ?`, newPoints, newLevel, chatID); err != nil {
		return nil, fmt.Errorf("failed to update points: %w", err)
	}

	var events []Event
	if newLevel > user.Level {
		events = append(events, Event{Kind: EventLevelUp, ChatID: chatID, Level: newLevel})

		if newLevel == 5 {
			badgeEvents, err := s.AwardBadge(chatID, models.BadgeLevel5)
			if err != nil {
				return nil, err
			}
			events = append(events, badgeEvents...)
		}
		if newLevel == 10 {
			badgeEvents, err := s.AwardBadge(chatID, models.BadgeLevel10)
			if err != nil {
				return nil, err
			}
			events = append(events, badgeEvents...)
		}
	}

	if amount > 0 && reason != "" {
		events = append(events, Event{Kind: EventPointsAwarded, ChatID: chatID, Points: amount, Reason: reason})
	}

	return events, nil
}

// AwardBadge inserts the badge record unless the user already holds that
// kind. Idempotent: the unique index on (chat_id, badge_type) makes the
// insert-if-absent atomic, so a repeated award is a silent no-op.
func (s *GamificationService) AwardBadge(chatID int64, badge models.BadgeType) ([]Event, error) {
	if !badge.IsValid() {
		return nil, fmt.Errorf("unknown badge type: %s", badge)
	}

	result, err := s.db.Exec(`INSERT OR IGNORE INTO badges (chat_id, badge_type, earned_at) VALUES (?, ?, ?)`,
		chatID, badge, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to award badge: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check badge insert: %w", err)
	}
	if inserted == 0 {
		return nil, nil
	}

	return []Event{{Kind: EventBadgeEarned, ChatID: chatID, Badge: badge}}, nil
}

// Badges returns the user's earned badges, newest first.
func (s *GamificationService) Badges(chatID int64) ([]models.Badge, error) {
	var badges []models.Badge
	query := `SELECT id, chat_id, badge_type, earned_at FROM badges WHERE chat_id = ? ORDER BY earned_at DESC, id DESC`

	if err := s.db.Select(&badges, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// OnGoalCreated reacts to a new goal: creation points plus the first-goal
// badge check.
func (s *GamificationService) OnGoalCreated(chatID int64) ([]Event, error) {
	events, err := s.AddPoints(chatID, PointsNewGoal, "Nuovo obiettivo creato!")
	if err != nil {
		return nil, err
	}

	count, err := s.ledger.GoalCount(chatID)
	if err != nil {
		return nil, err
	}
	if count == 1 {
		badgeEvents, err := s.AwardBadge(chatID, models.BadgeFirstGoal)
		if err != nil {
			return nil, err
		}
		events = append(events, badgeEvents...)
	}

	return events, nil
}

// OnGoalCompleted reacts to a completion detected by the ledger: the fixed
// completion bonus, the first-completion badge, and the 5th/10th completion
// milestones.
func (s *GamificationService) OnGoalCompleted(chatID int64) ([]Event, error) {
	events, err := s.AddPoints(chatID, PointsGoalCompleted, "Obiettivo completato! 🏆")
	if err != nil {
		return nil, err
	}

	badgeEvents, err := s.AwardBadge(chatID, models.BadgeFirstComplete)
	if err != nil {
		return nil, err
	}
	events = append(events, badgeEvents...)

	completed, err := s.ledger.CompletedCount(chatID)
	if err != nil {
		return nil, err
	}
	if completed == 5 {
		badgeEvents, err := s.AwardBadge(chatID, models.BadgeFiveGoals)
		if err != nil {
			return nil, err
		}
		events = append(events, badgeEvents...)
	}
	if completed == 10 {
		badgeEvents, err := s.AwardBadge(chatID, models.BadgeTenGoals)
		if err != nil {
			return nil, err
		}
		events = append(events, badgeEvents...)
	}

	return events, nil
}

func (s *GamificationService) checkStreakBadges(chatID int64, streak int) ([]Event, error) {
	switch streak {
	case 7:
		return s.AwardBadge(chatID, models.BadgeWeekStreak)
	case 30:
		return s.AwardBadge(chatID, models.BadgeMonthStreak)
	}
	return nil, nil
}
