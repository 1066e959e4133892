package services

import (
	"github.com/tahcohcat/coach-pro/internal/models"
)

// EventKind labels a gamification event produced by a state transition.
type EventKind int

const (
	// EventPointsAwarded fires on every positive award with a reason.
	EventPointsAwarded EventKind = iota
	// EventLevelUp fires at most once per AddPoints call.
	EventLevelUp
	// EventBadgeEarned fires only on the first award of a badge kind.
	EventBadgeEarned
)

// Event is a notification-worthy outcome of a gamification transition.
// The response composer turns events into user-facing messages; services
// never talk to the transport directly.
type Event struct {
	Kind   EventKind
	ChatID int64

	Points int
	Reason string

	Level int

	Badge models.BadgeType
}
