package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the classified purpose of a free-text message.
type Kind int

const (
	// ProgressUpdate is "<index> +N" / "<index> -N" against the user's
	// current uncompleted goal list.
	ProgressUpdate Kind = iota
	// ReminderTimeSet is a bare "HH:MM" time of day.
	ReminderTimeSet
	// NewGoal is goal-shaped prose: between 10 and 200 characters, no
	// question mark.
	NewGoal
	// FreeChat is everything else and goes to the AI coach.
	FreeChat
)

func (k Kind) String() string {
	switch k {
	case ProgressUpdate:
		return "progress_update"
	case ReminderTimeSet:
		return "reminder_time"
	case NewGoal:
		return "new_goal"
	default:
		return "free_chat"
	}
}

// Intent is the classification result with its parsed payload. Which
// payload fields are meaningful depends on Kind.
type Intent struct {
	Kind Kind

	// ProgressUpdate payload: 1-based index into the active goal list
	// and the requested signed delta.
	GoalIndex int
	Delta     int

	// ReminderTimeSet payload.
	Hour   int
	Minute int

	// NewGoal payload.
	Title string
}

var (
	progressRe = regexp.MustCompile(`^(\d+)\s*([+-]\d+)$`)
	timeRe     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Classify turns raw free text (never a /command) into exactly one intent.
// Rules run in fixed precedence order and the first match wins; a malformed
// candidate for one rule silently falls through to the next.
func Classify(text string) Intent {
	text = strings.TrimSpace(text)

	if m := progressRe.FindStringSubmatch(text); m != nil {
		index, err1 := strconv.Atoi(m[1])
		delta, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && index > 0 {
			return Intent{Kind: ProgressUpdate, GoalIndex: index, Delta: delta}
		}
	}

	if m := timeRe.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			return Intent{Kind: ReminderTimeSet, Hour: hour, Minute: minute}
		}
		// Out-of-range time falls through, not an error.
	}

	if n := utf8.RuneCountInString(text); n > 10 && n < 200 && !strings.Contains(text, "?") {
		return Intent{Kind: NewGoal, Title: text}
	}

	return Intent{Kind: FreeChat}
}
