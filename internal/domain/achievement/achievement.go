// Package achievement derives achievement events from a user's day progress
// history. Derivation is a pure function: given the same enrollment and
// history it always produces the same events, so it can be re-run at any
// time without side effects. Nothing here is persisted; de-duplicating the
// user-visible display is the consuming layer's concern.
package achievement

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sprintlab/sprint-api/internal/domain"
)

// Kind identifies an achievement type.
type Kind string

// Achievement kinds.
const (
	// KindFastMover is earned when days 0 and 1 are both completed within
	// one calendar day of the enrollment start.
	KindFastMover Kind = "fast_mover"

	// KindDayStreak is earned when StreakLength consecutive curriculum days
	// are completed on consecutive calendar days.
	KindDayStreak Kind = "day_streak"

	// KindSprintFinished is earned when every day of the sprint is completed.
	KindSprintFinished Kind = "sprint_finished"
)

// Event is an ephemeral achievement signal. The core never stores events;
// they are returned to the caller for one-time rendering.
type Event struct {
	UserID    uuid.UUID `json:"user_id"`
	Kind      Kind      `json:"kind"`
	Day       int       `json:"day"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Evaluate derives all achievements the given progress history qualifies
// for. The history may arrive in any order; only completed days with a
// CompletedAt timestamp count. Events are returned in a fixed kind order so
// repeated evaluation over identical history is byte-for-byte identical
// apart from EmittedAt, which is taken from now.
func Evaluate(
	enrollment *domain.Enrollment,
	history []domain.DayProgress,
	now time.Time,
	params *Params,
) []Event {
	if enrollment == nil || len(history) == 0 {
		return nil
	}

	p := params.normalize()

	completed := completedByDay(history)
	if len(completed) == 0 {
		return nil
	}

	var events []Event

	if qualifiesFastMover(enrollment, completed) {
		events = append(events, Event{
			UserID:    enrollment.UserID,
			Kind:      KindFastMover,
			Day:       1,
			EmittedAt: now.UTC(),
		})
	}

	if day, ok := streakEnd(completed, p.StreakLength); ok {
		events = append(events, Event{
			UserID:    enrollment.UserID,
			Kind:      KindDayStreak,
			Day:       day,
			EmittedAt: now.UTC(),
		})
	}

	if allDaysCompleted(completed, p.SprintDays) {
		events = append(events, Event{
			UserID:    enrollment.UserID,
			Kind:      KindSprintFinished,
			Day:       p.SprintDays - 1,
			EmittedAt: now.UTC(),
		})
	}

	return events
}

// completedByDay indexes completion timestamps by day, ignoring records that
// are not completed or are missing their timestamp.
func completedByDay(history []domain.DayProgress) map[int]time.Time {
	completed := make(map[int]time.Time)
	for _, p := range history {
		if p.Status == domain.DayStatusCompleted && p.CompletedAt != nil {
			completed[p.Day] = p.CompletedAt.UTC()
		}
	}
	return completed
}

// qualifiesFastMover checks that days 0 and 1 were both completed no later
// than the end of the calendar day after the enrollment started.
func qualifiesFastMover(enrollment *domain.Enrollment, completed map[int]time.Time) bool {
	day0, ok0 := completed[0]
	day1, ok1 := completed[1]
	if !ok0 || !ok1 {
		return false
	}

	deadline := startOfDay(enrollment.StartedAt).AddDate(0, 0, 2)
	return day0.Before(deadline) && day1.Before(deadline)
}

// streakEnd finds the first run of length consecutive curriculum days whose
// completions fall on consecutive calendar days. It returns the last day of
// that run. Scanning in ascending day order keeps the result deterministic.
func streakEnd(completed map[int]time.Time, length int) (int, bool) {
	days := make([]int, 0, len(completed))
	for day := range completed {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, start := range days {
		run := 1
		for run < length {
			next := start + run
			nextAt, ok := completed[next]
			if !ok {
				break
			}
			prevAt := completed[next-1]
			if !onConsecutiveCalendarDays(prevAt, nextAt) {
				break
			}
			run++
		}
		if run >= length {
			return start + length - 1, true
		}
	}
	return 0, false
}

// allDaysCompleted checks every day of the sprint is in the completed set.
func allDaysCompleted(completed map[int]time.Time, sprintDays int) bool {
	for day := 0; day < sprintDays; day++ {
		if _, ok := completed[day]; !ok {
			return false
		}
	}
	return true
}

// onConsecutiveCalendarDays reports whether b's UTC calendar date is the same
// as or the day after a's. Same-day counts: completing two lessons in one
// sitting should not break a streak.
func onConsecutiveCalendarDays(a, b time.Time) bool {
	dayA := startOfDay(a)
	dayB := startOfDay(b)
	diff := dayB.Sub(dayA)
	return diff >= 0 && diff <= 24*time.Hour
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
