package match

import "time"

const (
	ReminderLeadTime  = 24 * time.Hour
	ReminderTolerance = 5 * time.Minute
)

// Window returns the Bangkok start and end instants of the match. ok is false
// when either clock is missing or malformed, or when the end precedes the start.
func (m Match) Window() (start, end time.Time, ok bool) {
	if m.Date.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	startMin, err := ParseClock(m.TimeStart)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endMin, err := ParseClock(m.TimeEnd)
	if err != nil || endMin < startMin {
		return time.Time{}, time.Time{}, false
	}

	y, mo, d := m.Date.Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, Bangkok)
	return day.Add(time.Duration(startMin) * time.Minute), day.Add(time.Duration(endMin) * time.Minute), true
}

// Evaluate returns the status the match should have at now. It never returns a
// status earlier than the stored one, and a match without a usable window keeps
// its stored status.
func Evaluate(m Match, now time.Time) Status {
	stored := m.Status
	if !stored.Valid() {
		stored = StatusScheduled
	}
	if stored == StatusCompleted {
		return StatusCompleted
	}

	start, end, ok := m.Window()
	if !ok {
		return stored
	}

	var expected Status
	switch {
	case now.Before(start):
		expected = StatusScheduled
	case start.Equal(end):
		expected = StatusPendingResult
	case !now.After(end):
		expected = StatusOngoing
	default:
		expected = StatusPendingResult
	}

	if stored == StatusScheduled && dateElapsed(start, now) {
		expected = StatusPendingResult
	}

	if expected.Before(stored) {
		return stored
	}
	return expected
}

// dateElapsed reports whether the Bangkok calendar day containing start is over at now.
func dateElapsed(start, now time.Time) bool {
	y, mo, d := start.In(Bangkok).Date()
	nextDay := time.Date(y, mo, d+1, 0, 0, 0, 0, Bangkok)
	return !now.Before(nextDay)
}

// ReminderDue reports whether the 24-hour reminder should go out at now: the
// match is still SCHEDULED, has not been reminded, and starts within
// ReminderLeadTime ± ReminderTolerance.
func ReminderDue(m Match, now time.Time) bool {
	if m.Status != StatusScheduled || m.ReminderSentAt != nil {
		return false
	}
	return StartsWithinReminderWindow(m, now)
}

// StartsWithinReminderWindow ignores status and the sent marker.
func StartsWithinReminderWindow(m Match, now time.Time) bool {
	start, _, ok := m.Window()
	if !ok {
		return false
	}
	until := start.Sub(now)
	return until >= ReminderLeadTime-ReminderTolerance && until <= ReminderLeadTime+ReminderTolerance
}

// AcceptsResult reports whether a result may be recorded in the current status.
func (m Match) AcceptsResult() bool {
	return m.Status == StatusPendingResult || m.Status == StatusCompleted
}
