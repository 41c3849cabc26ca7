package schedule

import "time"

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusCompletedToday Status = "COMPLETED_TODAY"
	StatusOverdue        Status = "OVERDUE"
)

// StatusOf classifies a task on the given day. Dates are compared as calendar
// days in today's location.
func StatusOf(nextDue time.Time, lastCompleted *time.Time, today time.Time) Status {
	loc := today.Location()
	today = NormalizeNoon(today)
	if lastCompleted != nil && DateIn(*lastCompleted, loc).Equal(today) {
		return StatusCompletedToday
	}
	if DateIn(nextDue, loc).Before(today) {
		return StatusOverdue
	}
	return StatusPending
}

// DaysUntil is the number of calendar days from today to t; negative when t
// is in the past.
func DaysUntil(t, today time.Time) int {
	loc := today.Location()
	from := NormalizeNoon(today)
	to := DateIn(t, loc)
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
