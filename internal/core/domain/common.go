package domain

import "time"

// AuditFields holds the timestamps maintained for persisted entities.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateLayout is the day.month.year layout used by the spreadsheet and in digests.
const DateLayout = "02.01.2006"

// TruncateToDate drops the time-of-day part, keeping the calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
