package shift

import "time"

// Shift is a named daily time window. StartTime and EndTime are 24-hour
// "HH:MM" clock strings. EndTime may be numerically earlier than StartTime;
// that means the shift crosses midnight and checkout lands on the next day.
type Shift struct {
	ID        string
	AccountID string
	Name      string
	StartTime string
	EndTime   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overnight reports whether the shift window spans midnight. Zero-padded
// "HH:MM" strings order lexicographically the same as the clock they encode.
func (s Shift) Overnight() bool {
	return s.EndTime < s.StartTime
}
