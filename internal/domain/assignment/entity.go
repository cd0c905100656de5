package assignment

import "time"

// Assignment is a time-bounded record deploying a person to a site on a
// shift. EndDate nil means open-ended. StartDate and EndDate are calendar
// dates (midnight UTC); the invariant StartDate <= EndDate holds whenever
// EndDate is present.
type Assignment struct {
	ID           string
	AccountID    string
	PersonID     string
	SiteID       string
	ShiftID      string
	SupervisorID *string
	StartDate    time.Time
	EndDate      *time.Time
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Covers reports whether the assignment interval includes the calendar day.
func (a Assignment) Covers(day time.Time) bool {
	if day.Before(a.StartDate) {
		return false
	}
	if a.EndDate != nil && day.After(*a.EndDate) {
		return false
	}
	return true
}
