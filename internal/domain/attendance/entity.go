package attendance

import "time"

// Status is the attendance state machine for one (person, date) pair:
//
//	no record -> checked_in -> checked_out (terminal)
//	no record -> marked_absent (administrative terminal)
//	checked_in -> auto_closed (background job, terminal)
//
// Invalid transitions are rejected structurally: check-out requires an open
// checked_in record, marked_absent requires no record at all.
type Status string

const (
	StatusCheckedIn    Status = "checked_in"
	StatusCheckedOut   Status = "checked_out"
	StatusMarkedAbsent Status = "marked_absent"
	StatusAutoClosed   Status = "auto_closed"
)

var StatusValues = []string{
	string(StatusCheckedIn),
	string(StatusCheckedOut),
	string(StatusMarkedAbsent),
	string(StatusAutoClosed),
}

// AttendanceRecord tracks one person's presence cycle for one calendar date.
// Created on successful check-in (or administrative absence marking), mutated
// only by check-out or administrative override, never deleted.
type AttendanceRecord struct {
	ID        string
	AccountID string
	PersonID  string
	SiteID    string
	ShiftID   string
	Date      time.Time
	Status    Status

	CheckInTime       *time.Time
	CheckInLatitude   *float64
	CheckInLongitude  *float64
	CheckInDistanceM  *float64
	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutDistanceM *float64

	// GeofenceBypassed is set when the site had no configured geofence and
	// presence validation was skipped. Kept on the record so the bypass is
	// auditable, not silent.
	GeofenceBypassed bool

	MarkedAbsentBy *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	PersonName *string
	SiteName   *string
}

// Open reports whether the record is an open session.
func (a AttendanceRecord) Open() bool {
	return a.Status == StatusCheckedIn
}
