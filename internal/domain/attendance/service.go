package attendance

import "context"

// AttendanceService owns the per-person daily attendance state machine. It is
// the only component permitted to create or transition attendance records.
type AttendanceService interface {
	// CheckIn validates deployment and geofence, then opens a session.
	CheckIn(ctx context.Context, req CheckInRequest, personID string, accountID string) (AttendanceResponse, error)

	// CheckOut closes the person's open session, validating the geofence
	// against the site the session was opened at.
	CheckOut(ctx context.Context, req CheckOutRequest, personID string, accountID string) (AttendanceResponse, error)

	// MarkAbsent records an administrative absence for a (person, date)
	// pair with no existing record.
	MarkAbsent(ctx context.Context, req MarkAbsentRequest, markedBy string, accountID string) (AttendanceResponse, error)

	// GetMyAttendance lists the authenticated person's records.
	GetMyAttendance(ctx context.Context, filter ListFilter, personID string, accountID string) (ListAttendanceResponse, error)

	// ListAttendance lists records across personnel (supervisor only).
	ListAttendance(ctx context.Context, filter ListFilter, accountID string) (ListAttendanceResponse, error)
}
