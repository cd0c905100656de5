package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrNotDeployed      = errors.New("no deployment found for this person, site and date")
	ErrAlreadyCheckedIn = errors.New("an attendance cycle already exists for this date")

	// Check-out errors
	ErrNoOpenSession = errors.New("no open attendance session found")

	// Administrative errors
	ErrAttendanceExists   = errors.New("an attendance record already exists for this person and date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutOfRangeError reports a geofence failure. It carries the computed
// distance and the allowed radius so clients can display both.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("reported location is %.0fm from the site, outside the allowed %.0fm radius",
		e.DistanceMeters, e.RadiusMeters)
}
