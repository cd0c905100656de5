package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/attendance"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/auth"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/site"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Geofence failures carry the measured distance so field devices can
	// show how far off the person is.
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		OutOfRange(w, outOfRange.Error(), map[string]string{
			"distance_meters": fmt.Sprintf("%.0f", outOfRange.DistanceMeters),
			"radius_meters":   fmt.Sprintf("%.0f", outOfRange.RadiusMeters),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNotDeployed):
		NotFound(w, "No deployment found for this person, site and date")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "An attendance cycle already exists for this date")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open attendance session found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "An attendance record already exists for this person and date")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Deployment domain errors
	case errors.Is(err, deployment.ErrInvalidDateRange):
		BadRequest(w, "date_from must not be after date_to", nil)
	case errors.Is(err, deployment.ErrDateRangeTooLarge):
		BadRequest(w, "Requested date range exceeds the maximum allowed", nil)

	// Lookup errors
	case errors.Is(err, personnel.ErrPersonNotFound):
		NotFound(w, "Person not found")
	case errors.Is(err, personnel.ErrPersonInactive):
		Forbidden(w, "Person is inactive")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, assignment.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
