package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/attendance"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/site"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/geo"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	personnel.PersonRepository
	site.SiteRepository
	deploymentService deployment.DeploymentService

	locks *personLocks

	// allowMultipleCycles permits a new check-in cycle on a date whose
	// previous cycle is already checked out. Default policy: one cycle
	// per person per day.
	allowMultipleCycles bool
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	personRepo personnel.PersonRepository,
	siteRepo site.SiteRepository,
	deploymentSvc deployment.DeploymentService,
	allowMultipleCycles bool,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		PersonRepository:     personRepo,
		SiteRepository:       siteRepo,
		deploymentService:    deploymentSvc,
		locks:                newPersonLocks(),
		allowMultipleCycles:  allowMultipleCycles,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// resolveTimestamp returns the request timestamp, or the server clock when
// the request carries none.
func resolveTimestamp(raw string) time.Time {
	if raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest, personID string, accountID string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := resolveTimestamp(req.Timestamp)
	date := dateOf(now)

	// The whole find -> validate -> insert sequence runs under the
	// person's lock; the conditional insert below backs it up at the
	// storage layer.
	lock := a.locks.get(personID)
	lock.Lock()
	defer lock.Unlock()

	dep, err := a.deploymentService.ResolveForDay(ctx, personID, req.SiteID, date, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve deployment: %w", err)
	}
	if dep == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotDeployed
	}

	existing, err := a.AttendanceRepository.GetByPersonAndDate(ctx, personID, date, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		if !a.allowMultipleCycles || existing.Open() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
	}

	// One open session globally, not just per date: an unclosed overnight
	// session from yesterday still blocks today's check-in.
	_, err = a.AttendanceRepository.FindOpenSession(ctx, personID, accountID)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrNoOpenSession) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to look up open session: %w", err)
	}

	siteData, err := a.SiteRepository.GetByID(ctx, req.SiteID, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	distance, bypassed, err := a.validatePresence(siteData, req.Latitude, req.Longitude, personID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := attendance.AttendanceRecord{
		ID:               uuid.NewString(),
		AccountID:        accountID,
		PersonID:         personID,
		SiteID:           req.SiteID,
		ShiftID:          dep.ShiftID,
		Date:             date,
		Status:           attendance.StatusCheckedIn,
		CheckInTime:      &now,
		CheckInLatitude:  &req.Latitude,
		CheckInLongitude: &req.Longitude,
		CheckInDistanceM: &distance,
		GeofenceBypassed: bypassed,
	}

	created, err := a.AttendanceRepository.CreateIfNoOpenSession(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapRecordToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest, personID string, accountID string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := resolveTimestamp(req.Timestamp)

	lock := a.locks.get(personID)
	lock.Lock()
	defer lock.Unlock()

	record, err := a.AttendanceRepository.FindOpenSession(ctx, personID, accountID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenSession
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}

	// Checkout is validated against the site the session was opened at,
	// never against a caller-supplied site.
	siteData, err := a.SiteRepository.GetByID(ctx, record.SiteID, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	distance, _, err := a.validatePresence(siteData, req.Latitude, req.Longitude, personID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record.Status = attendance.StatusCheckedOut
	record.CheckOutTime = &now
	record.CheckOutLatitude = &req.Latitude
	record.CheckOutLongitude = &req.Longitude
	record.CheckOutDistanceM = &distance

	if err := a.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapRecordToResponse(record), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest, markedBy string, accountID string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	person, err := a.PersonRepository.GetByID(ctx, req.PersonID, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	lock := a.locks.get(req.PersonID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := a.AttendanceRepository.GetByPersonAndDate(ctx, req.PersonID, date, accountID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceExists
	}

	record := attendance.AttendanceRecord{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		PersonID:       person.ID,
		Date:           date,
		Status:         attendance.StatusMarkedAbsent,
		MarkedAbsentBy: &markedBy,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create absence record: %w", err)
	}

	return mapRecordToResponse(created), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.ListFilter, personID string, accountID string) (attendance.ListAttendanceResponse, error) {
	filter.PersonID = &personID
	return a.ListAttendance(ctx, filter, accountID)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.ListFilter, accountID string) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter, accountID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// validatePresence runs the geofence against a site. Geo-unconfigured sites
// bypass validation; the bypass is audited, not silent.
func (a *AttendanceServiceImpl) validatePresence(siteData site.Site, lat, lng float64, personID string) (distance float64, bypassed bool, err error) {
	if !siteData.GeoConfigured() {
		slog.Warn("geofence bypassed for geo-unconfigured site",
			"site_id", siteData.ID,
			"person_id", personID,
		)
		return 0, true, nil
	}

	radius := float64(*siteData.RadiusMeters)
	within, distance := geo.WithinRadius(*siteData.Latitude, *siteData.Longitude, radius, lat, lng)
	if !within {
		return 0, false, &attendance.OutOfRangeError{
			DistanceMeters: distance,
			RadiusMeters:   radius,
		}
	}
	return distance, false, nil
}

// mapRecordToResponse converts an AttendanceRecord entity to its wire shape.
func mapRecordToResponse(record attendance.AttendanceRecord) attendance.AttendanceResponse {
	var personName string
	if record.PersonName != nil {
		personName = *record.PersonName
	}

	return attendance.AttendanceResponse{
		ID:                record.ID,
		PersonID:          record.PersonID,
		PersonName:        personName,
		SiteID:            record.SiteID,
		SiteName:          record.SiteName,
		ShiftID:           record.ShiftID,
		Date:              record.Date.Format("2006-01-02"),
		Status:            string(record.Status),
		CheckInTime:       timePtrToString(record.CheckInTime),
		CheckInLatitude:   record.CheckInLatitude,
		CheckInLongitude:  record.CheckInLongitude,
		CheckInDistanceM:  record.CheckInDistanceM,
		CheckOutTime:      timePtrToString(record.CheckOutTime),
		CheckOutLatitude:  record.CheckOutLatitude,
		CheckOutLongitude: record.CheckOutLongitude,
		CheckOutDistanceM: record.CheckOutDistanceM,
		GeofenceBypassed:  record.GeofenceBypassed,
	}
}
