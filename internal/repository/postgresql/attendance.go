package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/attendance"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.account_id, a.person_id, a.site_id, a.shift_id, a.date, a.status,
	a.check_in_time, a.check_in_latitude, a.check_in_longitude, a.check_in_distance_m,
	a.check_out_time, a.check_out_latitude, a.check_out_longitude, a.check_out_distance_m,
	a.geofence_bypassed, a.marked_absent_by, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.AccountID, &rec.PersonID, &rec.SiteID, &rec.ShiftID, &rec.Date, &rec.Status,
		&rec.CheckInTime, &rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInDistanceM,
		&rec.CheckOutTime, &rec.CheckOutLatitude, &rec.CheckOutLongitude, &rec.CheckOutDistanceM,
		&rec.GeofenceBypassed, &rec.MarkedAbsentBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// CreateIfNoOpenSession implements attendance.AttendanceRepository. The
// insert and the open-session check run as one statement, so two racing
// check-ins cannot both succeed regardless of application-level locking.
func (a *attendanceRepository) CreateIfNoOpenSession(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, account_id, person_id, site_id, shift_id, date, status,
			check_in_time, check_in_latitude, check_in_longitude, check_in_distance_m,
			geofence_bypassed, marked_absent_by
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		WHERE NOT EXISTS (
			SELECT 1 FROM attendance_records
			WHERE person_id = $3
			  AND account_id = $2
			  AND status = 'checked_in'
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.AccountID,
		record.PersonID,
		record.SiteID,
		record.ShiftID,
		record.Date,
		record.Status,
		record.CheckInTime,
		record.CheckInLatitude,
		record.CheckInLongitude,
		record.CheckInDistanceM,
		record.GeofenceBypassed,
		record.MarkedAbsentBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			// The guard suppressed the insert.
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, account_id, person_id, site_id, shift_id, date, status,
			check_in_time, check_in_latitude, check_in_longitude, check_in_distance_m,
			geofence_bypassed, marked_absent_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.AccountID,
		record.PersonID,
		record.SiteID,
		record.ShiftID,
		record.Date,
		record.Status,
		record.CheckInTime,
		record.CheckInLatitude,
		record.CheckInLongitude,
		record.CheckInDistanceM,
		record.GeofenceBypassed,
		record.MarkedAbsentBy,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// FindOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOpenSession(ctx context.Context, personID string, accountID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.person_id = $1
		  AND a.account_id = $2
		  AND a.status = 'checked_in'
		ORDER BY a.check_in_time DESC
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, personID, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrNoOpenSession
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to find open session: %w", err)
	}

	return rec, nil
}

// GetByPersonAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByPersonAndDate(ctx context.Context, personID string, date time.Time, accountID string) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.person_id = $1
		  AND a.date = $2
		  AND a.account_id = $3
		ORDER BY a.created_at DESC
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, personID, date, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by person and date: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, accountID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.id = $1 AND a.account_id = $2
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return rec, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records SET
			status = $1,
			check_out_time = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			check_out_distance_m = $5,
			marked_absent_by = $6,
			updated_at = NOW()
		WHERE id = $7 AND account_id = $8
	`

	tag, err := q.Exec(ctx, query,
		record.Status,
		record.CheckOutTime,
		record.CheckOutLatitude,
		record.CheckOutLongitude,
		record.CheckOutDistanceM,
		record.MarkedAbsentBy,
		record.ID,
		record.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter, accountID string) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.account_id = $1"
	args := []interface{}{accountID}
	argIdx := 2

	if filter.PersonID != nil && *filter.PersonID != "" {
		baseWhere += fmt.Sprintf(" AND a.person_id = $%d", argIdx)
		args = append(args, *filter.PersonID)
		argIdx++
	}
	if filter.SiteID != nil && *filter.SiteID != "" {
		baseWhere += fmt.Sprintf(" AND a.site_id = $%d", argIdx)
		args = append(args, *filter.SiteID)
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	orderByField := "a.date"
	switch filter.SortBy {
	case "person_name":
		orderByField = "p.full_name"
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT
			`+attendanceColumns+`,
			p.full_name AS person_name,
			s.name AS site_name
		FROM attendance_records a
		LEFT JOIN personnel p ON p.id = a.person_id
		LEFT JOIN sites s ON s.id = a.site_id
		WHERE %s
		ORDER BY %s %s, a.id
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var rec attendance.AttendanceRecord
		err := rows.Scan(
			&rec.ID, &rec.AccountID, &rec.PersonID, &rec.SiteID, &rec.ShiftID, &rec.Date, &rec.Status,
			&rec.CheckInTime, &rec.CheckInLatitude, &rec.CheckInLongitude, &rec.CheckInDistanceM,
			&rec.CheckOutTime, &rec.CheckOutLatitude, &rec.CheckOutLongitude, &rec.CheckOutDistanceM,
			&rec.GeofenceBypassed, &rec.MarkedAbsentBy, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.PersonName, &rec.SiteName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, total, nil
}

// ListStaleOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.status = 'checked_in'
		  AND a.check_in_time < $1
		ORDER BY a.check_in_time
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale open sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return records, nil
}
