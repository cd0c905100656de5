package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) assignment.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `id, account_id, person_id, site_id, shift_id, supervisor_id,
	start_date, end_date, active, created_at, updated_at`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := row.Scan(
		&a.ID, &a.AccountID, &a.PersonID, &a.SiteID, &a.ShiftID, &a.SupervisorID,
		&a.StartDate, &a.EndDate, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// GetByID implements assignment.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string, accountID string) (assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE id = $1 AND account_id = $2
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrAssignmentNotFound
		}
		return assignment.Assignment{}, fmt.Errorf("failed to get assignment by id: %w", err)
	}

	return a, nil
}

// FindOverlapping implements assignment.AssignmentRepository.
func (r *assignmentRepository) FindOverlapping(ctx context.Context, filter assignment.OverlapFilter, accountID string) ([]assignment.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	// Interval intersection against [DateFrom, DateTo]; a NULL end_date is
	// an open-ended assignment.
	baseWhere := `account_id = $1
	  AND start_date <= $2
	  AND COALESCE(end_date, '9999-12-31'::date) >= $3`
	args := []interface{}{accountID, filter.DateTo, filter.DateFrom}
	argIdx := 4

	if !filter.IncludeInactive {
		baseWhere += " AND active = TRUE"
	}
	if filter.PersonID != nil && *filter.PersonID != "" {
		baseWhere += fmt.Sprintf(" AND person_id = $%d", argIdx)
		args = append(args, *filter.PersonID)
		argIdx++
	}
	if filter.SiteID != nil && *filter.SiteID != "" {
		baseWhere += fmt.Sprintf(" AND site_id = $%d", argIdx)
		args = append(args, *filter.SiteID)
		argIdx++
	}
	if filter.SupervisorID != nil && *filter.SupervisorID != "" {
		baseWhere += fmt.Sprintf(" AND supervisor_id = $%d", argIdx)
		args = append(args, *filter.SupervisorID)
		argIdx++
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE ` + baseWhere + `
		ORDER BY person_id, start_date, id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping assignments: %w", err)
	}
	defer rows.Close()

	var assignments []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignment rows: %w", err)
	}

	return assignments, nil
}
