package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// Shift windows are stored as "HH:MM" text so they round-trip without
// timezone surprises.
const shiftColumns = `id, account_id, name, start_time, end_time, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.AccountID, &s.Name, &s.StartTime, &s.EndTime,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, accountID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE id = $1 AND account_id = $2
	`

	s, err := scanShift(q.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}

	return s, nil
}

// ListByIDs implements shift.ShiftRepository.
func (r *shiftRepository) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]shift.Shift, error) {
	shifts := make(map[string]shift.Shift, len(ids))
	if len(ids) == 0 {
		return shifts, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE id = ANY($1) AND account_id = $2
	`

	rows, err := q.Query(ctx, query, ids, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shift rows: %w", err)
	}

	return shifts, nil
}
