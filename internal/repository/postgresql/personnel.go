package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
)

type personRepository struct {
	db *database.DB
}

func NewPersonRepository(db *database.DB) personnel.PersonRepository {
	return &personRepository{db: db}
}

const personColumns = `id, account_id, full_name, code, pin_hash, role, active, created_at, updated_at`

func scanPerson(row pgx.Row) (personnel.Person, error) {
	var p personnel.Person
	err := row.Scan(
		&p.ID, &p.AccountID, &p.FullName, &p.Code, &p.PINHash, &p.Role, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetByID implements personnel.PersonRepository.
func (r *personRepository) GetByID(ctx context.Context, id string, accountID string) (personnel.Person, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + personColumns + `
		FROM personnel
		WHERE id = $1 AND account_id = $2
	`

	p, err := scanPerson(q.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return personnel.Person{}, personnel.ErrPersonNotFound
		}
		return personnel.Person{}, fmt.Errorf("failed to get person by id: %w", err)
	}

	return p, nil
}

// GetByCode implements personnel.PersonRepository.
func (r *personRepository) GetByCode(ctx context.Context, code string) (personnel.Person, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + personColumns + `
		FROM personnel
		WHERE code = $1
	`

	p, err := scanPerson(q.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return personnel.Person{}, personnel.ErrPersonNotFound
		}
		return personnel.Person{}, fmt.Errorf("failed to get person by code: %w", err)
	}

	return p, nil
}

// ListByIDs implements personnel.PersonRepository.
func (r *personRepository) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]personnel.Person, error) {
	persons := make(map[string]personnel.Person, len(ids))
	if len(ids) == 0 {
		return persons, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + personColumns + `
		FROM personnel
		WHERE id = ANY($1) AND account_id = $2
	`

	rows, err := q.Query(ctx, query, ids, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read personnel rows: %w", err)
	}

	return persons, nil
}
