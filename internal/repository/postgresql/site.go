package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/site"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/database"
)

type siteRepository struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepository{db: db}
}

const siteColumns = `id, account_id, name, latitude, longitude, radius_meters, created_at, updated_at`

func scanSite(row pgx.Row) (site.Site, error) {
	var s site.Site
	err := row.Scan(
		&s.ID, &s.AccountID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusMeters,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements site.SiteRepository.
func (r *siteRepository) GetByID(ctx context.Context, id string, accountID string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE id = $1 AND account_id = $2
	`

	s, err := scanSite(q.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site by id: %w", err)
	}

	return s, nil
}

// ListByIDs implements site.SiteRepository.
func (r *siteRepository) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]site.Site, error) {
	sites := make(map[string]site.Site, len(ids))
	if len(ids) == 0 {
		return sites, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + siteColumns + `
		FROM sites
		WHERE id = ANY($1) AND account_id = $2
	`

	rows, err := q.Query(ctx, query, ids, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read site rows: %w", err)
	}

	return sites, nil
}
