package site

import "context"

// SiteRepository is read access to site records; sites are owned by
// supervisory tooling outside this service.
type SiteRepository interface {
	GetByID(ctx context.Context, id string, accountID string) (Site, error)
	ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]Site, error)
}
