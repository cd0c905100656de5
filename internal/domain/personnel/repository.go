package personnel

import "context"

// PersonRepository is read access to personnel records. Personnel are owned
// and mutated by supervisory tooling outside this service; the engine only
// reads display names and login codes. All methods take accountID to prevent
// cross-account data access.
type PersonRepository interface {
	GetByID(ctx context.Context, id string, accountID string) (Person, error)

	// GetByCode looks a person up by their login code across accounts.
	GetByCode(ctx context.Context, code string) (Person, error)

	// ListByIDs returns the requested persons keyed by ID. Missing IDs are
	// simply absent from the map.
	ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]Person, error)
}
