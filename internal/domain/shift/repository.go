package shift

import "context"

// ShiftRepository is read access to shift definitions; shifts are owned by
// supervisory tooling outside this service.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string, accountID string) (Shift, error)

	// ListByIDs returns the requested shifts keyed by ID for the expander
	// join. Missing IDs are simply absent from the map.
	ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]Shift, error)
}
