package roster

import "context"

// RosterService projects per-day deployments into a display-ready grid.
type RosterService interface {
	// GetRoster returns one row per deployed person with one cell per day
	// in range. Pure projection: same assignment data yields identical
	// ordered output.
	GetRoster(ctx context.Context, req GetRosterRequest, accountID string) (RosterResponse, error)
}
