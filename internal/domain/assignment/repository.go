package assignment

import (
	"context"
	"time"
)

// OverlapFilter narrows FindOverlapping. DateFrom and DateTo are required;
// the pointer predicates are optional.
type OverlapFilter struct {
	PersonID        *string
	SiteID          *string
	SupervisorID    *string
	DateFrom        time.Time
	DateTo          time.Time
	IncludeInactive bool
}

// AssignmentRepository is the read contract the deployment engine consumes.
// FindOverlapping must be a pure query with no side effects; callers treat
// the result as a snapshot.
type AssignmentRepository interface {
	GetByID(ctx context.Context, id string, accountID string) (Assignment, error)

	// FindOverlapping returns every assignment whose [start_date,
	// end_date-or-infinity] interval intersects [DateFrom, DateTo],
	// filtered by the optional predicates. Inactive assignments are
	// excluded unless IncludeInactive is set.
	FindOverlapping(ctx context.Context, filter OverlapFilter, accountID string) ([]Assignment, error)
}
