package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. All
// methods take accountID to prevent cross-account data access.
type AttendanceRepository interface {
	// CreateIfNoOpenSession atomically inserts the record unless the
	// person already holds an open session (any site, any date), in which
	// case it returns ErrAlreadyCheckedIn without inserting. This is the
	// storage-level half of the double check-in defence; the one cycle
	// per day policy lives in the service.
	CreateIfNoOpenSession(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// Create inserts without the open-session guard. Used for
	// administrative records (marked_absent), which never open a session.
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// FindOpenSession returns the person's currently open record
	// regardless of site or date, or ErrNoOpenSession.
	FindOpenSession(ctx context.Context, personID string, accountID string) (AttendanceRecord, error)

	// GetByPersonAndDate returns the record for the pair, or nil when the
	// pair has no record yet.
	GetByPersonAndDate(ctx context.Context, personID string, date time.Time, accountID string) (*AttendanceRecord, error)

	GetByID(ctx context.Context, id string, accountID string) (AttendanceRecord, error)

	// Update persists a state transition on an existing record.
	Update(ctx context.Context, record AttendanceRecord) error

	// List retrieves records with filters and pagination.
	List(ctx context.Context, filter ListFilter, accountID string) ([]AttendanceRecord, int64, error)

	// ListStaleOpenSessions returns open records whose check-in time is
	// before the cutoff. Consumed by the auto-close job.
	ListStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error)
}
