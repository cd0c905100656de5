package deployment

import "time"

// Deployment is a derived entity: one concrete day of an assignment, with
// shift timing resolved. It is recomputed on every read from assignments and
// shifts and is never persisted.
type Deployment struct {
	PersonID           string
	PersonName         string
	SiteID             string
	ShiftID            string
	ShiftName          string
	Date               time.Time
	StartTime          string
	EndTime            string
	SourceAssignmentID string
}

// Sentinel window used when an assignment references a shift that cannot be
// resolved. The expansion degrades to a full-day window instead of failing.
const (
	FallbackStartTime = "00:00"
	FallbackEndTime   = "23:59"
)

// AnomalyKind classifies data-quality problems found during expansion.
type AnomalyKind string

const (
	AnomalyOverlappingAssignments AnomalyKind = "overlapping_assignments"
	AnomalyMissingShift           AnomalyKind = "missing_shift"
)

// Anomaly is a data-quality signal. Anomalies degrade gracefully: the
// expansion applies a deterministic resolution and reports them so callers
// can log, never fail.
type Anomaly struct {
	Kind          AnomalyKind
	PersonID      string
	Date          time.Time
	AssignmentIDs []string
	ShiftID       string
}
