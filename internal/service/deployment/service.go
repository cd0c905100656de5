package deployment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
)

type DeploymentServiceImpl struct {
	assignment.AssignmentRepository
	personnel.PersonRepository
	shift.ShiftRepository
	maxRangeDays int
}

func NewDeploymentService(
	assignmentRepo assignment.AssignmentRepository,
	personRepo personnel.PersonRepository,
	shiftRepo shift.ShiftRepository,
	maxRangeDays int,
) deployment.DeploymentService {
	return &DeploymentServiceImpl{
		AssignmentRepository: assignmentRepo,
		PersonRepository:     personRepo,
		ShiftRepository:      shiftRepo,
		maxRangeDays:         maxRangeDays,
	}
}

// CheckRange validates an inclusive calendar range against the hard cap.
// Unbounded expansion is never allowed; callers resubmit a narrower range.
func (s *DeploymentServiceImpl) CheckRange(dateFrom, dateTo time.Time) error {
	if dateFrom.After(dateTo) {
		return deployment.ErrInvalidDateRange
	}
	days := int(dateTo.Sub(dateFrom).Hours()/24) + 1
	if days > s.maxRangeDays {
		return deployment.ErrDateRangeTooLarge
	}
	return nil
}

// ListDeployments implements deployment.DeploymentService.
func (s *DeploymentServiceImpl) ListDeployments(ctx context.Context, req deployment.ListDeploymentsRequest, accountID string) (deployment.ListDeploymentsResponse, error) {
	if err := req.Validate(); err != nil {
		return deployment.ListDeploymentsResponse{}, err
	}

	dateFrom, _ := time.Parse("2006-01-02", req.DateFrom)
	dateTo, _ := time.Parse("2006-01-02", req.DateTo)
	if err := s.CheckRange(dateFrom, dateTo); err != nil {
		return deployment.ListDeploymentsResponse{}, err
	}

	deployments, err := s.expandRange(ctx, assignment.OverlapFilter{
		PersonID: req.PersonID,
		SiteID:   req.SiteID,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}, accountID)
	if err != nil {
		return deployment.ListDeploymentsResponse{}, err
	}

	responses := make([]deployment.DeploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		responses = append(responses, deployment.ToResponse(d))
	}

	return deployment.ListDeploymentsResponse{
		TotalCount:  len(responses),
		Deployments: responses,
	}, nil
}

// ResolveForDay implements deployment.DeploymentService.
func (s *DeploymentServiceImpl) ResolveForDay(ctx context.Context, personID string, siteID string, day time.Time, accountID string) (*deployment.Deployment, error) {
	deployments, err := s.expandRange(ctx, assignment.OverlapFilter{
		PersonID: &personID,
		DateFrom: day,
		DateTo:   day,
	}, accountID)
	if err != nil {
		return nil, err
	}

	// At most one deployment survives per (person, day); it must also be
	// at the requested site to count.
	for _, d := range deployments {
		if d.SiteID == siteID {
			return &d, nil
		}
	}
	return nil, nil
}

// expandRange runs the snapshot query, joins shift timing and person names,
// and expands. Anomalies degrade gracefully: they are logged, never returned.
func (s *DeploymentServiceImpl) expandRange(ctx context.Context, filter assignment.OverlapFilter, accountID string) ([]deployment.Deployment, error) {
	assignments, err := s.AssignmentRepository.FindOverlapping(ctx, filter, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	shiftIDs := make([]string, 0, len(assignments))
	personIDs := make([]string, 0, len(assignments))
	seenShift := make(map[string]bool)
	seenPerson := make(map[string]bool)
	for _, a := range assignments {
		if !seenShift[a.ShiftID] {
			seenShift[a.ShiftID] = true
			shiftIDs = append(shiftIDs, a.ShiftID)
		}
		if !seenPerson[a.PersonID] {
			seenPerson[a.PersonID] = true
			personIDs = append(personIDs, a.PersonID)
		}
	}

	shifts, err := s.ShiftRepository.ListByIDs(ctx, shiftIDs, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	persons, err := s.PersonRepository.ListByIDs(ctx, personIDs, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personnel: %w", err)
	}
	names := make(map[string]string, len(persons))
	for id, p := range persons {
		names[id] = p.FullName
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deployments, anomalies := Expand(assignments, filter.DateFrom, filter.DateTo, shifts, names)
	for _, anomaly := range anomalies {
		slog.Warn("deployment expansion anomaly",
			"kind", string(anomaly.Kind),
			"person_id", anomaly.PersonID,
			"date", anomaly.Date.Format("2006-01-02"),
			"assignment_ids", anomaly.AssignmentIDs,
			"shift_id", anomaly.ShiftID,
		)
	}

	return deployments, nil
}
