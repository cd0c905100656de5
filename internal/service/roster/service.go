package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/roster"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
	deploymentService "github.com/sitepatrol/sitepatrol-backend-go/internal/service/deployment"
	"golang.org/x/sync/errgroup"
)

// expandWorkers bounds the per-person expansion fan-out for large exports.
const expandWorkers = 8

type RosterServiceImpl struct {
	assignment.AssignmentRepository
	personnel.PersonRepository
	shift.ShiftRepository
	maxRangeDays int
}

func NewRosterService(
	assignmentRepo assignment.AssignmentRepository,
	personRepo personnel.PersonRepository,
	shiftRepo shift.ShiftRepository,
	maxRangeDays int,
) roster.RosterService {
	return &RosterServiceImpl{
		AssignmentRepository: assignmentRepo,
		PersonRepository:     personRepo,
		ShiftRepository:      shiftRepo,
		maxRangeDays:         maxRangeDays,
	}
}

// GetRoster implements roster.RosterService.
func (s *RosterServiceImpl) GetRoster(ctx context.Context, req roster.GetRosterRequest, accountID string) (roster.RosterResponse, error) {
	if err := req.Validate(); err != nil {
		return roster.RosterResponse{}, err
	}

	dateFrom, _ := time.Parse("2006-01-02", req.DateFrom)
	dateTo, _ := time.Parse("2006-01-02", req.DateTo)
	if dateFrom.After(dateTo) {
		return roster.RosterResponse{}, deployment.ErrInvalidDateRange
	}
	if days := int(dateTo.Sub(dateFrom).Hours()/24) + 1; days > s.maxRangeDays {
		return roster.RosterResponse{}, deployment.ErrDateRangeTooLarge
	}

	assignments, err := s.AssignmentRepository.FindOverlapping(ctx, assignment.OverlapFilter{
		SiteID:       req.SiteID,
		SupervisorID: req.SupervisorID,
		DateFrom:     dateFrom,
		DateTo:       dateTo,
	}, accountID)
	if err != nil {
		return roster.RosterResponse{}, fmt.Errorf("failed to find overlapping assignments: %w", err)
	}

	if len(assignments) == 0 {
		return roster.RosterResponse{
			DateFrom: req.DateFrom,
			DateTo:   req.DateTo,
			Rows:     []roster.RosterRow{},
		}, nil
	}

	shifts, names, err := s.loadLookups(ctx, assignments, accountID)
	if err != nil {
		return roster.RosterResponse{}, err
	}

	// Expansion is pure and independent per person, so fan it out. The
	// errgroup context cancels outstanding work on the first failure or
	// when the caller goes away.
	byPerson := make(map[string][]assignment.Assignment)
	for _, a := range assignments {
		byPerson[a.PersonID] = append(byPerson[a.PersonID], a)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expandWorkers)

	var mu sync.Mutex
	var deployments []deployment.Deployment
	var anomalies []deployment.Anomaly

	for _, personAssignments := range byPerson {
		personAssignments := personAssignments
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			expanded, found := deploymentService.Expand(personAssignments, dateFrom, dateTo, shifts, names)
			mu.Lock()
			deployments = append(deployments, expanded...)
			anomalies = append(anomalies, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return roster.RosterResponse{}, err
	}

	for _, anomaly := range anomalies {
		slog.Warn("roster expansion anomaly",
			"kind", string(anomaly.Kind),
			"person_id", anomaly.PersonID,
			"date", anomaly.Date.Format("2006-01-02"),
		)
	}

	// Restore the deterministic global order the fan-out scrambled.
	sort.Slice(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.PersonName != b.PersonName {
			return a.PersonName < b.PersonName
		}
		if a.PersonID != b.PersonID {
			return a.PersonID < b.PersonID
		}
		return a.Date.Before(b.Date)
	})

	return roster.RosterResponse{
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Rows:     BuildRoster(deployments, dateFrom, dateTo),
	}, nil
}

func (s *RosterServiceImpl) loadLookups(ctx context.Context, assignments []assignment.Assignment, accountID string) (map[string]shift.Shift, map[string]string, error) {
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
		return nil, nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	persons, err := s.PersonRepository.ListByIDs(ctx, personIDs, accountID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load personnel: %w", err)
	}
	names := make(map[string]string, len(persons))
	for id, p := range persons {
		names[id] = p.FullName
	}

	return shifts, names, nil
}
