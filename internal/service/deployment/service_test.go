package deployment

import (
	"context"
	"testing"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/assignment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/shift"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssignmentRepo struct {
	assignments []assignment.Assignment
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id string, accountID string) (assignment.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return assignment.Assignment{}, assignment.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) FindOverlapping(ctx context.Context, filter assignment.OverlapFilter, accountID string) ([]assignment.Assignment, error) {
	var out []assignment.Assignment
	for _, a := range f.assignments {
		if filter.PersonID != nil && a.PersonID != *filter.PersonID {
			continue
		}
		if filter.SiteID != nil && a.SiteID != *filter.SiteID {
			continue
		}
		if a.EndDate != nil && a.EndDate.Before(filter.DateFrom) {
			continue
		}
		if a.StartDate.After(filter.DateTo) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakePersonRepo struct {
	persons map[string]personnel.Person
}

func (f *fakePersonRepo) GetByID(ctx context.Context, id string, accountID string) (personnel.Person, error) {
	person, ok := f.persons[id]
	if !ok {
		return personnel.Person{}, personnel.ErrPersonNotFound
	}
	return person, nil
}

func (f *fakePersonRepo) GetByCode(ctx context.Context, code string) (personnel.Person, error) {
	return personnel.Person{}, personnel.ErrPersonNotFound
}

func (f *fakePersonRepo) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]personnel.Person, error) {
	out := make(map[string]personnel.Person)
	for _, id := range ids {
		if person, ok := f.persons[id]; ok {
			out[id] = person
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string, accountID string) (shift.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]shift.Shift, error) {
	out := make(map[string]shift.Shift)
	for _, id := range ids {
		if s, ok := f.shifts[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func newTestDeploymentService(assignments []assignment.Assignment, maxRangeDays int) deployment.DeploymentService {
	return NewDeploymentService(
		&fakeAssignmentRepo{assignments: assignments},
		&fakePersonRepo{persons: map[string]personnel.Person{
			"p1": {ID: "p1", FullName: "Asha Verma"},
		}},
		&fakeShiftRepo{shifts: map[string]shift.Shift{
			morningShift.ID: morningShift,
		}},
		maxRangeDays,
	)
}

func TestDeploymentService_ListDeployments(t *testing.T) {
	ctx := context.Background()
	svc := newTestDeploymentService([]assignment.Assignment{
		{
			ID:        "asg-1",
			PersonID:  "p1",
			SiteID:    "site-1",
			ShiftID:   morningShift.ID,
			StartDate: day(2026, 3, 1),
			EndDate:   dayPtr(2026, 3, 31),
			Active:    true,
		},
	}, 3660)

	resp, err := svc.ListDeployments(ctx, deployment.ListDeploymentsRequest{
		DateFrom: "2026-03-02",
		DateTo:   "2026-03-04",
	}, "acc-1")

	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalCount)
	require.Len(t, resp.Deployments, 3)
	assert.Equal(t, "Asha Verma", resp.Deployments[0].PersonName)
	assert.Equal(t, "2026-03-02", resp.Deployments[0].Date)
	assert.Equal(t, "08:00", resp.Deployments[0].StartTime)
	assert.Equal(t, "16:00", resp.Deployments[0].EndTime)
}

func TestDeploymentService_ListDeployments_InvalidDates(t *testing.T) {
	ctx := context.Background()
	svc := newTestDeploymentService(nil, 3660)

	_, err := svc.ListDeployments(ctx, deployment.ListDeploymentsRequest{
		DateFrom: "not-a-date",
		DateTo:   "2026-03-04",
	}, "acc-1")

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestDeploymentService_ListDeployments_RangeErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestDeploymentService(nil, 7)

	_, err := svc.ListDeployments(ctx, deployment.ListDeploymentsRequest{
		DateFrom: "2026-03-04",
		DateTo:   "2026-03-02",
	}, "acc-1")
	assert.ErrorIs(t, err, deployment.ErrInvalidDateRange)

	_, err = svc.ListDeployments(ctx, deployment.ListDeploymentsRequest{
		DateFrom: "2026-03-01",
		DateTo:   "2026-03-31",
	}, "acc-1")
	assert.ErrorIs(t, err, deployment.ErrDateRangeTooLarge)
}

func TestDeploymentService_ResolveForDay(t *testing.T) {
	ctx := context.Background()
	svc := newTestDeploymentService([]assignment.Assignment{
		{
			ID:        "asg-1",
			PersonID:  "p1",
			SiteID:    "site-1",
			ShiftID:   morningShift.ID,
			StartDate: day(2026, 3, 1),
			EndDate:   dayPtr(2026, 3, 31),
			Active:    true,
		},
	}, 3660)

	dep, err := svc.ResolveForDay(ctx, "p1", "site-1", day(2026, 3, 2), "acc-1")
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.Equal(t, "site-1", dep.SiteID)
	assert.Equal(t, "asg-1", dep.SourceAssignmentID)

	// Deployed, but at a different site.
	dep, err = svc.ResolveForDay(ctx, "p1", "site-2", day(2026, 3, 2), "acc-1")
	require.NoError(t, err)
	assert.Nil(t, dep)

	// Outside the assignment interval.
	dep, err = svc.ResolveForDay(ctx, "p1", "site-1", day(2026, 4, 2), "acc-1")
	require.NoError(t, err)
	assert.Nil(t, dep)
}
