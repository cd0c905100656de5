package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/attendance"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/deployment"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/personnel"
	"github.com/sitepatrol/sitepatrol-backend-go/internal/domain/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccountID = "acc-1"
	testPersonID  = "person-1"
	testSiteID    = "site-1"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository. Its
// CreateIfNoOpenSession is guarded by a mutex so the concurrency tests
// exercise the same atomicity contract the SQL implementation provides.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]attendance.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.AttendanceRecord)}
}

func (f *fakeAttendanceRepo) CreateIfNoOpenSession(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.records {
		if existing.PersonID != record.PersonID || existing.AccountID != record.AccountID {
			continue
		}
		if existing.Open() {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeAttendanceRepo) FindOpenSession(ctx context.Context, personID string, accountID string) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.PersonID == personID && record.AccountID == accountID && record.Open() {
			return record, nil
		}
	}
	return attendance.AttendanceRecord{}, attendance.ErrNoOpenSession
}

func (f *fakeAttendanceRepo) GetByPersonAndDate(ctx context.Context, personID string, date time.Time, accountID string) (*attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.PersonID == personID && record.AccountID == accountID && record.Date.Equal(date) {
			r := record
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string, accountID string) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok || record.AccountID != accountID {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return record, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter, accountID string) ([]attendance.AttendanceRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, record := range f.records {
		if record.AccountID != accountID {
			continue
		}
		if filter.PersonID != nil && record.PersonID != *filter.PersonID {
			continue
		}
		if filter.Status != nil && string(record.Status) != *filter.Status {
			continue
		}
		out = append(out, record)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, record := range f.records {
		if record.Open() && record.CheckInTime != nil && record.CheckInTime.Before(cutoff) {
			out = append(out, record)
		}
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
	for _, person := range f.persons {
		if person.Code == code {
			return person, nil
		}
	}
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

type fakeSiteRepo struct {
	sites map[string]site.Site
}

func (f *fakeSiteRepo) GetByID(ctx context.Context, id string, accountID string) (site.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	return s, nil
}

func (f *fakeSiteRepo) ListByIDs(ctx context.Context, ids []string, accountID string) (map[string]site.Site, error) {
	out := make(map[string]site.Site)
	for _, id := range ids {
		if s, ok := f.sites[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// fakeDeploymentService answers ResolveForDay from a static set of
// (personID, siteID) pairs deployed every day.
type fakeDeploymentService struct {
	deployed map[string]string // personID -> siteID
}

func (f *fakeDeploymentService) ListDeployments(ctx context.Context, req deployment.ListDeploymentsRequest, accountID string) (deployment.ListDeploymentsResponse, error) {
	return deployment.ListDeploymentsResponse{}, nil
}

func (f *fakeDeploymentService) ResolveForDay(ctx context.Context, personID string, siteID string, day time.Time, accountID string) (*deployment.Deployment, error) {
	deployedSite, ok := f.deployed[personID]
	if !ok || deployedSite != siteID {
		return nil, nil
	}
	return &deployment.Deployment{
		PersonID:  personID,
		SiteID:    siteID,
		ShiftID:   "shift-1",
		Date:      day,
		StartTime: "08:00",
		EndTime:   "16:00",
	}, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// testSite is centred on Connaught Place with a 100 meter radius.
func testSite() site.Site {
	return site.Site{
		ID:           testSiteID,
		AccountID:    testAccountID,
		Name:         "Central Plaza",
		Latitude:     floatPtr(28.6139),
		Longitude:    floatPtr(77.2090),
		RadiusMeters: intPtr(100),
	}
}

func newTestService(repo *fakeAttendanceRepo, siteData site.Site, allowMultipleCycles bool) attendance.AttendanceService {
	return NewAttendanceService(
		repo,
		&fakePersonRepo{persons: map[string]personnel.Person{
			testPersonID: {ID: testPersonID, AccountID: testAccountID, FullName: "Asha Verma", Active: true},
		}},
		&fakeSiteRepo{sites: map[string]site.Site{siteData.ID: siteData}},
		&fakeDeploymentService{deployed: map[string]string{testPersonID: testSiteID}},
		allowMultipleCycles,
	)
}

func TestAttendanceService_CheckIn_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	resp, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusCheckedIn), resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.NotNil(t, resp.CheckInTime)
	require.NotNil(t, resp.CheckInDistanceM)
	assert.InDelta(t, 0, *resp.CheckInDistanceM, 0.01)
	assert.False(t, resp.GeofenceBypassed)
}

func TestAttendanceService_CheckIn_OutOfRange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	// About 500 meters north of the site centre, against a 100 meter radius.
	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6184,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)

	var oorErr *attendance.OutOfRangeError
	require.ErrorAs(t, err, &oorErr)
	assert.InDelta(t, 500, oorErr.DistanceMeters, 5)
	assert.Equal(t, float64(100), oorErr.RadiusMeters)

	// Rejection must not create a record.
	open, err := repo.FindOpenSession(ctx, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
	assert.Empty(t, open.ID)
}

func TestAttendanceService_CheckIn_NotDeployed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(
		repo,
		&fakePersonRepo{persons: map[string]personnel.Person{}},
		&fakeSiteRepo{sites: map[string]site.Site{testSiteID: testSite()}},
		&fakeDeploymentService{deployed: map[string]string{}},
		false,
	)

	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
	}
	_, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrNotDeployed)
}

func TestAttendanceService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, req, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_SecondCycleSameDay(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	out := attendance.CheckOutRequest{
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T12:00:00Z",
	}
	_, err = svc.CheckOut(ctx, out, testPersonID, testAccountID)
	require.NoError(t, err)

	// Default policy: one cycle per day, even after checking out.
	_, err = svc.CheckIn(ctx, in, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_MultipleCyclesAllowed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), true)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	out := attendance.CheckOutRequest{
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T12:00:00Z",
	}
	_, err = svc.CheckOut(ctx, out, testPersonID, testAccountID)
	require.NoError(t, err)

	in.Timestamp = "2026-03-02T14:00:00Z"
	_, err = svc.CheckIn(ctx, in, testPersonID, testAccountID)
	assert.NoError(t, err)
}

func TestAttendanceService_CheckIn_GeoUnconfiguredSiteBypasses(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	bare := site.Site{ID: testSiteID, AccountID: testAccountID, Name: "Warehouse"}
	svc := newTestService(repo, bare, false)

	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  1.0,
		Longitude: 1.0,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	resp, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)

	require.NoError(t, err)
	assert.True(t, resp.GeofenceBypassed)
}

func TestAttendanceService_CheckIn_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, req, testPersonID, testAccountID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, attendance.ErrAlreadyCheckedIn):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	repo.mu.Lock()
	assert.Len(t, repo.records, 1)
	repo.mu.Unlock()
}

func TestAttendanceService_CheckOut_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	out := attendance.CheckOutRequest{
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T16:10:00Z",
	}
	resp, err := svc.CheckOut(ctx, out, testPersonID, testAccountID)

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusCheckedOut), resp.Status)
	require.NotNil(t, resp.CheckOutTime)
	assert.NotNil(t, resp.CheckOutDistanceM)

	// The session is closed; there is nothing left to check out of.
	_, err = svc.CheckOut(ctx, out, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestAttendanceService_CheckOut_NoOpenSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	out := attendance.CheckOutRequest{
		Latitude:  28.6139,
		Longitude: 77.2090,
	}
	_, err := svc.CheckOut(ctx, out, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestAttendanceService_CheckOut_OutOfRangeOfOpeningSite(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	out := attendance.CheckOutRequest{
		Latitude:  28.6184,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T16:10:00Z",
	}
	_, err = svc.CheckOut(ctx, out, testPersonID, testAccountID)

	var oorErr *attendance.OutOfRangeError
	require.ErrorAs(t, err, &oorErr)

	// The failed checkout must leave the session open.
	open, err := repo.FindOpenSession(ctx, testPersonID, testAccountID)
	require.NoError(t, err)
	assert.True(t, open.Open())
}

func TestAttendanceService_MarkAbsent_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.MarkAbsentRequest{PersonID: testPersonID, Date: "2026-03-02"}
	resp, err := svc.MarkAbsent(ctx, req, "supervisor-1", testAccountID)

	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusMarkedAbsent), resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
}

func TestAttendanceService_MarkAbsent_ConflictsWithExistingRecord(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	req := attendance.MarkAbsentRequest{PersonID: testPersonID, Date: "2026-03-02"}
	_, err = svc.MarkAbsent(ctx, req, "supervisor-1", testAccountID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)
}

func TestAttendanceService_MarkAbsent_BlocksLaterCheckIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.MarkAbsentRequest{PersonID: testPersonID, Date: "2026-03-02"}
	_, err := svc.MarkAbsent(ctx, req, "supervisor-1", testAccountID)
	require.NoError(t, err)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T10:00:00Z",
	}
	_, err = svc.CheckIn(ctx, in, testPersonID, testAccountID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_MarkAbsent_UnknownPerson(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	req := attendance.MarkAbsentRequest{PersonID: "ghost", Date: "2026-03-02"}
	_, err := svc.MarkAbsent(ctx, req, "supervisor-1", testAccountID)
	assert.ErrorIs(t, err, personnel.ErrPersonNotFound)
}

func TestAttendanceService_GetMyAttendance_ScopedToPerson(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc := newTestService(repo, testSite(), false)

	in := attendance.CheckInRequest{
		SiteID:    testSiteID,
		Latitude:  28.6139,
		Longitude: 77.2090,
		Timestamp: "2026-03-02T08:05:00Z",
	}
	_, err := svc.CheckIn(ctx, in, testPersonID, testAccountID)
	require.NoError(t, err)

	otherRecord := attendance.AttendanceRecord{
		ID:        "other-record",
		AccountID: testAccountID,
		PersonID:  "person-2",
		SiteID:    testSiteID,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:    attendance.StatusCheckedOut,
	}
	_, err = repo.Create(ctx, otherRecord)
	require.NoError(t, err)

	resp, err := svc.GetMyAttendance(ctx, attendance.ListFilter{}, testPersonID, testAccountID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, testPersonID, resp.Records[0].PersonID)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
}
