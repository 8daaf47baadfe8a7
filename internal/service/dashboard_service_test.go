package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

func seededUsers() *mockUserRepo {
	return &mockUserRepo{users: []models.UserAccount{
		{Username: "ana", Roles: models.RoleSet{models.RoleCommon}, Department: "IT"},
		{Username: "bob", Roles: models.RoleSet{models.RoleCommon}, Department: "IT"},
		{Username: "cid", Roles: models.RoleSet{models.RoleCommon}, Department: "Sales"},
		{Username: "gil", Roles: models.RoleSet{models.RoleManager}, Department: "IT"},
	}}
}

func newDashboardService(records *mockTrainingRepo, users *mockUserRepo) *DashboardService {
	svc := NewDashboardService(DashboardServiceParams{
		Records: records,
		Users:   users,
		Policy:  policy.New(policy.DefaultBoardDepartment, true),
		Config:  DashboardServiceConfig{Departments: []string{"IT", "Sales"}},
	})
	svc.now = fixedClock(time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestDashboardServiceCommonUser(t *testing.T) {
	svc := newDashboardService(seededRecords(), seededUsers())

	res, err := svc.Get(context.Background(), principal("ana", "IT"), DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, "MY DASHBOARD - MARCH", res.Title)
	assert.Equal(t, 3, res.Month)
	assert.Equal(t, 2024, res.Year)
	assert.Equal(t, []string{"ana"}, res.TargetUsers)
	assert.Equal(t, 2.0, res.Metrics.TotalHours)
	assert.Equal(t, 7.0, res.Metrics.Quota)
	assert.Equal(t, metrics.BandCritical, res.Metrics.StatusBand)
	assert.Equal(t, "02:00:00", res.TotalHMS)
	assert.Equal(t, "07:00:00", res.QuotaHMS)
	assert.Equal(t, StatusLabelPending, res.StatusLabel)
	assert.False(t, res.Filters.Enabled)
	assert.Nil(t, res.Compliance)
	require.Len(t, res.History.Records, 1)
	assert.Nil(t, res.History.Records[0].LeaderRating)
}

func TestDashboardServiceWarningBand(t *testing.T) {
	repo := &mockTrainingRepo{records: []models.TrainingRecord{
		{ID: "r0", Date: day(2024, time.March, 4), Employee: "ana", Department: "IT", Leader: "Paula", Topic: "Go", Hours: 2, PeerRating: "9", LeaderRating: "-"},
		{ID: "r1", Date: day(2024, time.March, 11), Employee: "ana", Department: "IT", Leader: "Paula", Topic: "SQL", Hours: 1.5, PeerRating: "8", LeaderRating: "-"},
	}}
	svc := newDashboardService(repo, seededUsers())

	res, err := svc.Get(context.Background(), principal("ana", "IT"), DashboardRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, res.Metrics.TotalHours, 1e-9)
	assert.Equal(t, metrics.BandWarning, res.Metrics.StatusBand)
	assert.Equal(t, "03:30:00", res.TotalHMS)
	assert.Equal(t, StatusLabelPending, res.StatusLabel)
}

func TestDashboardServiceManagerDefaultsToDepartment(t *testing.T) {
	svc := newDashboardService(seededRecords(), seededUsers())

	res, err := svc.Get(context.Background(), principal("gil", "IT", models.RoleManager), DashboardRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, "MY DASHBOARD - MARCH", res.Title)
	assert.Equal(t, []string{"ana", "bob"}, res.TargetUsers)
	assert.Equal(t, 14.0, res.Metrics.Quota)
	assert.InDelta(t, 3.5, res.Metrics.TotalHours, 1e-9)
	assert.Equal(t, metrics.BandCritical, res.Metrics.StatusBand)
	assert.True(t, res.Filters.Enabled)
	assert.Equal(t, []string{"ana", "bob"}, res.Filters.Employees)
	assert.Empty(t, res.Filters.Departments)

	require.NotNil(t, res.Compliance)
	assert.Empty(t, res.Compliance.Met)
	require.Len(t, res.Compliance.Pending, 3)
	assert.Equal(t, "gil", res.Compliance.Pending[2].Name)
	assert.Equal(t, "07:00:00", res.Compliance.Pending[2].RemainingHMS)
}

func TestDashboardServiceTitles(t *testing.T) {
	svc := newDashboardService(seededRecords(), seededUsers())
	manager := principal("gil", "IT", models.RoleManager)

	single, err := svc.Get(context.Background(), manager, DashboardRequest{Month: 3, Year: 2024, Employees: []string{"bob"}})
	require.NoError(t, err)
	assert.Equal(t, "DASHBOARD: BOB", single.Title)
	assert.Equal(t, 1.5, single.Metrics.TotalHours)

	group, err := svc.Get(context.Background(), manager, DashboardRequest{Month: 3, Year: 2024, Employees: []string{"ana", "bob"}})
	require.NoError(t, err)
	assert.Equal(t, "GROUP DASHBOARD", group.Title)

	_, err = svc.Get(context.Background(), manager, DashboardRequest{Month: 3, Year: 2024, Employees: []string{"cid"}})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDashboardServiceAdminDepartmentAndStatus(t *testing.T) {
	svc := newDashboardService(seededRecords(), seededUsers())
	admin := principal("root", "IT", models.RoleAdmin)

	res, err := svc.Get(context.Background(), admin, DashboardRequest{Month: 2, Year: 2024, Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cid"}, res.TargetUsers)
	assert.Equal(t, 3.0, res.Metrics.TotalHours)
	assert.Equal(t, []string{"IT", "Sales"}, res.Filters.Departments)
	require.NotNil(t, res.Compliance)
	assert.Len(t, res.Compliance.Pending, 4)

	rated, err := svc.Get(context.Background(), admin, DashboardRequest{Month: 3, Year: 2024, Status: "rated"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, rated.Metrics.TotalHours)
	require.Len(t, rated.History.Records, 1)
	assert.Equal(t, "bob", rated.History.Records[0].Employee)
}

func TestDashboardServiceOnTrack(t *testing.T) {
	repo := seededRecords()
	repo.records = append(repo.records, models.TrainingRecord{ID: "r3", Date: day(2024, time.March, 9), Employee: "ana", Department: "IT", Topic: "Go", Hours: 5, PeerRating: "8", LeaderRating: "-"})
	svc := newDashboardService(repo, seededUsers())

	res, err := svc.Get(context.Background(), principal("ana", "IT"), DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, StatusLabelOnTrack, res.StatusLabel)
	assert.Equal(t, 100.0, res.Metrics.ProgressPct)
	require.Len(t, res.Topics, 1)
	assert.Equal(t, 7.0, res.Topics[0].Hours)
}

func TestDashboardServiceEmptyState(t *testing.T) {
	repo := &mockTrainingRepo{records: []models.TrainingRecord{{Employee: "ana", Topic: "Go", Hours: 1}}}
	svc := newDashboardService(repo, seededUsers())

	res, err := svc.Get(context.Background(), principal("ana", "IT"), DashboardRequest{})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, res.History.Records)
}

func TestDashboardServiceRejectsMonth(t *testing.T) {
	svc := newDashboardService(seededRecords(), seededUsers())
	_, err := svc.Get(context.Background(), principal("ana", "IT"), DashboardRequest{Month: 13})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
