package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

func newReportService(repo *mockTrainingRepo) *ReportService {
	svc := NewReportService(repo, policy.New(policy.DefaultBoardDepartment, true), nil, ReportServiceConfig{
		Departments: []string{"IT", "Sales"},
	})
	svc.now = fixedClock(time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	return svc
}

func TestReportServiceAdminRanking(t *testing.T) {
	svc := newReportService(seededRecords())

	res, err := svc.Get(context.Background(), principal("root", "IT", models.RoleAdmin), ReportRequest{})
	require.NoError(t, err)
	require.Len(t, res.Series, 2)
	assert.Equal(t, "2024-02", res.Series[0].Label)
	assert.Equal(t, 3.0, res.Series[0].Hours)
	assert.InDelta(t, 3.5, res.Series[1].Hours, 1e-9)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, []string{"IT", "Sales"}, res.Filters.Departments)
	assert.Equal(t, []string{"ana", "bob", "cid"}, res.Filters.Employees)
	require.Len(t, res.Ranking, 1)
	assert.Equal(t, 1, res.Ranking[0].Rank)
	assert.Equal(t, "bob", res.Ranking[0].Employee)
	assert.Equal(t, "8.0", res.Ranking[0].Display)
	assert.Nil(t, res.Achievements)
}

func TestReportServiceAdminFilters(t *testing.T) {
	svc := newReportService(seededRecords())

	res, err := svc.Get(context.Background(), principal("root", "IT", models.RoleAdmin), ReportRequest{Department: "IT", Employee: "bob"})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "bob", res.Records[0].Employee)
	assert.Equal(t, []string{"ana", "bob"}, res.Filters.Employees)
}

func TestReportServiceManagerScopedToDepartment(t *testing.T) {
	svc := newReportService(seededRecords())

	res, err := svc.Get(context.Background(), principal("gil", "IT", models.RoleManager), ReportRequest{Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, "IT", res.Filters.Department)
	assert.Len(t, res.Records, 2)
	assert.Empty(t, res.Filters.Departments)

	feb, err := svc.Get(context.Background(), principal("gil", "IT", models.RoleManager), ReportRequest{Month: 2})
	require.NoError(t, err)
	assert.Empty(t, feb.Records)
}

func TestReportServiceRankingExcludesOwnMaskedRating(t *testing.T) {
	svc := newReportService(seededRecords())

	res, err := svc.Get(context.Background(), principal("bob", "IT", models.RoleManager), ReportRequest{})
	require.NoError(t, err)
	assert.Empty(t, res.Ranking)
	require.NotNil(t, res.Records[1].LeaderRating)
	assert.Equal(t, models.RatingUnavailable, *res.Records[1].LeaderRating)
}

func TestReportServiceCommonAchievements(t *testing.T) {
	repo := seededRecords()
	repo.records = append(repo.records, models.TrainingRecord{ID: "r3", Date: day(2023, time.March, 20), Employee: "ana", Department: "IT", Topic: "Go", Hours: 1, PeerRating: "8", LeaderRating: "5"})
	svc := newReportService(repo)

	res, err := svc.Get(context.Background(), principal("ana", "IT"), ReportRequest{Department: "Sales", Employee: "cid", Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "ana", res.Filters.Employee)
	require.Len(t, res.Records, 2)
	assert.Nil(t, res.Ranking)
	require.NotNil(t, res.Achievements)
	assert.Equal(t, 2, res.Achievements.Trainings)
	assert.Equal(t, "03:00:00", res.Achievements.TotalHMS)
	assert.Equal(t, "Go", res.Achievements.TopTopic)

	withYear, err := svc.Get(context.Background(), principal("ana", "IT"), ReportRequest{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Len(t, withYear.Records, 1)
}

func TestReportServiceBoardSeesRanking(t *testing.T) {
	svc := newReportService(seededRecords())

	res, err := svc.Get(context.Background(), principal("dir", policy.DefaultBoardDepartment), ReportRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 3)
	assert.Len(t, res.Ranking, 1)
}

func TestReportServiceExportCSV(t *testing.T) {
	svc := newReportService(seededRecords())

	file, err := svc.Export(context.Background(), principal("root", "IT", models.RoleAdmin), ReportRequest{Department: "IT"}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "Report_20240315.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Employee,Department,Leader,Topic,Hours,PeerRating,LeaderRating", lines[0])
	assert.Equal(t, "01/03/2024,ana,IT,Paula,Go,2,9,-", lines[1])
}

func TestReportServiceExportHidesLeaderRating(t *testing.T) {
	svc := newReportService(seededRecords())

	file, err := svc.Export(context.Background(), principal("ana", "IT"), ReportRequest{}, "csv")
	require.NoError(t, err)
	assert.NotContains(t, string(file.Content), "LeaderRating")
}

func TestReportServiceExportDefaultsToXLSX(t *testing.T) {
	svc := newReportService(seededRecords())

	file, err := svc.Export(context.Background(), principal("ana", "IT"), ReportRequest{}, "")
	require.NoError(t, err)
	assert.Equal(t, "Report_20240315.xlsx", file.Filename)
	assert.NotEmpty(t, file.Content)

	_, err = svc.Export(context.Background(), principal("ana", "IT"), ReportRequest{}, "docx")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
