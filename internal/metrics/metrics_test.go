package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/training-hours-api/internal/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func rec(employee string, hours float64, date *time.Time) models.TrainingRecord {
	return models.TrainingRecord{Employee: employee, Hours: hours, Date: date, LeaderRating: models.RatingUnset}
}

func TestFormatHMS(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{7.5, "07:30:00"},
		{0, "00:00:00"},
		{23.9999861, "24:00:00"},
		{1.999999, "02:00:00"},
		{1.25, "01:15:00"},
		{0.0125, "00:00:45"},
		{-3, "00:00:00"},
		{7, "07:00:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatHMS(tc.in), "%v", tc.in)
	}
}

func TestStatusBandFor(t *testing.T) {
	for _, quota := range []float64{7, 14, 0.5} {
		assert.Equal(t, BandCritical, StatusBandFor(0.39*quota, quota))
		assert.Equal(t, BandWarning, StatusBandFor(0.4*quota, quota))
		assert.Equal(t, BandWarning, StatusBandFor(0.99*quota, quota))
		assert.Equal(t, BandOnTrack, StatusBandFor(quota, quota))
		assert.Equal(t, BandOnTrack, StatusBandFor(quota*3, quota))
	}
}

func TestComputeDashboardScenario(t *testing.T) {
	engine := NewEngine(0, 0)
	records := []models.TrainingRecord{
		rec("A", 3, day(2024, time.May, 1)),
		rec("A", 5, day(2024, time.May, 15)),
		rec("A", 9, day(2024, time.June, 1)),
		rec("B", 4, day(2024, time.May, 2)),
		rec("A", 2, nil),
	}

	got := engine.ComputeDashboard(records, []string{"A"}, time.May, 2024)
	assert.Equal(t, 8.0, got.TotalHours)
	assert.Equal(t, 7.0, got.Quota)
	assert.Equal(t, 100.0, got.ProgressPct)
	assert.Equal(t, BandOnTrack, got.StatusBand)
}

func TestComputeDashboardGroupQuota(t *testing.T) {
	engine := NewEngine(7, 15)
	records := []models.TrainingRecord{
		rec("A", 3, day(2024, time.May, 1)),
		rec("B", 4, day(2024, time.May, 2)),
	}

	got := engine.ComputeDashboard(records, []string{"A", "B"}, time.May, 2024)
	assert.Equal(t, 7.0, got.TotalHours)
	assert.Equal(t, 14.0, got.Quota)
	assert.InDelta(t, 50.0, got.ProgressPct, 1e-9)
	assert.Equal(t, BandWarning, got.StatusBand)

	empty := engine.ComputeDashboard(records, nil, time.May, 2024)
	assert.Equal(t, 7.0, empty.Quota)
	assert.Equal(t, BandCritical, empty.StatusBand)
}

func TestSumHoursLeftToRight(t *testing.T) {
	records := []models.TrainingRecord{rec("A", 0.1, nil), rec("A", 0.2, nil), rec("A", 0.3, nil)}
	assert.Equal(t, (0.1+0.2)+0.3, SumHours(records))
}

func TestQuotaComplianceZeroFills(t *testing.T) {
	engine := NewEngine(7, 15)
	month := []models.TrainingRecord{
		rec("ana", 4, day(2024, time.May, 1)),
		rec("ana", 3, day(2024, time.May, 2)),
		rec("bruno", 2.5, day(2024, time.May, 3)),
		rec("ghost", 9, day(2024, time.May, 3)),
	}

	got := engine.QuotaCompliance([]string{"ana", "bruno", "carla"}, month)
	require.Len(t, got.Met, 1)
	assert.Equal(t, ComplianceEntry{Name: "ana", Total: 7, Remaining: 0}, got.Met[0])
	require.Len(t, got.Pending, 2)
	assert.Equal(t, ComplianceEntry{Name: "bruno", Total: 2.5, Remaining: 4.5}, got.Pending[0])
	assert.Equal(t, ComplianceEntry{Name: "carla", Total: 0, Remaining: 7}, got.Pending[1])
}

func TestRanking(t *testing.T) {
	records := []models.TrainingRecord{
		{Employee: "zoe", LeaderRating: "8"},
		{Employee: "zoe", LeaderRating: "-"},
		{Employee: "zoe", LeaderRating: "10"},
		{Employee: "ana", LeaderRating: "9"},
		{Employee: "bia", LeaderRating: "-"},
		{Employee: "caio", LeaderRating: "7"},
		{Employee: "caio", LeaderRating: models.RatingUnavailable},
	}

	got := Ranking(records)
	require.Len(t, got, 3)
	assert.Equal(t, RankEntry{Employee: "ana", Mean: 9, Ratings: 1}, got[0])
	assert.Equal(t, RankEntry{Employee: "zoe", Mean: 9, Ratings: 2}, got[1])
	assert.Equal(t, "caio", got[2].Employee)
	assert.Empty(t, Ranking([]models.TrainingRecord{{Employee: "bia", LeaderRating: "-"}}))
}

func TestInactivityAlerts(t *testing.T) {
	engine := NewEngine(7, 15)
	asOf := time.Date(2024, time.June, 20, 14, 30, 0, 0, time.UTC)
	records := []models.TrainingRecord{
		rec("stale", 1, day(2024, time.June, 4)),
		rec("edge", 1, day(2024, time.June, 5)),
		rec("fresh", 1, day(2024, time.June, 19)),
		rec("fresh", 1, day(2024, time.January, 1)),
		rec("undated", 1, nil),
	}

	got := engine.InactivityAlerts([]string{"stale", "edge", "fresh", "nobody", "undated"}, records, asOf)
	assert.Equal(t, []InactivityAlert{
		{Username: "stale", Kind: AlertInactive, Days: 16},
		{Username: "nobody", Kind: AlertNoRecords},
		{Username: "undated", Kind: AlertNoRecords},
	}, got)
}

func TestInactivityAlertsUseLocalWallClock(t *testing.T) {
	engine := NewEngine(7, 15)
	sydney := time.FixedZone("UTC+10", 10*60*60)
	records := []models.TrainingRecord{rec("ana", 1, day(2024, time.May, 1))}

	got := engine.InactivityAlerts([]string{"ana"}, records, time.Date(2024, time.May, 17, 5, 0, 0, 0, sydney))
	assert.Equal(t, []InactivityAlert{{Username: "ana", Kind: AlertInactive, Days: 16}}, got)

	got = engine.InactivityAlerts([]string{"ana"}, records, time.Date(2024, time.May, 16, 23, 0, 0, 0, sydney))
	assert.Empty(t, got)

	west := time.FixedZone("UTC-5", -5*60*60)
	got = engine.InactivityAlerts([]string{"ana"}, records, time.Date(2024, time.May, 16, 22, 0, 0, 0, west))
	assert.Empty(t, got)
}

func TestMonthlySeriesZeroFillsAndKeepsTail(t *testing.T) {
	records := []models.TrainingRecord{
		rec("a", 1, day(2023, time.November, 3)),
		rec("a", 2, day(2024, time.January, 10)),
		rec("a", 3, day(2024, time.January, 20)),
		rec("a", 4, day(2024, time.May, 1)),
		rec("a", 8, nil),
	}

	got := MonthlySeries(records, 6)
	require.Len(t, got, 6)
	assert.Equal(t, "2023-12", got[0].Label())
	assert.Equal(t, 0.0, got[0].Hours)
	assert.Equal(t, MonthBucket{Year: 2024, Month: time.January, Hours: 5}, got[1])
	assert.Equal(t, 0.0, got[3].Hours)
	assert.Equal(t, MonthBucket{Year: 2024, Month: time.May, Hours: 4}, got[5])

	short := MonthlySeries(records[:1], 6)
	require.Len(t, short, 1)
	assert.Empty(t, MonthlySeries(nil, 6))
}

func TestTopicBreakdown(t *testing.T) {
	records := []models.TrainingRecord{
		{Employee: "a", Topic: "Go", Hours: 1},
		{Employee: "b", Topic: "Go", Hours: 2},
		{Employee: "a", Topic: "Go", Hours: 0.5},
		{Employee: "a", Topic: "SQL", Hours: 1},
	}
	assert.Equal(t, []TopicHours{
		{Topic: "Go", Employee: "a", Hours: 1.5},
		{Topic: "Go", Employee: "b", Hours: 2},
		{Topic: "SQL", Employee: "a", Hours: 1},
	}, TopicBreakdown(records))
}

func TestAchievements(t *testing.T) {
	records := []models.TrainingRecord{
		{Topic: "SQL", Hours: 1},
		{Topic: "Go", Hours: 2},
		{Topic: "SQL", Hours: 1},
		{Topic: "Go", Hours: 0.5},
	}
	got := Achievements(records)
	assert.Equal(t, 4, got.Trainings)
	assert.Equal(t, 4.5, got.TotalHours)
	assert.Equal(t, "Go", got.TopTopic)

	assert.Equal(t, AchievementSummary{TopTopic: "-"}, Achievements(nil))
}
