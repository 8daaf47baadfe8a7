package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
	"github.com/noah-isme/training-hours-api/internal/repository"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
	"github.com/noah-isme/training-hours-api/pkg/export"
)

// ReportRequest carries the report filters. Department applies to principals
// that see every department and Employee to management; Month applies to
// everybody and ignores the year unless Year is set.
type ReportRequest struct {
	Department string
	Employee   string
	Month      int
	Year       int
}

// ReportServiceConfig governs the evolution chart and filter choices.
type ReportServiceConfig struct {
	SeriesMonths int
	Departments  []string
}

// ReportService builds the performance report and its downloads.
type ReportService struct {
	records recordLister
	policy  *policy.Policy
	logger  *zap.Logger
	cfg     ReportServiceConfig
	now     func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(records recordLister, pol *policy.Policy, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pol == nil {
		pol = policy.New("", true)
	}
	if cfg.SeriesMonths <= 0 {
		cfg.SeriesMonths = metrics.DefaultSeriesMonths
	}
	return &ReportService{records: records, policy: pol, logger: logger, cfg: cfg, now: time.Now}
}

// Get returns the team series, the report rows visible to pr and either the
// leader rating ranking or the principal's achievements.
func (s *ReportService) Get(ctx context.Context, pr models.Principal, req ReportRequest) (*dto.ReportResponse, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training records")
	}
	selection, filters, err := s.scope(pr, records, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportResponse{
		Series:  seriesPoints(metrics.MonthlySeries(records, s.cfg.SeriesMonths)),
		Filters: filters,
		Records: recordRows(s.policy, pr, selection, false),
	}

	masked := s.policy.Mask(pr, selection)
	if s.policy.ShowsLeaderRating(pr) {
		resp.Ranking = rankingRows(metrics.Ranking(masked))
	} else {
		summary := metrics.Achievements(masked)
		resp.Achievements = &dto.AchievementsView{
			Trainings:  summary.Trainings,
			TotalHours: summary.TotalHours,
			TotalHMS:   metrics.FormatHMS(summary.TotalHours),
			TopTopic:   summary.TopTopic,
		}
	}
	return resp, nil
}

// Export renders the filtered, masked report rows. format defaults to xlsx.
func (s *ReportService) Export(ctx context.Context, pr models.Principal, req ReportRequest, format string) (*dto.ExportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be xlsx, csv or pdf")
	}
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training records")
	}
	selection, _, err := s.scope(pr, records, req)
	if err != nil {
		return nil, err
	}

	dataset := s.dataset(pr, selection)
	content, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	file := &dto.ExportFile{
		Filename:    fmt.Sprintf("Report_%s.%s", s.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}
	s.logger.Info("report exported",
		zap.String("username", pr.Username),
		zap.String("format", renderer.Extension()),
		zap.Int("rows", len(dataset.Rows)),
	)
	return file, nil
}

// scope applies the role-dependent filters: department for principals that
// see every department, employee for management, own records otherwise.
func (s *ReportService) scope(pr models.Principal, records []models.TrainingRecord, req ReportRequest) ([]models.TrainingRecord, dto.ReportFilters, error) {
	if req.Month < 0 || req.Month > 12 {
		return nil, dto.ReportFilters{}, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	filters := dto.ReportFilters{Month: req.Month, Year: req.Year}

	var base []models.TrainingRecord
	switch {
	case s.policy.SeesAllDepartments(pr):
		filters.Department = strings.TrimSpace(req.Department)
		filters.Departments = departmentChoices(s.cfg.Departments, records)
		base = filterRecords(records, func(rec models.TrainingRecord) bool {
			return filters.Department == "" || rec.Department == filters.Department
		})
	case pr.Roles.Has(models.RoleManager):
		filters.Department = pr.Department
		base = filterRecords(records, func(rec models.TrainingRecord) bool {
			return rec.Department == pr.Department
		})
	default:
		filters.Employee = pr.Username
		base = filterRecords(records, func(rec models.TrainingRecord) bool {
			return rec.Employee == pr.Username
		})
	}

	if s.policy.SeesAllDepartments(pr) || pr.Roles.Has(models.RoleManager) {
		filters.Employees = uniqueEmployees(base)
		filters.Employee = strings.TrimSpace(req.Employee)
		if filters.Employee != "" {
			base = filterRecords(base, func(rec models.TrainingRecord) bool {
				return rec.Employee == filters.Employee
			})
		}
	}

	if req.Month != 0 || req.Year != 0 {
		base = filterByPeriod(base, req.Month, req.Year)
	}
	return base, filters, nil
}

func (s *ReportService) dataset(pr models.Principal, records []models.TrainingRecord) export.Dataset {
	headers := []string{
		repository.ColDate,
		repository.ColEmployee,
		repository.ColDepartment,
		repository.ColLeader,
		repository.ColTopic,
		repository.ColHours,
		repository.ColPeerRating,
	}
	showLeader := s.policy.ShowsLeaderRating(pr)
	if showLeader {
		headers = append(headers, repository.ColLeaderRating)
	}

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		row := map[string]string{
			repository.ColDate:       formatDate(rec.Date),
			repository.ColEmployee:   rec.Employee,
			repository.ColDepartment: rec.Department,
			repository.ColLeader:     rec.Leader,
			repository.ColTopic:      rec.Topic,
			repository.ColHours:      strconv.FormatFloat(rec.Hours, 'f', -1, 64),
			repository.ColPeerRating: rec.PeerRating,
		}
		if showLeader {
			row[repository.ColLeaderRating] = s.policy.MaskLeaderRating(pr, rec)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: "Training Report", Headers: headers, Rows: rows}
}

func seriesPoints(buckets []metrics.MonthBucket) []dto.SeriesPoint {
	points := make([]dto.SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, dto.SeriesPoint{
			Label:    b.Label(),
			Year:     b.Year,
			Month:    int(b.Month),
			Hours:    b.Hours,
			HoursHMS: metrics.FormatHMS(b.Hours),
		})
	}
	return points
}

func rankingRows(entries []metrics.RankEntry) []dto.RankingRow {
	rows := make([]dto.RankingRow, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, dto.RankingRow{
			Rank:     i + 1,
			Employee: entry.Employee,
			Mean:     entry.Mean,
			Display:  fmt.Sprintf("%.1f", entry.Mean),
		})
	}
	return rows
}

func filterRecords(records []models.TrainingRecord, keep func(models.TrainingRecord) bool) []models.TrainingRecord {
	out := make([]models.TrainingRecord, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
