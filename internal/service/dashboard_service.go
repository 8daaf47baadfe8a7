package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

// Status labels shown next to the group total.
const (
	StatusLabelOnTrack = "ON TRACK"
	StatusLabelPending = "PENDING"
)

type recordLister interface {
	List(ctx context.Context) ([]models.TrainingRecord, error)
}

type userLister interface {
	List(ctx context.Context) ([]models.UserAccount, error)
}

// DashboardRequest selects the month and, for management, the group shown.
type DashboardRequest struct {
	Month      int
	Year       int
	Department string
	Employees  []string
	Status     string
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	QuotaHours     float64
	InactivityDays int
	Departments    []string
}

// DashboardService composes the monthly dashboard for a principal.
type DashboardService struct {
	records recordLister
	users   userLister
	policy  *policy.Policy
	engine  *metrics.Engine
	logger  *zap.Logger
	now     func() time.Time
	cfg     DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Records recordLister
	Users   userLister
	Policy  *policy.Policy
	Logger  *zap.Logger
	Config  DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.QuotaHours <= 0 {
		cfg.QuotaHours = metrics.DefaultQuotaHours
	}
	if cfg.InactivityDays <= 0 {
		cfg.InactivityDays = metrics.DefaultInactivityDays
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pol := params.Policy
	if pol == nil {
		pol = policy.New("", true)
	}
	return &DashboardService{
		records: params.Records,
		users:   params.Users,
		policy:  pol,
		engine:  metrics.NewEngine(cfg.QuotaHours, cfg.InactivityDays),
		logger:  logger,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Get builds the dashboard of pr for the requested month.
func (s *DashboardService) Get(ctx context.Context, pr models.Principal, req DashboardRequest) (*dto.DashboardResponse, error) {
	month, year, err := s.resolvePeriod(req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training records")
	}

	resp := &dto.DashboardResponse{
		Title:       fmt.Sprintf("MY DASHBOARD - %s", strings.ToUpper(month.String())),
		Month:       int(month),
		Year:        year,
		TargetUsers: []string{pr.Username},
		Topics:      []metrics.TopicHours{},
		History:     dto.RecordListResponse{Records: []dto.RecordRow{}, ShowsLeaderRating: s.policy.ShowsLeaderRating(pr)},
		Filters:     dto.DashboardFilters{Employees: []string{}},
	}

	if s.policy.IsManagement(pr) {
		base := s.groupBase(pr, records, req.Department)
		employees := uniqueEmployees(base)
		resp.Filters = dto.DashboardFilters{Enabled: true, Employees: employees}
		if s.policy.SeesAllDepartments(pr) {
			resp.Filters.Departments = departmentChoices(s.cfg.Departments, records)
		}

		selected, err := selectEmployees(req.Employees, employees)
		if err != nil {
			return nil, err
		}
		switch {
		case len(selected) == 1:
			resp.TargetUsers = selected
			resp.Title = fmt.Sprintf("DASHBOARD: %s", strings.ToUpper(selected[0]))
		case len(selected) > 1:
			resp.TargetUsers = selected
			resp.Title = "GROUP DASHBOARD"
		case len(base) > 0:
			resp.TargetUsers = employees
		}
	} else {
		status = models.EvaluationAll
	}

	if !hasDatedRecord(records) {
		resp.Empty = true
		return resp, nil
	}

	targets := toSet(resp.TargetUsers)
	monthRecords := make([]models.TrainingRecord, 0)
	selection := make([]models.TrainingRecord, 0)
	for _, rec := range records {
		if !rec.InMonth(month, year) {
			continue
		}
		monthRecords = append(monthRecords, rec)
		if _, ok := targets[rec.Employee]; ok && matchStatus(rec, status) {
			selection = append(selection, rec)
		}
	}

	resp.Metrics = s.engine.ComputeDashboard(selection, resp.TargetUsers, month, year)
	resp.TotalHMS = metrics.FormatHMS(resp.Metrics.TotalHours)
	resp.QuotaHMS = metrics.FormatHMS(resp.Metrics.Quota)
	resp.StatusLabel = StatusLabelPending
	if resp.Metrics.TotalHours >= resp.Metrics.Quota {
		resp.StatusLabel = StatusLabelOnTrack
	}
	resp.Topics = metrics.TopicBreakdown(selection)
	resp.History.Records = recordRows(s.policy, pr, selection, true)

	if s.policy.IsManagement(pr) {
		compliance, err := s.compliance(ctx, pr, monthRecords)
		if err != nil {
			return nil, err
		}
		resp.Compliance = compliance
	}

	s.logger.Debug("dashboard composed",
		zap.String("username", pr.Username),
		zap.Int("month", int(month)),
		zap.Int("year", year),
		zap.Int("targets", len(resp.TargetUsers)),
		zap.Int("records", len(selection)),
	)
	return resp, nil
}

// groupBase is the record set management filters choose from: the chosen
// department for principals that see every department, their own otherwise.
func (s *DashboardService) groupBase(pr models.Principal, records []models.TrainingRecord, department string) []models.TrainingRecord {
	department = strings.TrimSpace(department)
	if s.policy.SeesAllDepartments(pr) && department == "" {
		return records
	}
	if !s.policy.SeesAllDepartments(pr) {
		department = pr.Department
	}
	out := make([]models.TrainingRecord, 0, len(records))
	for _, rec := range records {
		if rec.Department == department {
			out = append(out, rec)
		}
	}
	return out
}

func (s *DashboardService) compliance(ctx context.Context, pr models.Principal, monthRecords []models.TrainingRecord) (*dto.ComplianceView, error) {
	accounts, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	names := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if !s.policy.SeesAllDepartments(pr) && account.Department != pr.Department {
			continue
		}
		names = append(names, account.Username)
	}
	result := s.engine.QuotaCompliance(names, monthRecords)
	return &dto.ComplianceView{
		Met:     complianceRows(result.Met),
		Pending: complianceRows(result.Pending),
	}, nil
}

func (s *DashboardService) resolvePeriod(month, year int) (time.Month, int, error) {
	now := s.now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	return time.Month(month), year, nil
}

func complianceRows(entries []metrics.ComplianceEntry) []dto.ComplianceRow {
	rows := make([]dto.ComplianceRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, dto.ComplianceRow{
			Name:         entry.Name,
			Total:        entry.Total,
			TotalHMS:     metrics.FormatHMS(entry.Total),
			Remaining:    entry.Remaining,
			RemainingHMS: metrics.FormatHMS(entry.Remaining),
		})
	}
	return rows
}

// selectEmployees keeps the requested names in request order; names outside
// the offered list are rejected.
func selectEmployees(requested, offered []string) ([]string, error) {
	allowed := toSet(offered)
	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := allowed[name]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("employee %q is not available for this filter", name))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func matchStatus(rec models.TrainingRecord, status models.EvaluationStatus) bool {
	switch status {
	case models.EvaluationRated:
		return rec.IsRated()
	case models.EvaluationPending:
		return !rec.IsRated()
	default:
		return true
	}
}
