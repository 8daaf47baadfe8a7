package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/models"
	"github.com/noah-isme/training-hours-api/internal/policy"
	"github.com/noah-isme/training-hours-api/internal/repository"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

// halfSecond is the tolerance used when comparing submitted durations.
const halfSecond = 1.0 / 7200

type trainingRepository interface {
	List(ctx context.Context) ([]models.TrainingRecord, error)
	Append(ctx context.Context, record *models.TrainingRecord) error
	Replace(ctx context.Context, position int, record models.TrainingRecord) error
	Delete(ctx context.Context, position int) error
}

// RecordFilter narrows the history listing. Month 0 lists every record,
// undated ones included.
type RecordFilter struct {
	Month      int
	Year       int
	Department string
	Employees  []string
	Status     string
}

// TrainingServiceConfig lists the leaders a record may reference.
type TrainingServiceConfig struct {
	Leaders []string
}

// TrainingService registers, edits and deletes training records.
type TrainingService struct {
	repo      trainingRepository
	policy    *policy.Policy
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TrainingServiceConfig
	now       func() time.Time
}

// NewTrainingService constructs a TrainingService.
func NewTrainingService(repo trainingRepository, pol *policy.Policy, validate *validator.Validate, logger *zap.Logger, cfg TrainingServiceConfig) *TrainingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if pol == nil {
		pol = policy.New("", true)
	}
	return &TrainingService{repo: repo, policy: pol, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// List returns the records visible to pr with per-row permissions.
func (s *TrainingService) List(ctx context.Context, pr models.Principal, filter RecordFilter) (*dto.RecordListResponse, error) {
	status, err := parseStatus(filter.Status)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list training records")
	}
	scoped := s.policy.VisibleScope(pr, records, policy.ScopeFilter{
		Department: filter.Department,
		Employees:  filter.Employees,
		Status:     status,
	})
	if filter.Month != 0 || filter.Year != 0 {
		scoped = filterByPeriod(scoped, filter.Month, filter.Year)
	}
	return &dto.RecordListResponse{
		Records:           recordRows(s.policy, pr, scoped, true),
		ShowsLeaderRating: s.policy.ShowsLeaderRating(pr),
	}, nil
}

// Create registers a training for pr. The leader rating starts unset.
func (s *TrainingService) Create(ctx context.Context, pr models.Principal, req models.CreateRecordRequest) (*dto.RecordRow, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training payload")
	}
	if !s.knownLeader(req.Leader) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "leader must be selected from the list")
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.TrainingRecord{
		Date:         date,
		Employee:     pr.Username,
		Department:   pr.Department,
		Leader:       req.Leader,
		Topic:        req.Topic,
		Hours:        req.Duration.Decimal(),
		PeerRating:   req.PeerRating,
		LeaderRating: models.RatingUnset,
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save training record")
	}

	s.logger.Info("training record created", zap.String("username", pr.Username), zap.Int("position", record.Position), zap.String("record_id", record.ID))
	rows := recordRows(s.policy, pr, []models.TrainingRecord{*record}, true)
	return &rows[0], nil
}

// Update edits the record at position. Fields the principal may not change
// must be omitted or sent unchanged.
func (s *TrainingService) Update(ctx context.Context, pr models.Principal, position int, req models.UpdateRecordRequest) (*dto.RecordRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training payload")
	}

	record, err := s.locate(ctx, position, req.RecordID)
	if err != nil {
		return nil, err
	}

	access := s.policy.CanEdit(pr, *record)
	if access == policy.AccessNone {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "record is read-only for this user")
	}

	updated := *record
	if req.Topic != nil {
		topic := strings.TrimSpace(*req.Topic)
		if topic == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "topic is required")
		}
		updated.Topic = topic
	}
	if req.Duration != nil {
		if err := s.validator.Struct(req.Duration); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid duration")
		}
		if math.Abs(req.Duration.Decimal()-record.Hours) >= halfSecond {
			updated.Hours = req.Duration.Decimal()
		}
	}
	if req.PeerRating != nil {
		updated.PeerRating = *req.PeerRating
	}
	if req.LeaderRating != nil {
		updated.LeaderRating = *req.LeaderRating
	}

	sourceChanged := updated.Topic != record.Topic || updated.Hours != record.Hours || updated.PeerRating != record.PeerRating
	if sourceChanged && access != policy.AccessFull {
		return nil, appErrors.Clone(appErrors.ErrFieldLocked, "only the evaluation may be changed on this record")
	}
	if updated.LeaderRating != record.LeaderRating && !s.policy.CanRateAsLeader(pr, *record) {
		return nil, appErrors.Clone(appErrors.ErrFieldLocked, "leader rating cannot be set by this user")
	}

	if err := s.repo.Replace(ctx, position, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "training record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update training record")
	}

	s.logger.Info("training record updated",
		zap.String("username", pr.Username),
		zap.Int("position", position),
		zap.String("access", access.String()),
		zap.Bool("leader_rating_changed", updated.LeaderRating != record.LeaderRating),
	)
	rows := recordRows(s.policy, pr, []models.TrainingRecord{updated}, true)
	return &rows[0], nil
}

// Delete removes the record at position; full access is required.
func (s *TrainingService) Delete(ctx context.Context, pr models.Principal, position int, recordID string) error {
	record, err := s.locate(ctx, position, recordID)
	if err != nil {
		return err
	}
	if !s.policy.CanDelete(pr, *record) {
		return appErrors.Clone(appErrors.ErrForbidden, "record cannot be deleted by this user")
	}
	if err := s.repo.Delete(ctx, position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "training record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete training record")
	}
	s.logger.Info("training record deleted", zap.String("username", pr.Username), zap.Int("position", position), zap.String("record_id", record.ID))
	return nil
}

// locate loads the record at position and, when recordID is given, checks
// that the row still holds it.
func (s *TrainingService) locate(ctx context.Context, position int, recordID string) (*models.TrainingRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training records")
	}
	if position < 0 || position >= len(records) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "training record not found")
	}
	record := records[position]
	if recordID != "" && record.ID != "" && record.ID != recordID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "record at this position has changed")
	}
	return &record, nil
}

func (s *TrainingService) knownLeader(leader string) bool {
	if strings.TrimSpace(leader) == "" {
		return false
	}
	if len(s.cfg.Leaders) == 0 {
		return true
	}
	for _, l := range s.cfg.Leaders {
		if l == leader {
			return true
		}
	}
	return false
}

func (s *TrainingService) resolveDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		now := s.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return &today, nil
	}
	date := repository.ParseDate(raw)
	if date == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be DD/MM/YYYY or YYYY-MM-DD")
	}
	return date, nil
}

func parseStatus(raw string) (models.EvaluationStatus, error) {
	switch models.EvaluationStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.EvaluationAll:
		return models.EvaluationAll, nil
	case models.EvaluationRated:
		return models.EvaluationRated, nil
	case models.EvaluationPending:
		return models.EvaluationPending, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "status must be all, rated or pending")
	}
}

// filterByPeriod keeps dated records in month (1-12) of year. A zero month or
// year matches any.
func filterByPeriod(records []models.TrainingRecord, month, year int) []models.TrainingRecord {
	out := make([]models.TrainingRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date == nil {
			continue
		}
		if month != 0 && int(rec.Date.Month()) != month {
			continue
		}
		if year != 0 && rec.Date.Year() != year {
			continue
		}
		out = append(out, rec)
	}
	return out
}
