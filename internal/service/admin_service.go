package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/dto"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	appErrors "github.com/noah-isme/training-hours-api/pkg/errors"
)

// AdminService backs the administration panel alerts.
type AdminService struct {
	records recordLister
	users   userLister
	engine  *metrics.Engine
	logger  *zap.Logger
	now     func() time.Time
}

// NewAdminService constructs an AdminService. A nil engine uses the default
// thresholds.
func NewAdminService(records recordLister, users userLister, engine *metrics.Engine, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = metrics.NewEngine(0, 0)
	}
	return &AdminService{records: records, users: users, engine: engine, logger: logger, now: time.Now}
}

// Inactivity flags users without records or whose last training is older
// than the inactivity threshold, in users table order.
func (s *AdminService) Inactivity(ctx context.Context) (*dto.InactivityResponse, error) {
	accounts, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training records")
	}

	names := make([]string, 0, len(accounts))
	for _, account := range accounts {
		names = append(names, account.Username)
	}

	alerts := s.engine.InactivityAlerts(names, records, s.now())
	resp := &dto.InactivityResponse{Alerts: make([]dto.InactivityAlertView, 0, len(alerts))}
	for _, alert := range alerts {
		view := dto.InactivityAlertView{Username: alert.Username, Kind: string(alert.Kind), Days: alert.Days}
		switch alert.Kind {
		case metrics.AlertNoRecords:
			view.Message = fmt.Sprintf("%s: no records", alert.Username)
		default:
			view.Message = fmt.Sprintf("%s: inactive %d days", alert.Username, alert.Days)
		}
		resp.Alerts = append(resp.Alerts, view)
	}
	resp.Engaged = len(resp.Alerts) == 0
	if !resp.Engaged {
		s.logger.Debug("inactivity alerts raised", zap.Int("count", len(resp.Alerts)))
	}
	return resp, nil
}
