package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/handler"
	"github.com/noah-isme/training-hours-api/internal/metrics"
	"github.com/noah-isme/training-hours-api/internal/policy"
	"github.com/noah-isme/training-hours-api/internal/repository"
	"github.com/noah-isme/training-hours-api/internal/service"
	"github.com/noah-isme/training-hours-api/pkg/config"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// App is the assembled HTTP application.
type App struct {
	Engine *gin.Engine
	Users  *service.UserService
}

// Build wires repositories, services and handlers over store.
func Build(cfg *config.Config, store rowstore.Store, logr *zap.Logger, metricsSvc *service.MetricsService) *App {
	if logr == nil {
		logr = zap.NewNop()
	}
	validate := validator.New()
	pol := policy.New(cfg.Policy.BoardDepartment, cfg.Policy.BoardIsManagement)

	userRepo := repository.NewUserRepository(store, cfg.Store.UsersTable)
	trainingRepo := repository.NewTrainingRepository(store, cfg.Store.RecordsTable)

	authSvc := service.NewAuthService(userRepo, pol, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		HashPasswords:     cfg.Auth.HashPasswords,
	})
	userSvc := service.NewUserService(userRepo, validate, logr, service.UserServiceConfig{
		Departments:   cfg.Training.Departments,
		HashPasswords: cfg.Auth.HashPasswords,
	})
	trainingSvc := service.NewTrainingService(trainingRepo, pol, validate, logr, service.TrainingServiceConfig{
		Leaders: cfg.Training.Leaders,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Records: trainingRepo,
		Users:   userRepo,
		Policy:  pol,
		Logger:  logr,
		Config: service.DashboardServiceConfig{
			QuotaHours:     cfg.Training.QuotaHours,
			InactivityDays: cfg.Training.InactivityDays,
			Departments:    cfg.Training.Departments,
		},
	})
	reportSvc := service.NewReportService(trainingRepo, pol, logr, service.ReportServiceConfig{
		SeriesMonths: cfg.Training.SeriesMonths,
		Departments:  cfg.Training.Departments,
	})
	adminSvc := service.NewAdminService(trainingRepo, userRepo, metrics.NewEngine(cfg.Training.QuotaHours, cfg.Training.InactivityDays), logr)
	optionsSvc := service.NewConfigurationService(cfg.Training.Departments, cfg.Training.Leaders, cfg.Training.QuotaHours)

	ready := func(ctx context.Context) error {
		_, err := store.Read(ctx, cfg.Store.UsersTable)
		return err
	}

	engine := NewRouter(RouterOptions{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Features.Docs,
		EnableMetrics:  cfg.Features.Metrics,
		Logger:         logr,
		MetricsService: metricsSvc,
		Authenticator:  authSvc,
		Policy:         pol,
	}, Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Options:   handler.NewConfigurationHandler(optionsSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Records:   handler.NewRecordHandler(trainingSvc),
		Reports:   handler.NewReportHandler(reportSvc),
		Users:     handler.NewUserHandler(userSvc, adminSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc, ready),
	})

	return &App{Engine: engine, Users: userSvc}
}
