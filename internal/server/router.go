package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/training-hours-api/internal/handler"
	"github.com/noah-isme/training-hours-api/internal/middleware"
	"github.com/noah-isme/training-hours-api/internal/policy"
	"github.com/noah-isme/training-hours-api/internal/service"
	"github.com/noah-isme/training-hours-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/training-hours-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/training-hours-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      *handler.AuthHandler
	Options   *handler.ConfigurationHandler
	Dashboard *handler.DashboardHandler
	Records   *handler.RecordHandler
	Reports   *handler.ReportHandler
	Users     *handler.UserHandler
	Metrics   *handler.MetricsHandler
}

// RouterOptions carries the cross-cutting dependencies of the router.
type RouterOptions struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	EnableMetrics  bool
	Logger         *zap.Logger
	MetricsService *service.MetricsService
	Authenticator  middleware.Authenticator
	Policy         *policy.Policy
}

// NewRouter mounts every route.
func NewRouter(opts RouterOptions, h Handlers) *gin.Engine {
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(opts.MetricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	auth := api.Group("")
	auth.Use(middleware.JWT(opts.Authenticator))

	auth.GET("/auth/me", h.Auth.Me)
	auth.POST("/auth/change-password", middleware.Audit(logr, "change_password", "user"), h.Auth.ChangePassword)
	auth.GET("/options", h.Options.Options)

	auth.GET("/dashboard", h.Dashboard.Get)

	auth.GET("/records", h.Records.List)
	auth.POST("/records", middleware.Audit(logr, "create", "training_record"), h.Records.Create)
	auth.PUT("/records/:position", middleware.Audit(logr, "update", "training_record"), h.Records.Update)
	auth.DELETE("/records/:position", middleware.Audit(logr, "delete", "training_record"), h.Records.Delete)

	auth.GET("/reports", h.Reports.Get)
	auth.GET("/reports/export", h.Reports.Export)

	pol := opts.Policy
	if pol == nil {
		pol = policy.New("", true)
	}
	admin := auth.Group("")
	admin.Use(middleware.Require(pol.CanAdminister))

	admin.GET("/admin/inactivity", h.Users.Inactivity)
	admin.GET("/users", h.Users.List)
	admin.POST("/users", middleware.Audit(logr, "create", "user"), h.Users.Create)
	admin.PUT("/users/:username", middleware.Audit(logr, "update", "user"), h.Users.Update)

	return r
}
