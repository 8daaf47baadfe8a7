package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/training-hours-api/api/swagger"
	"github.com/noah-isme/training-hours-api/internal/server"
	"github.com/noah-isme/training-hours-api/internal/service"
	"github.com/noah-isme/training-hours-api/pkg/config"
	"github.com/noah-isme/training-hours-api/pkg/logger"
	"github.com/noah-isme/training-hours-api/pkg/rowstore"
)

// @title Training Hours API
// @version 1.0.0
// @description Training-hours dashboard: records, quota compliance, reports and user administration.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	backend, closeStore, err := server.OpenStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open row store", zap.Error(err))
	}
	defer closeStore()

	metricsSvc := service.NewMetricsService()
	store := rowstore.NewInstrumented(backend, metricsSvc, logr)

	app := server.Build(cfg, store, logr, metricsSvc)

	if cfg.Bootstrap.AdminUsername != "" {
		if _, err := app.Users.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminDepartment); err != nil {
			logr.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}
