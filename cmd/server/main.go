// Package main runs the seminar administration HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seminaires/backend/config"
	"github.com/seminaires/backend/internal/auth"
	"github.com/seminaires/backend/internal/countries"
	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/internal/organizations"
	"github.com/seminaires/backend/internal/requests"
	"github.com/seminaires/backend/internal/seminars"
	"github.com/seminaires/backend/internal/trainingtypes"
	"github.com/seminaires/backend/internal/venues"
	"github.com/seminaires/backend/pkg/database"
	"github.com/seminaires/backend/pkg/redis"
	"github.com/seminaires/backend/pkg/response"
	"github.com/seminaires/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	gin.SetMode(cfg.Server.Mode)

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Countries come from S3 when a bucket is configured, else from disk.
	countrySource := countries.FileSource(cfg.Countries.Path)
	if cfg.Countries.UseS3() {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled, reading countries from disk", zap.Error(err))
		} else {
			countrySource = countries.S3Source(s3Client, cfg.Countries.Bucket, cfg.Countries.Key)
		}
	}
	countryList := countries.NewLoader(countrySource, logger)

	// Auth
	tokens := auth.NewTokenService(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
	authSvc := auth.NewService(auth.NewRepository(pool), auth.NewSessionStore(rdb.Client), tokens, logger)
	if err := authSvc.SeedUser(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logger.Fatal("seed admin", zap.Error(err))
	}
	authHandler := auth.NewHandler(authSvc, auth.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure})

	// Reference data
	typeSvc := trainingtypes.NewService(trainingtypes.NewRepository(pool), logger)
	venueSvc := venues.NewService(venues.NewRepository(pool), logger)
	orgRepo := organizations.NewRepository(pool)
	orgSvc := organizations.NewService(orgRepo, countryList, logger)
	seminarRepo := seminars.NewRepository(pool)
	seminarSvc := seminars.NewService(seminarRepo, logger)

	// Requests
	requestSvc := requests.NewService(requests.NewRepository(pool), logger)
	requestHandler := requests.NewHandler(requestSvc, requests.NewLookup(seminarRepo, orgRepo), requests.ReferenceData{
		Types:         typeSvc,
		Venues:        venueSvc,
		Seminars:      seminarSvc,
		Organizations: orgSvc,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(registry)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())
	router.Use(middleware.LoadSession(authSvc, cfg.Session.CookieName))
	router.Use(middleware.Logger(logger))

	// Public
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	authHandler.RegisterPublic(router)

	// Everything else needs a session
	app := router.Group("")
	app.Use(middleware.RequireSession())
	{
		authHandler.Register(app)
		requestHandler.Register(app)
		trainingtypes.NewHandler(typeSvc).Register(app)
		venues.NewHandler(venueSvc).Register(app)
		organizations.NewHandler(orgSvc).Register(app)
		seminars.NewHandler(seminarSvc, typeSvc).Register(app)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
