package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/config"
	"github.com/dwoolworth/inkwell/media"
	"github.com/dwoolworth/inkwell/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/dwoolworth/inkwell/models"
)

// app bundles what every command needs.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *inkwell.Store
	registry *prometheus.Registry
}

// setup loads configuration, builds the logger and connects to MongoDB with
// logging and metrics middleware installed.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := telemetry.NewLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := telemetry.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	store, err := inkwell.Connect(ctx, cfg.MongoURI, cfg.MongoDB,
		inkwell.WithTimeout(cfg.MongoTimeout),
		inkwell.WithMiddleware(telemetry.LoggingMiddleware(log), metrics.Middleware()),
	)
	if err != nil {
		log.Error("database connection failed", zap.String("db", cfg.MongoDB), zap.Error(err))
		return nil, err
	}
	log.Info("connected to database", zap.String("db", cfg.MongoDB))

	return &app{cfg: cfg, log: log, store: store, registry: reg}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.log.Warn("disconnect failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

// uploader builds the configured media backend, or nil when uploads are
// disabled.
func (a *app) uploader(ctx context.Context) (media.Uploader, error) {
	switch strings.ToLower(a.cfg.MediaBackend) {
	case "":
		return nil, nil
	case "minio":
		u, err := media.NewMinIOUploader(media.MinIOConfig{
			Endpoint:  a.cfg.MinIOEndpoint,
			AccessKey: a.cfg.MinIOAccessKey,
			SecretKey: a.cfg.MinIOSecretKey,
			Bucket:    a.cfg.MinIOBucket,
			UseSSL:    a.cfg.MinIOUseSSL,
			PublicURL: a.cfg.MinIOPublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := u.EnsureBucket(ctx); err != nil {
			a.log.Warn("media bucket unavailable; uploads will fail", zap.Error(err))
		}
		return u, nil
	case "s3":
		return media.NewS3Uploader(ctx, media.S3Config{
			Endpoint:  a.cfg.S3Endpoint,
			Region:    a.cfg.S3Region,
			AccessKey: a.cfg.S3AccessKey,
			SecretKey: a.cfg.S3SecretKey,
			Bucket:    a.cfg.S3Bucket,
			PublicURL: a.cfg.S3PublicURL,
		})
	}
	return nil, fmt.Errorf("unknown media backend %q", a.cfg.MediaBackend)
}
