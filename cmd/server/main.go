package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"password-study/internal/config"
	"password-study/internal/eventlog"
	apphttp "password-study/internal/http"
	"password-study/internal/policy"
	"password-study/internal/repository/sqlite"
	"password-study/internal/scheme"
	"password-study/internal/sequence"
	"password-study/internal/service"
	"password-study/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("invalid log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	domains, err := sequence.New(cfg.Experiment.Domains...)
	if err != nil {
		logger.Fatalf("domain sequence: %v", err)
	}
	src := scheme.NewRandomSource()
	registry := scheme.Default(src)

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	passwordRepo := sqlite.NewPasswordRepository(db)

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := passwordRepo.Init(ctx); err != nil {
		logger.Fatalf("init password repository: %v", err)
	}

	sink, err := eventlog.NewCSVSink(cfg.EventLog.Dir)
	if err != nil {
		logger.Fatalf("setup event log: %v", err)
	}
	events := eventlog.NewAsyncLogger(eventlog.Config{
		QueueSize: cfg.EventLog.QueueSize,
		Logger:    logger,
	}, sink)
	events.Start(ctx)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	var archiver *eventlog.Archiver
	if storageSvc != nil {
		archiver = eventlog.NewArchiver(storageSvc, sink, storage.UploadOptions{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
		}, logger)
	}

	assigner, err := service.NewAssigner(cfg.Experiment.Assignment, registry.IDs(), userRepo, src)
	if err != nil {
		logger.Fatalf("setup assignment: %v", err)
	}

	flowService := service.NewFlowService(service.FlowConfig{
		Schemes:   registry,
		Domains:   domains,
		Policy:    policy.New(cfg.Experiment.MaxAttempts),
		Passwords: passwordRepo,
		Events:    events,
		Logger:    logger,
	})
	experimentService := service.NewExperimentService(service.ExperimentConfig{
		Schemes:   registry,
		Domains:   domains,
		Assigner:  assigner,
		Users:     userRepo,
		Passwords: passwordRepo,
		Logger:    logger,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.HandlerConfig{
		Flow:       flowService,
		Experiment: experimentService,
		Domains:    domains,
		Storage:    storageSvc,
		Bucket:     cfg.Storage.Bucket,
		LogPrefix:  cfg.Storage.KeyPrefix,
		Logger:     logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (schemes %v, domains %v)", cfg.Server.Addr, registry.IDs(), domains.Domains())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	events.Shutdown()

	if archiver != nil {
		if _, err := archiver.Archive(shutdownCtx); err != nil {
			logger.Warnf("archive event logs: %v", err)
		}
	}

	logger.Info("bye")
}

// buildStorage returns nil when no bucket is configured; log archival is optional.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Info("no storage bucket configured, event logs stay local")
		return nil, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("archiving event logs to s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
