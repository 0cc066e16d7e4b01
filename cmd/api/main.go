package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saudelog/agenda-api/internal/config"
	appointmentHandler "github.com/saudelog/agenda-api/internal/handler/appointment"
	carHandler "github.com/saudelog/agenda-api/internal/handler/car"
	clientHandler "github.com/saudelog/agenda-api/internal/handler/client"
	collectorHandler "github.com/saudelog/agenda-api/internal/handler/collector"
	documentHandler "github.com/saudelog/agenda-api/internal/handler/document"
	driverHandler "github.com/saudelog/agenda-api/internal/handler/driver"
	healthHandler "github.com/saudelog/agenda-api/internal/handler/health"
	reportHandler "github.com/saudelog/agenda-api/internal/handler/report"
	tagHandler "github.com/saudelog/agenda-api/internal/handler/tag"
	"github.com/saudelog/agenda-api/internal/middleware"
	"github.com/saudelog/agenda-api/internal/repository/postgres"
	"github.com/saudelog/agenda-api/internal/router"
	appointmentService "github.com/saudelog/agenda-api/internal/service/appointment"
	carService "github.com/saudelog/agenda-api/internal/service/car"
	clientService "github.com/saudelog/agenda-api/internal/service/client"
	collectorService "github.com/saudelog/agenda-api/internal/service/collector"
	documentService "github.com/saudelog/agenda-api/internal/service/document"
	driverService "github.com/saudelog/agenda-api/internal/service/driver"
	eventService "github.com/saudelog/agenda-api/internal/service/event"
	notificationService "github.com/saudelog/agenda-api/internal/service/notification"
	reportService "github.com/saudelog/agenda-api/internal/service/report"
	tagService "github.com/saudelog/agenda-api/internal/service/tag"
	applog "github.com/saudelog/agenda-api/pkg/logger"
	"github.com/saudelog/agenda-api/pkg/metrics"
	"github.com/saudelog/agenda-api/pkg/storage"
	"github.com/saudelog/agenda-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := applog.New(&applog.Config{
		Level:  applog.InfoLevel,
		Output: os.Stdout,
	}).ZL.With().Str("app", "agenda-api").Logger()

	validator.RegisterCustomRules()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	presigner, err := storage.NewGCSPresigner(ctx, storage.GCSConfig{
		Bucket:         cfg.Storage.Bucket,
		UploadExpiry:   cfg.Storage.UploadExpiry,
		DownloadExpiry: cfg.Storage.DownloadExpiry,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage presigner")
	}
	defer presigner.Close()

	m := metrics.New("agenda_api")

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	collectorRepo := postgres.NewCollectorRepository(db)
	carRepo := postgres.NewCarRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	tagRepo := postgres.NewTagRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo, logger)
	notifier := notificationService.NewService(cfg.Email, logger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, tagRepo, driverRepo, eventSvc, notifier, logger)
	driverSvc := driverService.NewService(driverRepo, eventSvc, logger)
	collectorSvc := collectorService.NewService(collectorRepo, eventSvc, logger)
	carSvc := carService.NewService(carRepo, eventSvc, logger)
	clientSvc := clientService.NewService(clientRepo, appointmentRepo, eventSvc, logger)
	tagSvc := tagService.NewService(tagRepo, eventSvc, logger)
	documentSvc := documentService.NewService(documentRepo, presigner, documentService.Config{
		MaxFileSize:  cfg.Upload.MaxFileSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}, eventSvc, logger)
	reportSvc := reportService.NewService(appointmentRepo, driverRepo, carRepo, logger)

	// Handlers
	auth := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	registryCache := middleware.NewResponseCache(time.Minute)

	r := router.New(cfg, logger, m, auth,
		healthHandler.NewHandler(db),
		appointmentHandler.NewHandler(appointmentSvc, auth),
		driverHandler.NewHandler(driverSvc, registryCache),
		collectorHandler.NewHandler(collectorSvc, registryCache),
		carHandler.NewHandler(carSvc, registryCache),
		clientHandler.NewHandler(clientSvc),
		tagHandler.NewHandler(tagSvc),
		documentHandler.NewHandler(documentSvc),
		reportHandler.NewHandler(reportSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds+5) * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}
