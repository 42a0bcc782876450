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
	"golang.org/x/time/rate"

	"github.com/jwalitptl/clinic-assistant/internal/assistant"
	"github.com/jwalitptl/clinic-assistant/internal/audio"
	"github.com/jwalitptl/clinic-assistant/internal/backup"
	"github.com/jwalitptl/clinic-assistant/internal/config"
	"github.com/jwalitptl/clinic-assistant/internal/handler"
	appointmentHandler "github.com/jwalitptl/clinic-assistant/internal/handler/appointment"
	chatHandler "github.com/jwalitptl/clinic-assistant/internal/handler/chat"
	deadlineHandler "github.com/jwalitptl/clinic-assistant/internal/handler/deadline"
	inventoryHandler "github.com/jwalitptl/clinic-assistant/internal/handler/inventory"
	patientHandler "github.com/jwalitptl/clinic-assistant/internal/handler/patient"
	"github.com/jwalitptl/clinic-assistant/internal/llm"
	"github.com/jwalitptl/clinic-assistant/internal/middleware"
	"github.com/jwalitptl/clinic-assistant/internal/repository/postgres"
	"github.com/jwalitptl/clinic-assistant/internal/retrieval"
	"github.com/jwalitptl/clinic-assistant/internal/router"
	appointmentService "github.com/jwalitptl/clinic-assistant/internal/service/appointment"
	deadlineService "github.com/jwalitptl/clinic-assistant/internal/service/deadline"
	eventService "github.com/jwalitptl/clinic-assistant/internal/service/event"
	inventoryService "github.com/jwalitptl/clinic-assistant/internal/service/inventory"
	patientService "github.com/jwalitptl/clinic-assistant/internal/service/patient"
	"github.com/jwalitptl/clinic-assistant/internal/store"
	"github.com/jwalitptl/clinic-assistant/pkg/logger"
	"github.com/jwalitptl/clinic-assistant/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("clinic", "api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	deadlineRepo := postgres.NewDeadlineRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	settingRepo := postgres.NewSettingRepository(db)
	pinger := postgres.NewPinger(db)

	// Services
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	deadlineSvc := deadlineService.NewService(deadlineRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	eventSvc := eventService.NewService(outboxRepo)

	// Entity store, warmed before the first request
	entityStore := store.New(store.Repos{
		Patients:     patientRepo,
		Appointments: appointmentRepo,
		Deadlines:    deadlineRepo,
		Inventory:    inventoryRepo,
	}, appMetrics)
	if err := entityStore.Refresh(context.Background()); err != nil {
		appLogger.Error(err, "initial store refresh incomplete")
	}

	// External collaborators
	llmClient := llm.NewHTTPClient(llm.Config{URL: cfg.LLM.URL, Timeout: cfg.LLM.Timeout})
	retrievalClient := retrieval.NewHTTPClient(retrieval.Config{URL: cfg.Retrieval.URL, Timeout: cfg.Retrieval.Timeout})
	audioSvc := audio.NewHTTPService(audio.Config{Dir: cfg.Audio.Dir, URL: cfg.Audio.URL, Timeout: cfg.Audio.Timeout})
	backupClient := backup.NewHTTPClient(backup.Config{URL: cfg.Backup.URL, Timeout: cfg.Backup.Timeout})

	// Assistant core
	registry := assistant.NewRegistry(pinger, appMetrics, appLogger)
	actions := assistant.NewActions(patientSvc, appointmentSvc, deadlineSvc, inventorySvc, entityStore, eventSvc, backupClient, appLogger)
	actions.RegisterAll(registry)
	linker := assistant.NewLinker(entityStore)
	chatRouter := assistant.NewRouter(context.Background(), settingRepo, llmClient, retrievalClient, registry, entityStore, linker, appMetrics, appLogger)

	// Handlers
	h := handler.NewHandler(pinger, entityStore, backupClient)
	patientH := patientHandler.NewHandler(patientSvc, entityStore, eventSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, entityStore, eventSvc)
	deadlineH := deadlineHandler.NewHandler(deadlineSvc, entityStore, eventSvc)
	inventoryH := inventoryHandler.NewHandler(inventorySvc, entityStore, eventSvc)
	chatH := chatHandler.NewHandler(chatRouter, audioSvc)

	r := router.NewRouter(h, patientH, appointmentH, deadlineH, inventoryH, chatH, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       middleware.DefaultCORSConfig(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	appLogger.Info("server started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
