package main

import (
	"context"

	"github.com/eduhire/backend/internal/config"
	"github.com/eduhire/backend/internal/handlers"
	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/internal/utils"
	"github.com/eduhire/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue          services.TaskQueue
	worker             *services.Worker
	authHandler        *handlers.AuthHandler
	reviewHandler      *handlers.ReviewHandler
	adminReviewHandler *handlers.AdminReviewHandler
	applicationHandler *handlers.ApplicationHandler
	profileHandler     *handlers.ProfileHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	services.InitSystemLogger(models.GetDB())
	services.StartLogCleanupScheduler(models.GetDB())

	// Nightly aggregate repair: heals any rating drift left behind by
	// recompute failures.
	services.StartRepairScheduler(models.GetDB())

	// Moderation decision emails go through the task queue (Redis when
	// enabled, in-process otherwise).
	emailService := services.NewEmailService(models.GetDB())
	processor := func(ctx context.Context, task *services.NotificationTask) error {
		return emailService.SendModerationDecision(task)
	}

	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(processor)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(processor)
			worker.Start()
		}
	}

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		taskQueue:          taskQueue,
		worker:             worker,
		authHandler:        authHandler,
		reviewHandler:      handlers.NewReviewHandler(models.GetDB()),
		adminReviewHandler: handlers.NewAdminReviewHandler(models.GetDB()),
		applicationHandler: handlers.NewApplicationHandler(models.GetDB()),
		profileHandler:     handlers.NewProfileHandler(models.GetDB()),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	services.StopRepairScheduler()
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
