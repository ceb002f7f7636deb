package main

import (
	"github.com/eduhire/backend/internal/handlers"
	"github.com/eduhire/backend/internal/middleware"
	"github.com/eduhire/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/eduhire/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the public review surfaces
	publicLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "eduhire"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Public read surfaces (rate limited)
		public := api.Group("", publicLimiter.Middleware())
		{
			public.GET("/reviews/:entityType/:entityId", svc.reviewHandler.List)
			public.GET("/profiles/teachers/:id", svc.profileHandler.GetTeacher)
			public.GET("/profiles/institutions/:id", svc.profileHandler.GetInstitution)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Reviews
			protected.POST("/reviews", svc.reviewHandler.Submit)
			protected.GET("/reviews/my-reviews", svc.reviewHandler.MyReviews)
			protected.PUT("/reviews/:id", svc.reviewHandler.Update)
			protected.DELETE("/reviews/:id", svc.reviewHandler.Delete)
			protected.POST("/reviews/:id/helpful", svc.reviewHandler.MarkHelpful)

			// Profiles (owner edits)
			protected.PUT("/profiles/teachers/me",
				middleware.RoleRequired(models.RoleTeacher), svc.profileHandler.UpdateTeacher)
			protected.PUT("/profiles/institutions/me",
				middleware.RoleRequired(models.RoleInstitution), svc.profileHandler.UpdateInstitution)

			// Jobs (institution side)
			institution := protected.Group("", middleware.RoleRequired(models.RoleInstitution))
			{
				institution.POST("/jobs", svc.applicationHandler.CreateJob)
				institution.GET("/jobs/my-jobs", svc.applicationHandler.MyJobs)
				institution.PUT("/applications/:id/status", svc.applicationHandler.UpdateStatus)
			}

			// Applications (teacher side)
			teacher := protected.Group("", middleware.RoleRequired(models.RoleTeacher))
			{
				teacher.POST("/applications", svc.applicationHandler.Apply)
				teacher.GET("/applications/my-applications", svc.applicationHandler.MyApplications)
			}
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Moderation console
			admin.GET("/reviews", svc.adminReviewHandler.List)
			admin.GET("/reviews/statistics", svc.adminReviewHandler.Statistics)
			admin.GET("/reviews/policy", svc.adminReviewHandler.GetReviewPolicy)
			admin.PUT("/reviews/policy", svc.adminReviewHandler.UpdateReviewPolicy)
			admin.GET("/reviews/:id", svc.adminReviewHandler.GetByID)
			admin.PUT("/reviews/:id/approve", svc.adminReviewHandler.Approve)
			admin.PUT("/reviews/:id/flag", svc.adminReviewHandler.Flag)
			admin.POST("/reviews/bulk-approve", svc.adminReviewHandler.BulkApprove)
			admin.POST("/reviews/bulk-flag", svc.adminReviewHandler.BulkFlag)
			admin.DELETE("/reviews/:id", svc.adminReviewHandler.Delete)

			// Aggregate repair
			admin.POST("/ratings/repair", svc.adminReviewHandler.RepairRatings)

			// System Configs
			systemConfigHandler := handlers.NewSystemConfigHandler(models.GetDB())
			admin.GET("/system-configs", systemConfigHandler.GetByGroup)
			admin.PUT("/system-configs", systemConfigHandler.Update)

			// System Logs
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.GET("/system-logs/retention", systemLogHandler.GetRetentionDays)
			admin.PUT("/system-logs/retention", systemLogHandler.SetRetentionDays)
			admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
		}
	}
}
