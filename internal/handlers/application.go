package handlers

import (
	"strconv"

	"github.com/eduhire/backend/internal/middleware"
	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	jobService         *services.JobService
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: services.NewApplicationService(db),
		jobService:         services.NewJobService(db),
	}
}

// CreateJob posts a new job
// POST /api/jobs
func (h *ApplicationHandler) CreateJob(c *gin.Context) {
	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	job, err := h.jobService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, job)
}

// MyJobs lists the institution's own jobs
// GET /api/jobs/my-jobs
func (h *ApplicationHandler) MyJobs(c *gin.Context) {
	jobs, err := h.jobService.ListByInstitution(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, jobs)
}

// Apply submits an application to a job
// POST /api/applications
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.applicationService.Apply(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, app)
}

// MyApplications lists the teacher's applications
// GET /api/applications/my-applications
func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	apps, err := h.applicationService.MyApplications(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, apps)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an application through its lifecycle
// PUT /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "application id must be a positive integer")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	app, err := h.applicationService.UpdateStatus(middleware.GetUserID(c), uint(appID), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, app)
}
