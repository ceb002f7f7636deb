package services

import (
	"errors"
	"strings"

	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"github.com/eduhire/backend/pkg/response"
	"gorm.io/gorm"
)

// ApplicationService owns the job application lifecycle. An application in the
// accepted state is the hiring relationship: it is what entitles an
// institution to review the teacher it hired.
type ApplicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

type ApplyRequest struct {
	JobID       uint   `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
}

// Apply creates a pending application from a teacher to a job. One
// application per (job, teacher) pair, enforced by the unique index.
func (s *ApplicationService) Apply(teacherID uint, req *ApplyRequest) (*models.Application, error) {
	if req.JobID == 0 {
		return nil, response.NewValidation("job_id is required")
	}

	var job models.Job
	if err := s.db.First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, s.depError("load job", err)
	}
	if !job.IsActive {
		return nil, response.NewValidation("job is no longer accepting applications")
	}

	app := models.Application{
		JobID:         req.JobID,
		TeacherID:     teacherID,
		InstitutionID: job.InstitutionID,
		CoverLetter:   strings.TrimSpace(req.CoverLetter),
		Status:        models.ApplicationPending,
	}
	if err := s.db.Create(&app).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, response.NewConflict("you have already applied to this job")
		}
		return nil, s.depError("create application", err)
	}
	return &app, nil
}

// applicationTransitions lists the allowed status moves. Terminal states have
// no outgoing edges.
var applicationTransitions = map[string][]string{
	models.ApplicationPending:     {models.ApplicationShortlisted, models.ApplicationAccepted, models.ApplicationRejected},
	models.ApplicationShortlisted: {models.ApplicationAccepted, models.ApplicationRejected},
}

func transitionAllowed(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an application along its lifecycle. Only the institution
// that owns the job may decide.
func (s *ApplicationService) UpdateStatus(institutionID, applicationID uint, status string) (*models.Application, error) {
	if status != models.ApplicationShortlisted &&
		status != models.ApplicationAccepted &&
		status != models.ApplicationRejected {
		return nil, response.NewValidation("status must be shortlisted, accepted or rejected")
	}

	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, s.depError("load application", err)
	}

	if app.InstitutionID != institutionID {
		return nil, response.NewAuthorization("you can only decide applications to your own jobs")
	}
	if !transitionAllowed(app.Status, status) {
		return nil, response.NewConflict("application is already " + app.Status)
	}

	if err := s.db.Model(&app).Update("status", status).Error; err != nil {
		return nil, s.depError("update application status", err)
	}
	app.Status = status
	return &app, nil
}

// MyApplications lists a teacher's applications, newest first.
func (s *ApplicationService) MyApplications(teacherID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, s.depError("list applications", err)
	}
	return apps, nil
}

// HasHiringRelationship reports whether the institution has at least one
// accepted application from the teacher.
func (s *ApplicationService) HasHiringRelationship(institutionID, teacherID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Application{}).
		Where("institution_id = ? AND teacher_id = ? AND status = ?",
			institutionID, teacherID, models.ApplicationAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *ApplicationService) depError(op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("application store operation failed")
	return response.NewDependency()
}
