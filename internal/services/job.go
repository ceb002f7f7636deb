package services

import (
	"errors"
	"strings"

	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"github.com/eduhire/backend/pkg/response"
	"gorm.io/gorm"
)

// JobService carries the minimal job lifecycle applications hang off.
type JobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

type CreateJobRequest struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
}

func (s *JobService) Create(institutionID uint, req *CreateJobRequest) (*models.Job, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.NewValidation("title is required")
	}

	job := models.Job{
		InstitutionID: institutionID,
		Title:         title,
		Subject:       strings.TrimSpace(req.Subject),
		IsActive:      true,
	}
	if err := s.db.Create(&job).Error; err != nil {
		logger.Error().Err(err).Str("op", "create job").Msg("job store operation failed")
		return nil, response.NewDependency()
	}
	return &job, nil
}

func (s *JobService) Get(jobID uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		logger.Error().Err(err).Str("op", "load job").Msg("job store operation failed")
		return nil, response.NewDependency()
	}
	return &job, nil
}

func (s *JobService) ListByInstitution(institutionID uint) ([]models.Job, error) {
	var jobs []models.Job
	err := s.db.Where("institution_id = ?", institutionID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		logger.Error().Err(err).Str("op", "list jobs").Msg("job store operation failed")
		return nil, response.NewDependency()
	}
	return jobs, nil
}
