package services

import (
	"errors"

	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"github.com/eduhire/backend/pkg/response"
	"gorm.io/gorm"
)

// ProfileService serves public teacher/institution profiles. Profile reads
// return the materialized aggregate; the public review listing recomputes its
// statistics fresh instead.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetTeacher(userID uint) (*models.TeacherProfile, error) {
	var profile models.TeacherProfile
	err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("teacher profile not found")
		}
		return nil, s.depError("load teacher profile", err)
	}
	return &profile, nil
}

func (s *ProfileService) GetInstitution(userID uint) (*models.InstitutionProfile, error) {
	var profile models.InstitutionProfile
	err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("institution profile not found")
		}
		return nil, s.depError("load institution profile", err)
	}
	return &profile, nil
}

type UpdateTeacherProfileRequest struct {
	Headline   *string `json:"headline"`
	Subjects   *string `json:"subjects"`
	Experience *int    `json:"experience_years"`
	Bio        *string `json:"bio"`
}

// UpdateTeacher changes the owner-editable fields. The aggregate columns are
// owned by the rating service and never writable here.
func (s *ProfileService) UpdateTeacher(userID uint, req *UpdateTeacherProfileRequest) (*models.TeacherProfile, error) {
	profile, err := s.GetTeacher(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Headline != nil {
		updates["headline"] = *req.Headline
	}
	if req.Subjects != nil {
		updates["subjects"] = *req.Subjects
	}
	if req.Experience != nil {
		updates["experience"] = *req.Experience
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.db.Model(profile).Updates(updates).Error; err != nil {
		return nil, s.depError("update teacher profile", err)
	}
	return s.GetTeacher(userID)
}

type UpdateInstitutionProfileRequest struct {
	Name        *string `json:"name"`
	City        *string `json:"city"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
}

func (s *ProfileService) UpdateInstitution(userID uint, req *UpdateInstitutionProfileRequest) (*models.InstitutionProfile, error) {
	profile, err := s.GetInstitution(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return profile, nil
	}

	if err := s.db.Model(profile).Updates(updates).Error; err != nil {
		return nil, s.depError("update institution profile", err)
	}
	return s.GetInstitution(userID)
}

func (s *ProfileService) depError(op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("profile store operation failed")
	return response.NewDependency()
}
