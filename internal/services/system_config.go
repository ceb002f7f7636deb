package services

import (
	"strconv"

	"github.com/eduhire/backend/internal/models"
	"gorm.io/gorm"
)

type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

func (s *SystemConfigService) Get(key string) (string, error) {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return "", err
	}
	return cfg.Value, nil
}

func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	value, err := s.Get(key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{
			Key:   key,
			Value: value,
		}
		return s.db.Create(&cfg).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&cfg).Update("value", value).Error
}

func (s *SystemConfigService) GetByGroup(group string) ([]models.SystemConfig, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// AutoApproveReviews reports the current submission policy: when true, new
// reviews are created with status approved and go public immediately; when
// false they enter the moderation queue as pending.
func (s *SystemConfigService) AutoApproveReviews() bool {
	return s.GetWithDefault("review_auto_approve", "true") == "true"
}

func (s *SystemConfigService) SetAutoApproveReviews(enabled bool) error {
	return s.Set("review_auto_approve", strconv.FormatBool(enabled))
}

type ReviewPolicyResponse struct {
	AutoApprove bool `json:"auto_approve"`
}

type UpdateReviewPolicyRequest struct {
	AutoApprove *bool `json:"auto_approve"`
}
