package services

import (
	"fmt"
	"math"

	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// RatingService owns the materialized aggregate rating on teacher and
// institution profiles. The aggregate is always recomputed in full from the
// approved review set and replaces the stored copy wholesale; it is never
// patched incrementally, so re-running a recomputation is always safe.
type RatingService struct {
	db *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// ComputeAggregate derives the aggregate from a set of approved ratings.
// Deterministic: the same input always yields the same output, and an empty
// set yields the zero aggregate with an all-zero distribution.
func ComputeAggregate(ratings []int) models.AggregateRating {
	dist := models.EmptyDistribution()

	if len(ratings) == 0 {
		return models.AggregateRating{
			AverageRating:      0,
			TotalReviews:       0,
			RatingDistribution: dist,
		}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
		if r >= 1 && r <= 5 {
			dist[r]++
		}
	}

	avg := float64(sum) / float64(len(ratings))

	return models.AggregateRating{
		AverageRating:      math.Round(avg*10) / 10,
		TotalReviews:       len(ratings),
		RatingDistribution: dist,
	}
}

// Recompute selects the approved reviews for the entity, derives the aggregate
// and persists it onto the entity's profile record in a single update.
func (s *RatingService) Recompute(entityID uint, entityType string) (*models.AggregateRating, error) {
	var ratings []int
	err := s.db.Model(&models.Review{}).
		Where("reviewed_entity_id = ? AND reviewed_entity_type = ? AND status = ?",
			entityID, entityType, models.ReviewApproved).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}

	agg := ComputeAggregate(ratings)

	updates := map[string]interface{}{
		"average_rating":      agg.AverageRating,
		"total_reviews":       agg.TotalReviews,
		"rating_distribution": agg.RatingDistribution,
	}

	switch entityType {
	case models.EntityTeacher:
		err = s.db.Model(&models.TeacherProfile{}).Where("user_id = ?", entityID).Updates(updates).Error
	case models.EntityInstitution:
		err = s.db.Model(&models.InstitutionProfile{}).Where("user_id = ?", entityID).Updates(updates).Error
	default:
		err = fmt.Errorf("unknown reviewed entity type: %s", entityType)
	}
	if err != nil {
		return nil, err
	}

	return &agg, nil
}

// RecomputeAfterMutation runs Recompute as the final step of a review
// mutation. A failure here must not roll back the committed mutation: the
// aggregate stays stale until the next mutation or repair run, which always
// converges because recomputation is idempotent. The error is logged only.
func (s *RatingService) RecomputeAfterMutation(entityID uint, entityType string) {
	if _, err := s.Recompute(entityID, entityType); err != nil {
		logger.Error().
			Err(err).
			Uint("entity_id", entityID).
			Str("entity_type", entityType).
			Msg("aggregate recomputation failed, aggregate left stale")
		LogError("Ratings", "Recompute",
			fmt.Sprintf("recompute failed for %s %d", entityType, entityID),
			nil, "", "", map[string]interface{}{"error": err.Error()})
	}
}

// RepairAll recomputes the aggregate for every profile. Used by the nightly
// repair run and the operator endpoint to heal any drift left behind by
// recompute failures.
func (s *RatingService) RepairAll() (int, error) {
	repaired := 0

	var teacherIDs []uint
	if err := s.db.Model(&models.TeacherProfile{}).Pluck("user_id", &teacherIDs).Error; err != nil {
		return repaired, err
	}
	for _, id := range teacherIDs {
		if _, err := s.Recompute(id, models.EntityTeacher); err != nil {
			return repaired, err
		}
		repaired++
	}

	var institutionIDs []uint
	if err := s.db.Model(&models.InstitutionProfile{}).Pluck("user_id", &institutionIDs).Error; err != nil {
		return repaired, err
	}
	for _, id := range institutionIDs {
		if _, err := s.Recompute(id, models.EntityInstitution); err != nil {
			return repaired, err
		}
		repaired++
	}

	return repaired, nil
}

var repairCron *cron.Cron

// StartRepairScheduler runs RepairAll nightly at 03:30.
func StartRepairScheduler(db *gorm.DB) {
	service := NewRatingService(db)

	repairCron = cron.New()
	_, err := repairCron.AddFunc("30 3 * * *", func() {
		repaired, err := service.RepairAll()
		if err != nil {
			logger.Error().Err(err).Msg("nightly rating repair failed")
			return
		}
		logger.Info().Int("profiles", repaired).Msg("nightly rating repair completed")
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to schedule rating repair")
		return
	}
	repairCron.Start()
}

// StopRepairScheduler stops the nightly repair job.
func StopRepairScheduler() {
	if repairCron != nil {
		repairCron.Stop()
		repairCron = nil
	}
}
