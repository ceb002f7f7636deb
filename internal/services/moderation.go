package services

import (
	"errors"
	"math"
	"strings"

	"github.com/eduhire/backend/internal/models"
	"github.com/eduhire/backend/pkg/logger"
	"github.com/eduhire/backend/pkg/response"
	"gorm.io/gorm"
)

// ModerationService is the admin-side review console: queue listing, approve,
// flag, bulk operations, deletion and statistics. Every mutation ends with an
// aggregate recomputation for the affected entity; bulk operations recompute
// once per distinct entity, not once per review.
type ModerationService struct {
	db      *gorm.DB
	ratings *RatingService
	emails  *EmailService
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{
		db:      db,
		ratings: NewRatingService(db),
		emails:  NewEmailService(db),
	}
}

type ModerationListRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status     string `form:"status"`
	EntityType string `form:"entity_type"`
	Search     string `form:"search"`
	Sort       string `form:"sort"`
}

type StatusCounts struct {
	All      int64 `json:"all"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Flagged  int64 `json:"flagged"`
}

type ModerationListResponse struct {
	Reviews     []models.Review `json:"reviews"`
	Counts      StatusCounts    `json:"counts"`
	Total       int64           `json:"total"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}

// List returns the moderation queue. Unlike the public listing it spans every
// status, and the per-status counts ignore the status filter so the console
// tabs always show the full queue sizes.
func (s *ModerationService) List(req *ModerationListRequest) (*ModerationListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	if req.Status != "" &&
		req.Status != models.ReviewPending &&
		req.Status != models.ReviewApproved &&
		req.Status != models.ReviewFlagged {
		return nil, response.NewValidation("status must be pending, approved or flagged")
	}
	if req.EntityType != "" &&
		req.EntityType != models.EntityTeacher &&
		req.EntityType != models.EntityInstitution {
		return nil, response.NewValidation("entity_type must be Teacher or Institution")
	}

	order, ok := reviewSortColumns[req.Sort]
	if !ok {
		order = "created_at DESC"
	}

	query := s.db.Model(&models.Review{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.EntityType != "" {
		query = query.Where("reviewed_entity_type = ?", req.EntityType)
	}
	if req.Search != "" {
		pattern := "%" + strings.TrimSpace(req.Search) + "%"
		query = query.Where("comment LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, s.depError("count moderation queue", err)
	}

	var reviews []models.Review
	offset := (req.Page - 1) * req.PageSize
	err := query.Preload("Reviewer").
		Order(order).
		Offset(offset).
		Limit(req.PageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, s.depError("list moderation queue", err)
	}

	counts, err := s.statusCounts()
	if err != nil {
		return nil, err
	}

	return &ModerationListResponse{
		Reviews:     reviews,
		Counts:      *counts,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(req.PageSize))),
		CurrentPage: req.Page,
	}, nil
}

type ModerationDetailResponse struct {
	Review       models.Review   `json:"review"`
	OtherReviews []models.Review `json:"other_reviews"`
}

// GetDetails returns one review plus the reviewer's other recent reviews, so
// the moderator can judge the submission against the reviewer's history.
func (s *ModerationService) GetDetails(reviewID uint) (*ModerationDetailResponse, error) {
	var review models.Review
	err := s.db.Preload("Reviewer").First(&review, reviewID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("review not found")
		}
		return nil, s.depError("load review", err)
	}

	var others []models.Review
	err = s.db.Where("reviewer_id = ? AND id <> ?", review.ReviewerID, review.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&others).Error
	if err != nil {
		return nil, s.depError("load reviewer history", err)
	}

	return &ModerationDetailResponse{Review: review, OtherReviews: others}, nil
}

// Approve marks a review approved. Approving an already-approved review is a
// no-op that still answers success; the recompute is idempotent either way,
// but the reviewer is only notified when the status actually changed.
func (s *ModerationService) Approve(reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("review not found")
		}
		return nil, s.depError("load review", err)
	}

	transitioned := review.Status != models.ReviewApproved
	if transitioned {
		updates := map[string]interface{}{
			"status":      models.ReviewApproved,
			"flag_reason": "",
		}
		if err := s.db.Model(&review).Updates(updates).Error; err != nil {
			return nil, s.depError("approve review", err)
		}
		review.Status = models.ReviewApproved
		review.FlagReason = ""
	}

	s.ratings.RecomputeAfterMutation(review.ReviewedEntityID, review.ReviewedEntityType)
	if transitioned {
		s.notifyDecision(&review, "approved", "")
	}

	return &review, nil
}

// Flag marks a review flagged with a reason of at least 10 characters. A
// flagged review leaves the approved set, so the recompute shrinks the
// aggregate.
func (s *ModerationService) Flag(reviewID uint, reason string) (*models.Review, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < 10 {
		return nil, response.NewValidation("flag reason must be at least 10 characters")
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("review not found")
		}
		return nil, s.depError("load review", err)
	}

	updates := map[string]interface{}{
		"status":      models.ReviewFlagged,
		"flag_reason": reason,
	}
	if err := s.db.Model(&review).Updates(updates).Error; err != nil {
		return nil, s.depError("flag review", err)
	}
	review.Status = models.ReviewFlagged
	review.FlagReason = reason

	s.ratings.RecomputeAfterMutation(review.ReviewedEntityID, review.ReviewedEntityType)
	s.notifyDecision(&review, "flagged", reason)

	return &review, nil
}

type BulkModerationResult struct {
	Updated            int64 `json:"updated"`
	EntitiesRecomputed int   `json:"entities_recomputed"`
}

// BulkApprove approves a batch of reviews in one update, then recomputes each
// affected entity exactly once.
func (s *ModerationService) BulkApprove(reviewIDs []uint) (*BulkModerationResult, error) {
	if len(reviewIDs) == 0 {
		return nil, response.NewValidation("review_ids must not be empty")
	}

	targets, err := s.distinctEntities(reviewIDs)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Review{}).
		Where("id IN ?", reviewIDs).
		Updates(map[string]interface{}{
			"status":      models.ReviewApproved,
			"flag_reason": "",
		})
	if result.Error != nil {
		return nil, s.depError("bulk approve", result.Error)
	}

	for _, target := range targets {
		s.ratings.RecomputeAfterMutation(target.EntityID, target.EntityType)
	}

	return &BulkModerationResult{
		Updated:            result.RowsAffected,
		EntitiesRecomputed: len(targets),
	}, nil
}

// BulkFlag flags a batch of reviews with a shared reason.
func (s *ModerationService) BulkFlag(reviewIDs []uint, reason string) (*BulkModerationResult, error) {
	if len(reviewIDs) == 0 {
		return nil, response.NewValidation("review_ids must not be empty")
	}
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) < 10 {
		return nil, response.NewValidation("flag reason must be at least 10 characters")
	}

	targets, err := s.distinctEntities(reviewIDs)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Review{}).
		Where("id IN ?", reviewIDs).
		Updates(map[string]interface{}{
			"status":      models.ReviewFlagged,
			"flag_reason": reason,
		})
	if result.Error != nil {
		return nil, s.depError("bulk flag", result.Error)
	}

	for _, target := range targets {
		s.ratings.RecomputeAfterMutation(target.EntityID, target.EntityType)
	}

	return &BulkModerationResult{
		Updated:            result.RowsAffected,
		EntitiesRecomputed: len(targets),
	}, nil
}

// Delete removes a review outright (admin-only; owners use the public delete).
func (s *ModerationService) Delete(reviewID uint) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("review not found")
		}
		return s.depError("load review", err)
	}

	entityID := review.ReviewedEntityID
	entityType := review.ReviewedEntityType

	if err := s.db.Delete(&models.Review{}, reviewID).Error; err != nil {
		return s.depError("delete review", err)
	}

	s.ratings.RecomputeAfterMutation(entityID, entityType)
	return nil
}

type entityTarget struct {
	EntityID   uint   `gorm:"column:reviewed_entity_id"`
	EntityType string `gorm:"column:reviewed_entity_type"`
}

// distinctEntities resolves the unique (entity, type) pairs behind a batch of
// review ids, so bulk operations recompute each aggregate once.
func (s *ModerationService) distinctEntities(reviewIDs []uint) ([]entityTarget, error) {
	var targets []entityTarget
	err := s.db.Model(&models.Review{}).
		Distinct("reviewed_entity_id", "reviewed_entity_type").
		Where("id IN ?", reviewIDs).
		Find(&targets).Error
	if err != nil {
		return nil, s.depError("resolve bulk targets", err)
	}
	return targets, nil
}

type EntityTypeStats struct {
	EntityType    string  `json:"entity_type"`
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

type ModerationStatistics struct {
	Counts       StatusCounts      `json:"counts"`
	ByEntityType []EntityTypeStats `json:"by_entity_type"`
}

// Statistics summarizes the review corpus for the admin dashboard.
func (s *ModerationService) Statistics() (*ModerationStatistics, error) {
	counts, err := s.statusCounts()
	if err != nil {
		return nil, err
	}

	byType := make([]EntityTypeStats, 0, 2)
	for _, entityType := range []string{models.EntityTeacher, models.EntityInstitution} {
		var ratings []int
		err := s.db.Model(&models.Review{}).
			Where("reviewed_entity_type = ? AND status = ?", entityType, models.ReviewApproved).
			Pluck("rating", &ratings).Error
		if err != nil {
			return nil, s.depError("load entity type stats", err)
		}
		agg := ComputeAggregate(ratings)
		byType = append(byType, EntityTypeStats{
			EntityType:    entityType,
			Count:         int64(agg.TotalReviews),
			AverageRating: agg.AverageRating,
		})
	}

	return &ModerationStatistics{Counts: *counts, ByEntityType: byType}, nil
}

func (s *ModerationService) statusCounts() (*StatusCounts, error) {
	var counts StatusCounts
	model := s.db.Model(&models.Review{})

	if err := model.Count(&counts.All).Error; err != nil {
		return nil, s.depError("count reviews", err)
	}
	for status, dest := range map[string]*int64{
		models.ReviewPending:  &counts.Pending,
		models.ReviewApproved: &counts.Approved,
		models.ReviewFlagged:  &counts.Flagged,
	} {
		err := s.db.Model(&models.Review{}).Where("status = ?", status).Count(dest).Error
		if err != nil {
			return nil, s.depError("count reviews by status", err)
		}
	}
	return &counts, nil
}

// notifyDecision enqueues a moderation-decision email for the reviewer. Any
// failure here is logged and swallowed; notification is best effort and must
// not fail the moderation action.
func (s *ModerationService) notifyDecision(review *models.Review, decision, reason string) {
	var reviewer models.User
	if err := s.db.First(&reviewer, review.ReviewerID).Error; err != nil {
		logger.Warn().Err(err).Uint("reviewer_id", review.ReviewerID).
			Msg("moderation notification skipped, reviewer lookup failed")
		return
	}

	queue := GetTaskQueue()
	if queue == nil {
		return
	}
	task := &NotificationTask{
		ReviewID:  review.ID,
		Recipient: reviewer.Email,
		Decision:  decision,
		Reason:    reason,
	}
	if err := queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Uint("review_id", review.ID).
			Msg("failed to enqueue moderation notification")
	}
}

func (s *ModerationService) depError(op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("moderation store operation failed")
	return response.NewDependency()
}
