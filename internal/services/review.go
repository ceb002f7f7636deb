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

// reviewDirections maps a reviewer role to the only entity type it may review.
// Teachers rate institutions, institutions rate teachers; nothing else.
var reviewDirections = map[string]string{
	models.RoleTeacher:     models.EntityInstitution,
	models.RoleInstitution: models.EntityTeacher,
}

// AllowedTargetForRole returns the entity type a reviewer role may review.
func AllowedTargetForRole(role string) (string, bool) {
	target, ok := reviewDirections[role]
	return target, ok
}

type ReviewService struct {
	db           *gorm.DB
	ratings      *RatingService
	applications *ApplicationService
	configSvc    *SystemConfigService
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db:           db,
		ratings:      NewRatingService(db),
		applications: NewApplicationService(db),
		configSvc:    NewSystemConfigService(db),
	}
}

type SubmitReviewRequest struct {
	Rating             int    `json:"rating"`
	Comment            string `json:"comment"`
	ReviewedEntityID   uint   `json:"reviewed_entity_id"`
	ReviewedEntityType string `json:"reviewed_entity_type"`
}

// Submit validates and persists a new review, then recomputes the target's
// aggregate before returning. Precondition order: presence, value ranges,
// review direction, hiring relationship, duplicate check. Failures before the
// insert leave no side effects.
func (s *ReviewService) Submit(reviewerID uint, reviewerRole string, req *SubmitReviewRequest) (*models.Review, error) {
	if req.Rating == 0 || req.Comment == "" || req.ReviewedEntityID == 0 || req.ReviewedEntityType == "" {
		return nil, response.NewValidation("all fields are required: rating, comment, reviewed_entity_id, reviewed_entity_type")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return nil, response.NewValidation("rating must be an integer between 1 and 5")
	}
	commentLen := len([]rune(strings.TrimSpace(req.Comment)))
	if commentLen < 10 || commentLen > 1000 {
		return nil, response.NewValidation("comment must be between 10 and 1000 characters")
	}
	if req.ReviewedEntityType != models.EntityTeacher && req.ReviewedEntityType != models.EntityInstitution {
		return nil, response.NewValidation("reviewed_entity_type must be Teacher or Institution")
	}

	allowedTarget, ok := AllowedTargetForRole(reviewerRole)
	if !ok || req.ReviewedEntityType != allowedTarget {
		return nil, response.NewAuthorization("your role cannot review this entity type")
	}

	// Institutions may only review teachers they have actually hired.
	if reviewerRole == models.RoleInstitution {
		hired, err := s.applications.HasHiringRelationship(reviewerID, req.ReviewedEntityID)
		if err != nil {
			return nil, s.depError("check hiring relationship", err)
		}
		if !hired {
			return nil, response.NewAuthorization("you can only review teachers you have hired")
		}
	}

	var existing models.Review
	err := s.db.Where("reviewer_id = ? AND reviewed_entity_id = ?", reviewerID, req.ReviewedEntityID).
		First(&existing).Error
	if err == nil {
		return nil, response.NewConflict("you have already reviewed this entity; use update instead")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.depError("check existing review", err)
	}

	if !s.entityExists(req.ReviewedEntityID, req.ReviewedEntityType) {
		return nil, response.NewNotFound("reviewed entity not found")
	}

	status := models.ReviewApproved
	if !s.configSvc.AutoApproveReviews() {
		status = models.ReviewPending
	}

	review := models.Review{
		Rating:             req.Rating,
		Comment:            strings.TrimSpace(req.Comment),
		ReviewerID:         reviewerID,
		ReviewedEntityID:   req.ReviewedEntityID,
		ReviewedEntityType: req.ReviewedEntityType,
		Status:             status,
	}

	if err := s.db.Create(&review).Error; err != nil {
		// Two concurrent submissions can both pass the pre-check; the loser
		// hits the unique index and must see the same conflict, not a fault.
		if isDuplicateKeyError(err) {
			return nil, response.NewConflict("you have already reviewed this entity; use update instead")
		}
		return nil, s.depError("create review", err)
	}

	if review.Status == models.ReviewApproved {
		s.ratings.RecomputeAfterMutation(review.ReviewedEntityID, review.ReviewedEntityType)
	}

	s.db.Preload("Reviewer").First(&review, review.ID)
	return &review, nil
}

type ReviewListRequest struct {
	EntityType string `form:"-"`
	EntityID   uint   `form:"-"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort       string `form:"sort"`
}

type ReviewStatistics struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

type ReviewListResponse struct {
	Reviews      []models.Review  `json:"reviews"`
	Statistics   ReviewStatistics `json:"statistics"`
	TotalPages   int              `json:"total_pages"`
	CurrentPage  int              `json:"current_page"`
	TotalReviews int64            `json:"total_reviews"`
}

// reviewSortColumns is the allowlist of public sort keys.
var reviewSortColumns = map[string]string{
	"created_at":     "created_at ASC",
	"-created_at":    "created_at DESC",
	"rating":         "rating ASC",
	"-rating":        "rating DESC",
	"-helpful_count": "helpful_count DESC",
}

// List returns the approved reviews for an entity, paginated, with statistics
// computed fresh from the same approved set so the public read never trails
// the materialized aggregate.
func (s *ReviewService) List(req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.EntityType != models.EntityTeacher && req.EntityType != models.EntityInstitution {
		return nil, response.NewValidation("entity type must be Teacher or Institution")
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	order, ok := reviewSortColumns[req.Sort]
	if !ok {
		order = "created_at DESC"
	}

	filter := s.db.Model(&models.Review{}).
		Where("reviewed_entity_id = ? AND reviewed_entity_type = ? AND status = ?",
			req.EntityID, req.EntityType, models.ReviewApproved)

	var total int64
	if err := filter.Count(&total).Error; err != nil {
		return nil, s.depError("count reviews", err)
	}

	var reviews []models.Review
	offset := (req.Page - 1) * req.PageSize
	err := filter.Preload("Reviewer").
		Order(order).
		Offset(offset).
		Limit(req.PageSize).
		Find(&reviews).Error
	if err != nil {
		return nil, s.depError("list reviews", err)
	}

	var ratings []int
	if err := s.db.Model(&models.Review{}).
		Where("reviewed_entity_id = ? AND reviewed_entity_type = ? AND status = ?",
			req.EntityID, req.EntityType, models.ReviewApproved).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, s.depError("load ratings", err)
	}
	agg := ComputeAggregate(ratings)

	return &ReviewListResponse{
		Reviews: reviews,
		Statistics: ReviewStatistics{
			AverageRating: agg.AverageRating,
			TotalReviews:  total,
		},
		TotalPages:   int(math.Ceil(float64(total) / float64(req.PageSize))),
		CurrentPage:  req.Page,
		TotalReviews: total,
	}, nil
}

type MyReviewsResponse struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
}

// MyReviews returns every review written by the caller, regardless of status.
func (s *ReviewService) MyReviews(reviewerID uint) (*MyReviewsResponse, error) {
	var reviews []models.Review
	err := s.db.Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, s.depError("list own reviews", err)
	}

	return &MyReviewsResponse{
		Reviews: reviews,
		Total:   int64(len(reviews)),
	}, nil
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Update lets the original reviewer replace rating and/or comment. A rating
// change shifts the mean and distribution, so recomputation runs even though
// the status is untouched.
func (s *ReviewService) Update(requesterID, reviewID uint, req *UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("review not found")
		}
		return nil, s.depError("load review", err)
	}

	if review.ReviewerID != requesterID {
		return nil, response.NewAuthorization("you can only update your own reviews")
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, response.NewValidation("rating must be an integer between 1 and 5")
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		comment := strings.TrimSpace(*req.Comment)
		commentLen := len([]rune(comment))
		if commentLen < 10 || commentLen > 1000 {
			return nil, response.NewValidation("comment must be between 10 and 1000 characters")
		}
		review.Comment = comment
	}

	if err := s.db.Save(&review).Error; err != nil {
		return nil, s.depError("save review", err)
	}

	s.ratings.RecomputeAfterMutation(review.ReviewedEntityID, review.ReviewedEntityType)

	s.db.Preload("Reviewer").First(&review, review.ID)
	return &review, nil
}

// Delete removes the caller's own review. Recomputation afterwards is
// mandatory: deleting the last approved review must reset the aggregate to its
// empty-state defaults, not leave the previous average in place.
func (s *ReviewService) Delete(requesterID, reviewID uint) error {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("review not found")
		}
		return s.depError("load review", err)
	}

	if review.ReviewerID != requesterID {
		return response.NewAuthorization("you can only delete your own reviews")
	}

	entityID := review.ReviewedEntityID
	entityType := review.ReviewedEntityType

	if err := s.db.Delete(&models.Review{}, reviewID).Error; err != nil {
		return s.depError("delete review", err)
	}

	s.ratings.RecomputeAfterMutation(entityID, entityType)
	return nil
}

// MarkHelpful increments the community helpful counter.
func (s *ReviewService) MarkHelpful(reviewID uint) (*models.Review, error) {
	result := s.db.Model(&models.Review{}).
		Where("id = ? AND status = ?", reviewID, models.ReviewApproved).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return nil, s.depError("mark helpful", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, response.NewNotFound("review not found")
	}

	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, s.depError("load review", err)
	}
	return &review, nil
}

func (s *ReviewService) entityExists(entityID uint, entityType string) bool {
	var count int64
	switch entityType {
	case models.EntityTeacher:
		s.db.Model(&models.TeacherProfile{}).Where("user_id = ?", entityID).Count(&count)
	case models.EntityInstitution:
		s.db.Model(&models.InstitutionProfile{}).Where("user_id = ?", entityID).Count(&count)
	}
	return count > 0
}

// depError logs the real storage failure and returns the generic transient
// error; internals never reach the client.
func (s *ReviewService) depError(op string, err error) error {
	logger.Error().Err(err).Str("op", op).Msg("review store operation failed")
	return response.NewDependency()
}

// isDuplicateKeyError detects a unique constraint violation across the
// supported drivers.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}
