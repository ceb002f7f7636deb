package handlers

import (
	"strconv"

	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminReviewHandler struct {
	moderationService *services.ModerationService
	ratingService     *services.RatingService
	configService     *services.SystemConfigService
}

func NewAdminReviewHandler(db *gorm.DB) *AdminReviewHandler {
	return &AdminReviewHandler{
		moderationService: services.NewModerationService(db),
		ratingService:     services.NewRatingService(db),
		configService:     services.NewSystemConfigService(db),
	}
}

// List returns the moderation queue
// GET /api/admin/reviews
func (h *AdminReviewHandler) List(c *gin.Context) {
	var req services.ModerationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.moderationService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Statistics summarizes the review corpus
// GET /api/admin/reviews/statistics
func (h *AdminReviewHandler) Statistics(c *gin.Context) {
	stats, err := h.moderationService.Statistics()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// GetByID returns one review with the reviewer's recent history
// GET /api/admin/reviews/:id
func (h *AdminReviewHandler) GetByID(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	detail, err := h.moderationService.GetDetails(uint(reviewID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, detail)
}

// Approve publishes a review
// PUT /api/admin/reviews/:id/approve
func (h *AdminReviewHandler) Approve(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	review, err := h.moderationService.Approve(uint(reviewID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review)
}

type flagRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Flag hides a review with a reason
// PUT /api/admin/reviews/:id/flag
func (h *AdminReviewHandler) Flag(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.moderationService.Flag(uint(reviewID), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review)
}

type bulkRequest struct {
	ReviewIDs []uint `json:"review_ids" binding:"required"`
	Reason    string `json:"reason"`
}

// BulkApprove approves a batch of reviews
// POST /api/admin/reviews/bulk-approve
func (h *AdminReviewHandler) BulkApprove(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.moderationService.BulkApprove(req.ReviewIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BulkFlag flags a batch of reviews with a shared reason
// POST /api/admin/reviews/bulk-flag
func (h *AdminReviewHandler) BulkFlag(c *gin.Context) {
	var req bulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.moderationService.BulkFlag(req.ReviewIDs, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete removes a review outright
// DELETE /api/admin/reviews/:id
func (h *AdminReviewHandler) Delete(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	if err := h.moderationService.Delete(uint(reviewID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "review deleted"})
}

// RepairRatings recomputes every profile's aggregate
// POST /api/admin/ratings/repair
func (h *AdminReviewHandler) RepairRatings(c *gin.Context) {
	repaired, err := h.ratingService.RepairAll()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"profiles_repaired": repaired})
}

// GetReviewPolicy returns the auto-approve setting
// GET /api/admin/reviews/policy
func (h *AdminReviewHandler) GetReviewPolicy(c *gin.Context) {
	response.Success(c, services.ReviewPolicyResponse{
		AutoApprove: h.configService.AutoApproveReviews(),
	})
}

// UpdateReviewPolicy switches auto-approval at runtime
// PUT /api/admin/reviews/policy
func (h *AdminReviewHandler) UpdateReviewPolicy(c *gin.Context) {
	var req services.UpdateReviewPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.AutoApprove == nil {
		response.BadRequest(c, "auto_approve is required")
		return
	}

	if err := h.configService.SetAutoApproveReviews(*req.AutoApprove); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, services.ReviewPolicyResponse{AutoApprove: *req.AutoApprove})
}
