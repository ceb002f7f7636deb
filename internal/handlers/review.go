package handlers

import (
	"strconv"

	"github.com/eduhire/backend/internal/middleware"
	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{
		reviewService: services.NewReviewService(db),
	}
}

// Submit creates a new review
// POST /api/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Submit(middleware.GetUserID(c), middleware.GetRole(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, review)
}

// List returns the approved reviews for an entity with statistics
// GET /api/reviews/:entityType/:entityId
func (h *ReviewHandler) List(c *gin.Context) {
	entityID, err := strconv.ParseUint(c.Param("entityId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "entity id must be a positive integer")
		return
	}

	req := services.ReviewListRequest{
		EntityType: c.Param("entityType"),
		EntityID:   uint(entityID),
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.reviewService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MyReviews returns all reviews written by the caller
// GET /api/reviews/my-reviews
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	result, err := h.reviewService.MyReviews(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Update modifies the caller's own review
// PUT /api/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	review, err := h.reviewService.Update(middleware.GetUserID(c), uint(reviewID), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review)
}

// Delete removes the caller's own review
// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	if err := h.reviewService.Delete(middleware.GetUserID(c), uint(reviewID)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "review deleted"})
}

// MarkHelpful increments a review's helpful counter
// POST /api/reviews/:id/helpful
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "review id must be a positive integer")
		return
	}

	review, err := h.reviewService.MarkHelpful(uint(reviewID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, review)
}
