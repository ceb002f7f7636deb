package handlers

import (
	"strconv"

	"github.com/eduhire/backend/internal/middleware"
	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		profileService: services.NewProfileService(db),
	}
}

// GetTeacher returns a public teacher profile with its materialized aggregate
// GET /api/profiles/teachers/:id
func (h *ProfileHandler) GetTeacher(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "profile id must be a positive integer")
		return
	}

	profile, err := h.profileService.GetTeacher(uint(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// GetInstitution returns a public institution profile
// GET /api/profiles/institutions/:id
func (h *ProfileHandler) GetInstitution(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "profile id must be a positive integer")
		return
	}

	profile, err := h.profileService.GetInstitution(uint(userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateTeacher edits the caller's own teacher profile
// PUT /api/profiles/teachers/me
func (h *ProfileHandler) UpdateTeacher(c *gin.Context) {
	var req services.UpdateTeacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.UpdateTeacher(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateInstitution edits the caller's own institution profile
// PUT /api/profiles/institutions/me
func (h *ProfileHandler) UpdateInstitution(c *gin.Context) {
	var req services.UpdateInstitutionProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.UpdateInstitution(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}
