package handlers

import (
	"github.com/eduhire/backend/internal/services"
	"github.com/eduhire/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemConfigHandler struct {
	configService *services.SystemConfigService
}

func NewSystemConfigHandler(db *gorm.DB) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: services.NewSystemConfigService(db),
	}
}

// GetByGroup returns the runtime settings of one group
// GET /api/admin/system-configs?group=email
func (h *SystemConfigHandler) GetByGroup(c *gin.Context) {
	group := c.Query("group")
	if group == "" {
		response.BadRequest(c, "group query parameter is required")
		return
	}

	configs, err := h.configService.GetByGroup(group)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Secrets are write-only through this API.
	for i := range configs {
		if configs[i].Key == "email_password" {
			configs[i].Value = ""
		}
	}

	response.Success(c, configs)
}

type updateConfigsRequest struct {
	Configs map[string]string `json:"configs" binding:"required"`
}

// Update writes a batch of runtime settings
// PUT /api/admin/system-configs
func (h *SystemConfigHandler) Update(c *gin.Context) {
	var req updateConfigsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	for key, value := range req.Configs {
		if err := h.configService.Set(key, value); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Success(c, gin.H{"updated": len(req.Configs)})
}
