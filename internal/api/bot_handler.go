package api

import (
	"flagdeck/internal/dto/req"
	"flagdeck/internal/dto/resp"
	"flagdeck/internal/model"
	"flagdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BotConfigHandler struct {
	service service.BotConfigProvider
}

func NewBotConfigHandler(svc service.BotConfigProvider) *BotConfigHandler {
	return &BotConfigHandler{service: svc}
}

func (h *BotConfigHandler) CreateConfig(c *gin.Context) {
	var r req.CreateBotConfigRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	cfg, err := h.service.CreateConfig(c.Request.Context(), r.Name, r.Status, r.Version, r.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, resp.NewBotConfigItem(cfg))
}

func (h *BotConfigHandler) ListConfigs(c *gin.Context) {
	var r req.ListRequest
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(400, gin.H{"error": "invalid pagination params"})
		return
	}

	cfgs, err := h.service.ListConfigs(c.Request.Context(), r.Skip, r.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItems(cfgs))
}

func (h *BotConfigHandler) GetConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	cfg, err := h.service.GetConfig(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItem(cfg))
}

func (h *BotConfigHandler) GetConfigByName(c *gin.Context) {
	cfg, err := h.service.GetConfigByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItem(cfg))
}

func (h *BotConfigHandler) UpdateConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	var r req.UpdateBotConfigRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	cfg, err := h.service.UpdateConfig(c.Request.Context(), id, model.BotConfigUpdate{
		Name:     r.Name,
		Status:   r.Status,
		Version:  r.Version,
		IsActive: r.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItem(cfg))
}

func (h *BotConfigHandler) DeleteConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	if err := h.service.DeleteConfig(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(204)
}

func (h *BotConfigHandler) GetActiveConfigs(c *gin.Context) {
	cfgs, err := h.service.GetActiveConfigs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItems(cfgs))
}

func (h *BotConfigHandler) GetConfigsByStatus(c *gin.Context) {
	cfgs, err := h.service.GetConfigsByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewBotConfigItems(cfgs))
}

func (h *BotConfigHandler) ActivateConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	flipped, err := h.service.ActivateConfig(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !flipped {
		c.JSON(404, gin.H{"error": "config missing or already active"})
		return
	}
	c.JSON(200, gin.H{"activated": true})
}

func (h *BotConfigHandler) DeactivateConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	flipped, err := h.service.DeactivateConfig(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !flipped {
		c.JSON(404, gin.H{"error": "config missing or already inactive"})
		return
	}
	c.JSON(200, gin.H{"deactivated": true})
}
