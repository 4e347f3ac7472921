package api

import (
	"flagdeck/internal/dto/req"
	"flagdeck/internal/dto/resp"
	"flagdeck/internal/model"
	"flagdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConfigHandler struct {
	service service.ConfigProvider
}

func NewConfigHandler(svc service.ConfigProvider) *ConfigHandler {
	return &ConfigHandler{service: svc}
}

func (h *ConfigHandler) CreateConfig(c *gin.Context) {
	var r req.CreateConfigRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	cfg, err := h.service.CreateConfig(c.Request.Context(), r.Name, r.Environment, r.Description, r.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, resp.NewConfigItem(cfg))
}

func (h *ConfigHandler) ListConfigs(c *gin.Context) {
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
	c.JSON(200, resp.NewConfigItems(cfgs))
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
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
	c.JSON(200, resp.NewConfigItem(cfg))
}

func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	var r req.UpdateConfigRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	cfg, err := h.service.UpdateConfig(c.Request.Context(), id, model.FeatureConfigUpdate{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewConfigItem(cfg))
}

func (h *ConfigHandler) DeleteConfig(c *gin.Context) {
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

func (h *ConfigHandler) GetConfigsByEnvironment(c *gin.Context) {
	env := c.Param("env")
	if !model.ValidEnvironment(env) {
		c.JSON(400, gin.H{"error": "unknown environment"})
		return
	}

	cfgs, err := h.service.GetConfigsByEnvironment(c.Request.Context(), env)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewConfigItems(cfgs))
}

func (h *ConfigHandler) GetActiveConfigs(c *gin.Context) {
	cfgs, err := h.service.GetActiveConfigs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewConfigItems(cfgs))
}

func (h *ConfigHandler) ActivateConfig(c *gin.Context) {
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

func (h *ConfigHandler) DeactivateConfig(c *gin.Context) {
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

func (h *ConfigHandler) AddFeatureToConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	var r req.AddConfigFeatureRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}
	featureID, err := uuid.Parse(r.FeatureID)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}

	cfg, err := h.service.AddFeatureToConfig(c.Request.Context(), id, service.ConfigFlagParams{
		FeatureID:       featureID,
		IsEnabled:       r.IsEnabled,
		IsFree:          r.IsFree,
		DisabledMessage: r.DisabledMessage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, resp.NewConfigItem(cfg))
}

func (h *ConfigHandler) RemoveFeatureFromConfig(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	featureID, err := uuid.Parse(c.Param("featureId"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}

	removed, err := h.service.RemoveFeatureFromConfig(c.Request.Context(), id, featureID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(404, gin.H{"error": "feature not attached to config"})
		return
	}
	c.Status(204)
}

func (h *ConfigHandler) UpdateConfigFeature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	featureID, err := uuid.Parse(c.Param("featureId"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}
	var r req.UpdateConfigFeatureRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	assoc, err := h.service.UpdateConfigFeature(c.Request.Context(), id, featureID, model.ConfigFlagUpdate{
		IsEnabled:       r.IsEnabled,
		IsFree:          r.IsFree,
		DisabledMessage: r.DisabledMessage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewConfigFeatureItem(assoc))
}

func (h *ConfigHandler) GetConfigFeatures(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	assocs, err := h.service.GetConfigFeatures(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewConfigFeatureItems(assocs))
}

func (h *ConfigHandler) CreateConfigVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}
	var r req.CreateConfigVersionRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	version, err := h.service.CreateConfigVersion(c.Request.Context(), id, r.Changelog, r.CreatedBy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, resp.NewVersionItem(version))
}

func (h *ConfigHandler) GetConfigVersions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid config id"})
		return
	}

	versions, err := h.service.GetConfigVersions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewVersionItems(versions))
}
