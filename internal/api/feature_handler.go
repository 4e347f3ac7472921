package api

import (
	"flagdeck/internal/dto/req"
	"flagdeck/internal/dto/resp"
	"flagdeck/internal/model"
	"flagdeck/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FeatureHandler struct {
	service service.FlagProvider
}

func NewFeatureHandler(svc service.FlagProvider) *FeatureHandler {
	return &FeatureHandler{service: svc}
}

func (h *FeatureHandler) CreateFeature(c *gin.Context) {
	var r req.CreateFeatureRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	flag, err := h.service.CreateFeature(c.Request.Context(), r.Name, r.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(201, resp.NewFeatureItem(flag))
}

func (h *FeatureHandler) ListFeatures(c *gin.Context) {
	var r req.ListRequest
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(400, gin.H{"error": "invalid pagination params"})
		return
	}

	flags, err := h.service.ListFeatures(c.Request.Context(), r.Skip, r.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewFeatureItems(flags))
}

func (h *FeatureHandler) GetFeature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}

	flag, err := h.service.GetFeature(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewFeatureItem(flag))
}

func (h *FeatureHandler) GetFeatureByName(c *gin.Context) {
	name := c.Param("name")

	flag, err := h.service.GetFeatureByName(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewFeatureItem(flag))
}

func (h *FeatureHandler) UpdateFeature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}
	var r req.UpdateFeatureRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	flag, err := h.service.UpdateFeature(c.Request.Context(), id, model.FeatureFlagUpdate{
		Name:        r.Name,
		Description: r.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, resp.NewFeatureItem(flag))
}

func (h *FeatureHandler) DeleteFeature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid feature id"})
		return
	}

	if err := h.service.DeleteFeature(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(204)
}

func (h *FeatureHandler) HealthCheck(c *gin.Context) {
	if err := h.service.Health(c.Request.Context()); err != nil {
		c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "ok"})
}
