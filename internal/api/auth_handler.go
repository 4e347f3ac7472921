package api

import (
	"flagdeck/internal/dto/req"
	"flagdeck/internal/service"
	"flagdeck/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var r req.LoginRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), r)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			c.JSON(401, gin.H{"error": "invalid username or password"})
			return
		}
		logger.Error("login failed", zap.String("username", r.Username), zap.Error(err))
		c.JSON(500, gin.H{"error": "login failed"})
		return
	}

	c.JSON(200, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var r req.RefreshRequest
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(400, gin.H{"error": "JSON format error"})
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), r.RefreshToken)
	if err != nil {
		// Expired, revoked and malformed tokens all read the same to the
		// client; details stay in the log.
		logger.Warn("refresh rejected", zap.Error(err))
		c.JSON(401, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(200, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	op := service.GetOperatorInfo(c.Request.Context())
	if op == nil {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}

	// Revocation failure is not surfaced; the access token still ages out.
	if err := h.svc.Logout(c.Request.Context(), op.UserID); err != nil {
		logger.Error("logout failed", zap.String("user_id", op.UserID), zap.Error(err))
	}

	c.JSON(200, gin.H{"message": "logged out"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	op := service.GetOperatorInfo(c.Request.Context())
	if op == nil {
		c.JSON(401, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(200, gin.H{
		"id":       op.UserID,
		"username": op.Name,
		"role":     op.Role,
	})
}
