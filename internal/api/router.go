package api

import (
	"flagdeck/internal/metrics"
	"flagdeck/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RouterParams bundles the handlers and middleware inputs for route
// registration.
type RouterParams struct {
	Features   *FeatureHandler
	Configs    *ConfigHandler
	BotConfigs *BotConfigHandler
	Auth       *AuthHandler
	Redis      *redis.Client
	SigningKey []byte
	WritesRPS  int
	DevMode    bool
}

func RegisterRoutes(p RouterParams) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(
		middleware.CorsMiddleware(),
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.GinZapRecovery(),
		middleware.HttpMiddleware(),
		middleware.TraceMiddleware(),
	)
	r.SetTrustedProxies(nil)

	// Public Routes
	r.GET("/health", p.Features.HealthCheck)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth Routes (Public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", p.Auth.Login)
		auth.POST("/refresh", p.Auth.Refresh)
	}

	// Auth Routes (Protected)
	authProtected := r.Group("/v1/auth")
	authProtected.Use(middleware.JWTMiddleware(p.SigningKey, p.DevMode))
	{
		authProtected.GET("/me", p.Auth.GetProfile)
		authProtected.POST("/logout", p.Auth.Logout)
	}

	// Protected Routes (Control Plane)
	protected := r.Group("/v1")
	protected.Use(middleware.JWTMiddleware(p.SigningKey, p.DevMode))

	// Rate Limiter for Write Operations
	writeLimiter := middleware.RateLimitMiddleware(p.Redis, p.WritesRPS)

	{
		protected.POST("/features", writeLimiter, p.Features.CreateFeature)
		protected.GET("/features", p.Features.ListFeatures)
		protected.GET("/features/:id", p.Features.GetFeature)
		protected.GET("/features/name/:name", p.Features.GetFeatureByName)
		protected.PATCH("/features/:id", writeLimiter, p.Features.UpdateFeature)
		protected.DELETE("/features/:id", writeLimiter, p.Features.DeleteFeature)
	}

	{
		protected.POST("/configs", writeLimiter, p.Configs.CreateConfig)
		protected.GET("/configs", p.Configs.ListConfigs)
		protected.GET("/configs/active", p.Configs.GetActiveConfigs)
		protected.GET("/configs/environment/:env", p.Configs.GetConfigsByEnvironment)
		protected.GET("/configs/:id", p.Configs.GetConfig)
		protected.PATCH("/configs/:id", writeLimiter, p.Configs.UpdateConfig)
		protected.DELETE("/configs/:id", writeLimiter, p.Configs.DeleteConfig)
		protected.POST("/configs/:id/activate", writeLimiter, p.Configs.ActivateConfig)
		protected.POST("/configs/:id/deactivate", writeLimiter, p.Configs.DeactivateConfig)

		protected.POST("/configs/:id/features", writeLimiter, p.Configs.AddFeatureToConfig)
		protected.GET("/configs/:id/features", p.Configs.GetConfigFeatures)
		protected.PATCH("/configs/:id/features/:featureId", writeLimiter, p.Configs.UpdateConfigFeature)
		protected.DELETE("/configs/:id/features/:featureId", writeLimiter, p.Configs.RemoveFeatureFromConfig)

		protected.POST("/configs/:id/versions", writeLimiter, p.Configs.CreateConfigVersion)
		protected.GET("/configs/:id/versions", p.Configs.GetConfigVersions)
	}

	{
		protected.POST("/bot-configs", writeLimiter, p.BotConfigs.CreateConfig)
		protected.GET("/bot-configs", p.BotConfigs.ListConfigs)
		protected.GET("/bot-configs/active", p.BotConfigs.GetActiveConfigs)
		protected.GET("/bot-configs/status/:status", p.BotConfigs.GetConfigsByStatus)
		protected.GET("/bot-configs/name/:name", p.BotConfigs.GetConfigByName)
		protected.GET("/bot-configs/:id", p.BotConfigs.GetConfig)
		protected.PATCH("/bot-configs/:id", writeLimiter, p.BotConfigs.UpdateConfig)
		protected.DELETE("/bot-configs/:id", writeLimiter, p.BotConfigs.DeleteConfig)
		protected.POST("/bot-configs/:id/activate", writeLimiter, p.BotConfigs.ActivateConfig)
		protected.POST("/bot-configs/:id/deactivate", writeLimiter, p.BotConfigs.DeactivateConfig)
	}

	return r
}
