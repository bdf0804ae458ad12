package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pierrolalune/CookBook2-sub001/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit.PerIP, cfg.RateLimit.Burst)))
	}
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/search", handler.SearchRecipes)
			recipes.POST("/makeable", handler.FindMakeableRecipes)
		}

		v1.GET("/suggestions", handler.Suggestions)
		v1.DELETE("/cache", handler.ClearCache)
		v1.POST("/cache/clean", handler.CleanExpiredCache)

		if handler.reloader != nil {
			v1.POST("/catalog/reload", handler.ReloadCatalog)
		}
	}

	return router
}
