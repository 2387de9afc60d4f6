package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/certwatch/certwatch/api/handlers"
	"github.com/certwatch/certwatch/api/middleware"
	"github.com/certwatch/certwatch/internal/logger"
	"github.com/certwatch/certwatch/internal/tracing"
	"github.com/certwatch/certwatch/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, s *services.Services, log logger.Logger) {
	if s == nil {
		panic("Services cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery

	// setup handlers
	apiHandlers := handlers.InitHandlers(s, log)

	// Health check endpoint (no tracing needed)
	r.GET("/health", handlers.HealthCheck)

	// API group with tracing
	api := r.Group("/api")
	api.Use(middleware.TracingMiddleware())
	{
		domains := api.Group("/domains")
		{
			domains.POST("", apiHandlers.Domains.AddDomain())
			domains.GET("", apiHandlers.Domains.ListDomains())
			domains.DELETE("/:id", apiHandlers.Domains.DeleteDomain())
			domains.POST("/check", apiHandlers.Domains.CheckDomains())
		}
	}
}
