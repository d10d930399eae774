package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront-backend/internal/shared/middleware"
	"storefront-backend/pkg/container"
)

const serviceName = "storefront-api"

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.PrometheusMetrics(serviceName),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupSessionRoutes(v1, c)
		setupAddressRoutes(v1, c)
	}

	return router
}

// ========================================
// SESSION ROUTES
// ========================================
func setupSessionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sessions := v1.Group("/session")
	{
		sessions.POST("", c.SessionHandler.Login)
		sessions.DELETE("", middleware.AuthMiddleware(c.SessionService), c.SessionHandler.Logout)
	}
}

// ========================================
// ADDRESS ROUTES
// ========================================
func setupAddressRoutes(v1 *gin.RouterGroup, c *container.Container) {
	addresses := v1.Group("/addresses")
	addresses.Use(middleware.AuthMiddleware(c.SessionService))
	{
		addresses.GET("", c.AddressHandler.ListAddresses)
		addresses.POST("", c.AddressHandler.CreateAddress)
		addresses.GET("/default", c.AddressHandler.GetDefaultAddress)
		addresses.PUT("/:id", c.AddressHandler.UpdateAddress)
		addresses.PUT("/:id/default", c.AddressHandler.SetDefaultAddress)
		addresses.DELETE("/:id", c.AddressHandler.DeleteAddress)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := appCtx.HealthCheck(c.Request.Context())

		status := "ok"
		statusCode := http.StatusOK
		if services["repository"] != "UP" {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else if services["cache"] != "UP" {
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"driver":    appCtx.Config.Store.Driver,
			"services":  services,
		})
	}
}
