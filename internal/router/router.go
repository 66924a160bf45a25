package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amanihq/amani-backend/internal/api"
	"github.com/amanihq/amani-backend/internal/middleware"
)

// SetupRouter configures the application routes. The chat limiter is
// optional; when nil (e.g. Redis unavailable in development) the chat
// endpoints run unthrottled.
func SetupRouter(
	consumptionHandler *api.ConsumptionHandler,
	drinksHandler *api.DrinksHandler,
	chatHandler *api.ChatHandler,
	adminHandler *api.AdminHandler,
	chatLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	consumptionHandler.RegisterRoutes(v1)
	drinksHandler.RegisterRoutes(v1)
	adminHandler.RegisterRoutes(v1)

	if chatHandler != nil {
		chat := v1.Group("")
		if chatLimiter != nil {
			chat.Use(chatLimiter.Middleware())
		}
		chatHandler.RegisterRoutes(chat)
	}

	return router
}
