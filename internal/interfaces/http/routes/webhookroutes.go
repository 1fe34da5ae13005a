package routes

import (
	"github.com/gin-gonic/gin"

	"agencydesk/internal/interfaces/http/handlers"
)

// RegisterWebhookRoutes wires the billing webhook endpoint. POST only; other
// methods get 405 from the router's method-not-allowed handling.
func RegisterWebhookRoutes(router *gin.Engine, handler *handlers.WebhookHandler) {
	router.POST("/webhooks/stripe", handler.Handle)
}

func RegisterHealthRoutes(router *gin.Engine, handler *handlers.HealthHandler) {
	router.GET("/healthz", handler.Check)
}
