package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts the health check on "/" and the webhook on webhookPath.
func NewRouter(webhookPath string, webhook *TelegramWebhook) *gin.Engine {
	router := gin.Default()

	router.Use(requestid.New())
	// Allow CORS for all origins
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Accept", SecretTokenHeader},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	router.GET("/", HealthCheck)
	router.POST(webhookPath, webhook.TelegramWebhook)

	return router
}
