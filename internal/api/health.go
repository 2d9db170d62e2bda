package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/naseer2426/county-bot/internal/telegram"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"name":   telegram.DefaultUserAgent,
	})
}
