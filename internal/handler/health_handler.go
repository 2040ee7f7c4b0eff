package handler

import (
	"github.com/gin-gonic/gin"
)

// Health GET /health
func Health(c *gin.Context) {
	HandleSuccess(c, gin.H{"status": "ok"})
}
