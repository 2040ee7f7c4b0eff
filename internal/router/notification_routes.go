package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes 站内通知（需要认证）
func (rt *Router) RegisterNotificationRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", rt.handlers.Notification.ListNotifications)
	rg.POST("/notifications/:id/read", rt.handlers.Notification.MarkRead)
}
