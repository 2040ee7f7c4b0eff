package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 私信和小组消息（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	rg.POST("/messages", rt.handlers.Message.SendDirectMessage)
	rg.GET("/messages", rt.handlers.Message.ListDirectMessages)
	rg.POST("/groups/:id/messages", rt.handlers.Message.SendGroupMessage)
	rg.GET("/groups/:id/messages", rt.handlers.Message.ListGroupMessages)
}
