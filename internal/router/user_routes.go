package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 用户资料
func (rt *Router) RegisterUserRoutes(public, private *gin.RouterGroup) {
	private.GET("/users/me/groups", rt.handlers.Group.ListMyGroups) // 我参与的小组
	public.GET("/users/:id", rt.handlers.User.GetUserInfo)
}
