// Package router 提供 HTTP 路由注册
// 本文件定义合租小组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册小组相关路由
// 查询无需登录，所有写操作需要认证
func (rt *Router) RegisterGroupRoutes(public, private *gin.RouterGroup) {
	public.GET("/groups", rt.handlers.Group.ListAllGroups)
	public.GET("/groups/:id", rt.handlers.Group.GetGroup)

	groups := private.Group("/groups")
	{
		// ===== 小组基本操作 =====
		groups.POST("", rt.handlers.Group.CreateGroup)
		groups.PUT("/:id", rt.handlers.Group.UpdateGroup)
		groups.DELETE("/:id", rt.handlers.Group.DismissGroup)

		// ===== 成员状态 =====
		groups.POST("/:id/join-request", rt.handlers.Group.RequestJoin)
		groups.POST("/:id/approve-member", rt.handlers.Group.ApproveMember)
		groups.POST("/:id/reject-member", rt.handlers.Group.RejectMember)
		groups.DELETE("/:id/remove-member", rt.handlers.Group.RemoveMember)
		groups.POST("/:id/leave", rt.handlers.Group.LeaveGroup)

		// ===== 偏好与签约 =====
		groups.PATCH("/:id/preferences", rt.handlers.Group.SetPreferences)
		groups.POST("/:id/ready-to-sign", rt.handlers.Group.MarkReadyToSign)
		groups.POST("/:id/forfeit-sign", rt.handlers.Group.ForfeitReadyToSign)
	}
}
