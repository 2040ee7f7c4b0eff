// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"flatshare_server/internal/handler"
	"flatshare_server/internal/infrastructure/middleware"
	"flatshare_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合和认证中间件
type Router struct {
	handlers *handler.Handlers
	auth     gin.HandlerFunc
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers, tokens *jwt.Manager) *Router {
	return &Router{
		handlers: handlers,
		auth:     middleware.JWTAuth(tokens),
	}
}

// RegisterRoutes 注册所有路由
// public 无需登录，private 挂载 JWTAuth
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", handler.Health)

	public := r.Group("")
	private := r.Group("", rt.auth)

	rt.RegisterAuthRoutes(public)
	rt.RegisterUserRoutes(public, private)
	rt.RegisterListingRoutes(public, private)
	rt.RegisterGroupRoutes(public, private)
	rt.RegisterNotificationRoutes(private)
	rt.RegisterMessageRoutes(private)
	rt.RegisterWebSocketRoutes(private)
}
