package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册、登录、刷新 Token（无需认证）
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", rt.handlers.User.Register)
	rg.POST("/login", rt.handlers.User.Login)
	rg.POST("/auth/refresh", rt.handlers.Auth.RefreshToken)
}
