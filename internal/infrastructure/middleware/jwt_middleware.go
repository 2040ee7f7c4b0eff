package middleware

import (
	"net/http"
	"strings"

	"flatshare_server/internal/dto/request"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// 上下文中保存调用者身份的 key
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth JWT 认证中间件
// 验证 Access Token 并将用户 ID、角色存入上下文
// WebSocket 握手无法携带自定义 Header，因此也接受 ?token= 查询参数
func JWTAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				abortUnauthorized(c, "Token 格式错误，请使用 Bearer Token")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			abortUnauthorized(c, "请先登录")
			return
		}

		claims, err := manager.ParseAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新登录")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CallerFrom 从上下文取出调用者身份，未认证时 ok 为 false
func CallerFrom(c *gin.Context) (request.Caller, bool) {
	userId := c.GetString(ContextUserID)
	if userId == "" {
		return request.Caller{}, false
	}
	return request.Caller{UserId: userId, Role: c.GetString(ContextRole)}, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
}
