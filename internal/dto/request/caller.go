package request

import "flatshare_server/pkg/constants"

// Caller 经过认证的调用者，由 JWT 中间件写入上下文
type Caller struct {
	UserId string
	Role   string
}

// IsAdmin 是否管理员
func (c Caller) IsAdmin() bool {
	return c.Role == constants.ROLE_ADMIN
}
