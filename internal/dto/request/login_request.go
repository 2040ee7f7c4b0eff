package request

// LoginRequest 用户名或邮箱 + 密码登录
type LoginRequest struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
