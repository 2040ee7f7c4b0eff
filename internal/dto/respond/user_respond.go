package respond

// UserInfoRespond 用户公开资料
type UserInfoRespond struct {
	Uuid      string `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginRespond 登录结果
type LoginRespond struct {
	User         UserInfoRespond `json:"user"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
}

// RefreshTokenRespond 刷新结果
type RefreshTokenRespond struct {
	AccessToken string `json:"access_token"`
}
