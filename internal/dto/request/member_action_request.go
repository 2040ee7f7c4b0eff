package request

// MemberActionRequest 组长审批/拒绝/移除成员
type MemberActionRequest struct {
	UserId string `json:"user_id" form:"user_id" binding:"required"`
}
