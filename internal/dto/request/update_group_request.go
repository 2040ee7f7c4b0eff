package request

// UpdateGroupRequest 更新小组基础信息，未传的字段保持不变
type UpdateGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}
