package request

// CreateGroupRequest 创建小组请求
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
	ListingId   string `json:"listing_id" binding:"required"`
}
