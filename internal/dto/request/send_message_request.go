package request

// SendDirectMessageRequest 发送私信
type SendDirectMessageRequest struct {
	RecipientId string `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required,max=2000"`
}

// SendGroupMessageRequest 发送小组消息，小组 ID 取自路径
type SendGroupMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
