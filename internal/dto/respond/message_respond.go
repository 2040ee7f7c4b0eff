package respond

// MessageRespond 私信/小组消息，推送和列表共用
type MessageRespond struct {
	Uuid        int64  `json:"uuid,string"`
	Type        string `json:"type"` // direct 或 group
	SendId      string `json:"send_id"`
	SendName    string `json:"send_name"`
	ReceiveId   string `json:"receive_id"`
	ReceiveName string `json:"receive_name"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}
