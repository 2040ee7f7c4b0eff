package respond

// NotificationRespond 站内通知，uuid 为雪花 ID，以字符串返回避免前端精度丢失
type NotificationRespond struct {
	Uuid      int64  `json:"uuid,string"`
	Type      string `json:"type"`
	GroupId   string `json:"group_id"`
	ActorId   string `json:"actor_id"`
	Content   string `json:"content"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}
