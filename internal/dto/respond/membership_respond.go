package respond

// MembershipRespond 成员关系变化后的结果
type MembershipRespond struct {
	GroupId string `json:"group_id"`
	UserId  string `json:"user_id"`
	Status  string `json:"status"`
}
