package respond

// QuietHoursRespond 安静时段
type QuietHoursRespond struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LifestylePreferenceRespond 补齐默认值后的偏好文档
type LifestylePreferenceRespond struct {
	RentDivision map[string]float64 `json:"rent_division"`
	QuietHours   QuietHoursRespond  `json:"quiet_hours"`
	ReadyToSign  []string           `json:"ready_to_sign"`
}

// GroupMemberRespond 成员视图，用户记录缺失时展示字段为 null
type GroupMemberRespond struct {
	UserId   string  `json:"user_id"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Status   string  `json:"status"`
	IsOwner  bool    `json:"is_owner"`
	JoinedAt string  `json:"joined_at"`
}

// GroupViewRespond 对外的小组视图
type GroupViewRespond struct {
	GroupId             string                     `json:"group_id"`
	Name                string                     `json:"name"`
	Description         string                     `json:"description"`
	ListingId           string                     `json:"listing_id"`
	OwnerId             string                     `json:"owner_id"`
	MemberCount         int                        `json:"member_count"`
	Members             []GroupMemberRespond       `json:"members"`
	LifestylePreference LifestylePreferenceRespond `json:"lifestyle_preference"`
	AllReadyToSign      bool                       `json:"all_ready_to_sign"`
	CreatedAt           string                     `json:"created_at"`
}
