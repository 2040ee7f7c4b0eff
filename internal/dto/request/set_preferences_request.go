package request

// QuietHoursRequest 安静时段
type QuietHoursRequest struct {
	Start string `json:"start" binding:"required,hhmm"`
	End   string `json:"end" binding:"required,hhmm"`
}

// PreferenceDocument 生活习惯文档，ready_to_sign 只能通过签约接口修改，这里传入会被忽略
type PreferenceDocument struct {
	RentDivision map[string]float64 `json:"rent_division" binding:"omitempty,dive,keys,required,endkeys,gte=0,lte=100"`
	QuietHours   *QuietHoursRequest `json:"quiet_hours"`
	ReadyToSign  []string           `json:"ready_to_sign"`
}

// SetPreferencesRequest 组长整体替换偏好
type SetPreferencesRequest struct {
	LifestylePreference *PreferenceDocument `json:"lifestyle_preference" binding:"required"`
}
