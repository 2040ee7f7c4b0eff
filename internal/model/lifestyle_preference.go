package model

import (
	"regexp"

	"flatshare_server/pkg/constants"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// QuietHours 安静时段，HH:MM
type QuietHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LifestylePreference 小组共享的生活习惯文档
// 各字段更新策略：
//   - RentDivision、QuietHours 由组长整体替换
//   - ReadyToSign 只通过 MarkReady / ForfeitReady 增删，是一个保持插入顺序的集合
type LifestylePreference struct {
	RentDivision map[string]float64 `json:"rent_division"`
	QuietHours   *QuietHours        `json:"quiet_hours"`
	ReadyToSign  []string           `json:"ready_to_sign"`
}

// DefaultLifestylePreference 新建小组时的默认偏好
func DefaultLifestylePreference() *LifestylePreference {
	return &LifestylePreference{
		RentDivision: map[string]float64{},
		QuietHours: &QuietHours{
			Start: constants.DEFAULT_QUIET_HOURS_START,
			End:   constants.DEFAULT_QUIET_HOURS_END,
		},
		ReadyToSign: []string{},
	}
}

// WithDefaults 返回补齐缺省字段后的深拷贝，p 为 nil 时返回默认文档
func (p *LifestylePreference) WithDefaults() LifestylePreference {
	out := *DefaultLifestylePreference()
	if p == nil {
		return out
	}
	for k, v := range p.RentDivision {
		out.RentDivision[k] = v
	}
	if p.QuietHours != nil {
		qh := *p.QuietHours
		if qh.Start == "" {
			qh.Start = constants.DEFAULT_QUIET_HOURS_START
		}
		if qh.End == "" {
			qh.End = constants.DEFAULT_QUIET_HOURS_END
		}
		out.QuietHours = &qh
	}
	out.ReadyToSign = append(out.ReadyToSign, p.ReadyToSign...)
	return out
}

// ApplySettings 用 next 替换租金分配和安静时段，ReadyToSign 保持不变
func (p *LifestylePreference) ApplySettings(next LifestylePreference) {
	p.RentDivision = map[string]float64{}
	for k, v := range next.RentDivision {
		p.RentDivision[k] = v
	}
	if next.QuietHours != nil {
		qh := *next.QuietHours
		p.QuietHours = &qh
	} else {
		p.QuietHours = &QuietHours{
			Start: constants.DEFAULT_QUIET_HOURS_START,
			End:   constants.DEFAULT_QUIET_HOURS_END,
		}
	}
}

// IsReady 判断用户是否已确认签约
func (p *LifestylePreference) IsReady(userId string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.ReadyToSign {
		if id == userId {
			return true
		}
	}
	return false
}

// MarkReady 幂等加入签约集合，返回集合是否发生变化
func (p *LifestylePreference) MarkReady(userId string) bool {
	if p.IsReady(userId) {
		return false
	}
	p.ReadyToSign = append(p.ReadyToSign, userId)
	return true
}

// ForfeitReady 幂等移出签约集合，返回集合是否发生变化
func (p *LifestylePreference) ForfeitReady(userId string) bool {
	if p == nil {
		return false
	}
	kept := make([]string, 0, len(p.ReadyToSign))
	for _, id := range p.ReadyToSign {
		if id != userId {
			kept = append(kept, id)
		}
	}
	changed := len(kept) != len(p.ReadyToSign)
	p.ReadyToSign = kept
	return changed
}

// RentTotal 租金分配比例之和
func (p *LifestylePreference) RentTotal() float64 {
	var total float64
	if p == nil {
		return total
	}
	for _, share := range p.RentDivision {
		total += share
	}
	return total
}

// IsClock 校验 HH:MM（24小时制）
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}
