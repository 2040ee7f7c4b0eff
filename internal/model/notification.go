package model

import "time"

// Notification 站内通知，由小组事件生成
type Notification struct {
	Uuid      int64     `gorm:"column:uuid;primaryKey;autoIncrement:false;comment:雪花ID"`
	UserId    string    `gorm:"column:user_id;type:char(20);index:idx_user_created,priority:1;not null;comment:接收者"`
	Type      string    `gorm:"column:type;type:varchar(32);not null;comment:事件类型"`
	GroupId   string    `gorm:"column:group_id;type:char(20);comment:关联小组"`
	ActorId   string    `gorm:"column:actor_id;type:char(20);comment:触发者"`
	Content   string    `gorm:"column:content;type:varchar(255);comment:内容"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false;comment:是否已读"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_user_created,priority:2"`
}

func (Notification) TableName() string {
	return "notification"
}
