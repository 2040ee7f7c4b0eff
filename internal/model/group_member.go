package model

import "time"

// GroupMember 小组成员关联表
// 拒绝/移除/退出时物理删除，(group_uuid, user_uuid) 唯一
type GroupMember struct {
	ID        uint      `gorm:"primarykey"`
	GroupUuid string    `gorm:"column:group_uuid;type:char(20);not null;uniqueIndex:idx_group_user,priority:1;comment:小组ID"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(20);not null;uniqueIndex:idx_group_user,priority:2;index;comment:用户ID"`
	Status    int8      `gorm:"column:status;not null;default:0;comment:0待审核 1正式成员"`
	Role      int8      `gorm:"column:role;not null;default:1;comment:1普通成员 3组长"`
	CreatedAt time.Time `gorm:"column:created_at;comment:加入时间"`
	UpdatedAt time.Time
}

func (GroupMember) TableName() string {
	return "group_member"
}
