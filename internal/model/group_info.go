package model

import (
	"gorm.io/gorm"
)

// GroupInfo 合租小组，围绕一个房源组建
// 解散时软删除
type GroupInfo struct {
	gorm.Model
	Uuid        string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:小组唯一id"`
	Name        string `gorm:"column:name;type:varchar(50);not null;comment:小组名称"`
	Description string `gorm:"column:description;type:varchar(500);comment:小组描述"`
	ListingId   string `gorm:"column:listing_id;type:char(20);index;not null;comment:房源uuid，创建后不可变"`
	OwnerId     string `gorm:"column:owner_id;type:char(20);index;not null;comment:组长uuid"`
	MemberCnt   int    `gorm:"column:member_cnt;default:1;comment:正式成员数（含组长）"`

	// LifestylePreference 以 JSON 存储，列为 NULL 时反序列化为 nil
	LifestylePreference *LifestylePreference `gorm:"column:lifestyle_preference;type:json;serializer:json;comment:生活习惯偏好"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
