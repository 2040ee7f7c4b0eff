// Package model 定义数据库实体模型
// 本文件定义消息模型，存储私信和小组消息
package model

import "time"

// Message 消息模型
// 对应数据库 message 表
type Message struct {
	// Uuid 雪花 ID，同一毫秒内也保持递增，列表按 (created_at, uuid) 排序
	Uuid int64 `gorm:"column:uuid;primaryKey;autoIncrement:false;comment:消息雪花ID"`

	// Type 0=私信, 1=小组消息，参见 pkg/enum/message/message_type_enum
	Type int8 `gorm:"column:type;not null;comment:消息类型，0.私信，1.小组"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// SendName 发送者用户名，冗余存储，避免每次查询消息时都要关联用户表
	SendName string `gorm:"column:send_name;type:varchar(50);not null;default:'';comment:发送者用户名"`

	// ReceiveId 私信时为用户 UUID（U开头），小组消息时为小组 UUID（G开头）
	ReceiveId string `gorm:"column:receive_id;index;type:char(20);not null;comment:接收者uuid"`

	// ReceiveName 私信接收者用户名，小组消息为小组名称
	ReceiveName string `gorm:"column:receive_name;type:varchar(50);not null;default:'';comment:接收者名称"`

	Content   string    `gorm:"column:content;type:TEXT;comment:消息内容"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
