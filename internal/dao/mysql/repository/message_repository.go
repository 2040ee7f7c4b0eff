package repository

import (
	"flatshare_server/internal/model"
	"flatshare_server/pkg/enum/message/message_type_enum"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 写入消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return WrapDBErrorf(err, "写入消息 uuid=%d", message.Uuid)
	}
	return nil
}

// FindDirectByUser 查询用户发出或收到的私信，按时间正序
// peerId 非空时只返回与该用户之间的私信
func (r *messageRepository) FindDirectByUser(userId, peerId string) ([]model.Message, error) {
	var messages []model.Message
	query := r.db.Where("type = ?", message_type_enum.DIRECT)
	if peerId == "" {
		query = query.Where("send_id = ? OR receive_id = ?", userId, userId)
	} else {
		query = query.Where("(send_id = ? AND receive_id = ?) OR (send_id = ? AND receive_id = ?)",
			userId, peerId, peerId, userId)
	}
	if err := query.Order("created_at ASC, uuid ASC").Find(&messages).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询私信 user_id=%s", userId)
	}
	return messages, nil
}

// FindByGroupUuid 查询小组消息，按时间正序
func (r *messageRepository) FindByGroupUuid(groupUuid string) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("type = ? AND receive_id = ?", message_type_enum.GROUP, groupUuid).
		Order("created_at ASC, uuid ASC").
		Find(&messages).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询小组消息 group_uuid=%s", groupUuid)
	}
	return messages, nil
}
