package repository

import (
	"flatshare_server/internal/model"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知 Repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch 批量写入通知
func (r *notificationRepository) CreateBatch(notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := r.db.Create(&notifications).Error; err != nil {
		return WrapDBError(err, "批量写入通知")
	}
	return nil
}

// FindByUserId 按时间倒序查询通知
func (r *notificationRepository) FindByUserId(userId string, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := r.db.Where("user_id = ?", userId).
		Order("created_at DESC, uuid DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询通知 user_id=%s", userId)
	}
	return notifications, nil
}

// MarkRead 标记已读，只能操作自己的通知
func (r *notificationRepository) MarkRead(uuid int64, userId string) error {
	var notification model.Notification
	if err := r.db.Where("uuid = ? AND user_id = ?", uuid, userId).First(&notification).Error; err != nil {
		return WrapDBErrorf(err, "查询通知 uuid=%d", uuid)
	}
	if notification.IsRead {
		return nil
	}
	if err := r.db.Model(&model.Notification{}).Where("uuid = ?", uuid).Update("is_read", true).Error; err != nil {
		return WrapDBErrorf(err, "标记通知已读 uuid=%d", uuid)
	}
	return nil
}
