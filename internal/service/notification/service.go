// Package notification 将小组事件转成站内通知，写库后推送给在线用户
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/constants"
	"flatshare_server/pkg/enum/event/event_type_enum"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/snowflake"
)

const timeLayout = "2006-01-02 15:04:05"

var errNotificationNotFound = errorx.New(errorx.CodeNotFound, "通知不存在")

// Pusher 在线推送，websocket.Hub 实现该接口
type Pusher interface {
	PushToUser(userId string, payload []byte) bool
}

type notificationService struct {
	repos  *repository.Repositories
	pusher Pusher
}

// NewNotificationService 构造函数，pusher 为 nil 时只写库
func NewNotificationService(repos *repository.Repositories, pusher Pusher) *notificationService {
	return &notificationService{repos: repos, pusher: pusher}
}

// content 生成通知文案
func content(event mq.GroupEvent) string {
	switch event.Type {
	case event_type_enum.JOIN_REQUESTED:
		return fmt.Sprintf("有人申请加入小组「%s」", event.GroupName)
	case event_type_enum.MEMBER_APPROVED:
		return fmt.Sprintf("你已加入小组「%s」", event.GroupName)
	case event_type_enum.MEMBER_REJECTED:
		return fmt.Sprintf("你加入小组「%s」的申请未通过", event.GroupName)
	case event_type_enum.MEMBER_REMOVED:
		return fmt.Sprintf("你已被移出小组「%s」", event.GroupName)
	case event_type_enum.MEMBER_LEFT:
		return fmt.Sprintf("有成员退出了小组「%s」", event.GroupName)
	case event_type_enum.PREFERENCES_UPDATED:
		return fmt.Sprintf("小组「%s」的合租约定已更新", event.GroupName)
	case event_type_enum.READY_TO_SIGN:
		return fmt.Sprintf("小组「%s」有成员确认可以签约", event.GroupName)
	case event_type_enum.ALL_READY:
		return fmt.Sprintf("小组「%s」全员确认，可以签约了", event.GroupName)
	case event_type_enum.GROUP_DISMISSED:
		return fmt.Sprintf("小组「%s」已解散", event.GroupName)
	default:
		return fmt.Sprintf("小组「%s」有新动态", event.GroupName)
	}
}

func toRespond(n model.Notification) respond.NotificationRespond {
	return respond.NotificationRespond{
		Uuid:      n.Uuid,
		Type:      n.Type,
		GroupId:   n.GroupId,
		ActorId:   n.ActorId,
		Content:   n.Content,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}

// HandleEvent 为每个接收者生成一条通知，批量写库后推送在线用户
// 写库失败返回错误，由消费者记录；推送失败只影响实时性
func (s *notificationService) HandleEvent(ctx context.Context, event mq.GroupEvent) error {
	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	text := content(event)

	seen := make(map[string]struct{}, len(event.TargetIds))
	notifications := make([]model.Notification, 0, len(event.TargetIds))
	for _, target := range event.TargetIds {
		if _, dup := seen[target]; dup || target == "" {
			continue
		}
		seen[target] = struct{}{}
		notifications = append(notifications, model.Notification{
			Uuid:      snowflake.GenerateID(),
			UserId:    target,
			Type:      event.Type,
			GroupId:   event.GroupId,
			ActorId:   event.ActorId,
			Content:   text,
			CreatedAt: createdAt,
		})
	}
	if len(notifications) == 0 {
		return nil
	}

	if err := s.repos.WithContext(ctx).Notification.CreateBatch(notifications); err != nil {
		return errorx.Wrapf(err, errorx.CodeDBError, "save notifications for %s", event.Type)
	}

	if s.pusher == nil {
		return nil
	}
	for _, n := range notifications {
		payload, err := json.Marshal(toRespond(n))
		if err != nil {
			zap.L().Error("marshal notification error", zap.Error(err))
			continue
		}
		if !s.pusher.PushToUser(n.UserId, payload) {
			zap.L().Debug("user offline, notification stored only", zap.String("userId", n.UserId))
		}
	}
	return nil
}

// ListNotifications 最近的通知，按时间倒序
func (s *notificationService) ListNotifications(ctx context.Context, caller request.Caller) ([]respond.NotificationRespond, error) {
	list, err := s.repos.WithContext(ctx).Notification.FindByUserId(caller.UserId, constants.NOTIFICATION_PAGE_SIZE)
	if err != nil {
		zap.L().Error("find notifications error", zap.String("userId", caller.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.NotificationRespond, 0, len(list))
	for _, n := range list {
		rsp = append(rsp, toRespond(n))
	}
	return rsp, nil
}

// MarkRead 标记已读，他人的通知视为不存在
func (s *notificationService) MarkRead(ctx context.Context, caller request.Caller, uuid int64) error {
	if err := s.repos.WithContext(ctx).Notification.MarkRead(uuid, caller.UserId); err != nil {
		if errorx.IsNotFound(err) {
			return errNotificationNotFound
		}
		zap.L().Error("mark notification read error", zap.Int64("uuid", uuid), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}
