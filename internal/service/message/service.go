// Package message 私信与小组消息：写库、在线推送、列表缓存
package message

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	myredis "flatshare_server/internal/dao/redis"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/constants"
	"flatshare_server/pkg/enum/group_member/member_status_enum"
	"flatshare_server/pkg/enum/message/message_type_enum"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/snowflake"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	// 与小组视图缓存相同的延迟双删间隔
	listCacheSecondDeleteDelay = 500 * time.Millisecond
)

var (
	errRecipientNotFound = errorx.New(errorx.CodeNotFound, "接收者不存在")
	errGroupNotFound     = errorx.New(errorx.CodeNotFound, "小组不存在")
	errNotActiveMember   = errorx.New(errorx.CodeForbidden, "只有小组正式成员可以收发小组消息")
)

// Pusher 在线推送，websocket.Hub 实现该接口
type Pusher interface {
	PushToUser(userId string, payload []byte) bool
}

type messageService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	pusher Pusher
}

// NewMessageService 构造函数，pusher 为 nil 时只写库
func NewMessageService(repos *repository.Repositories, cache myredis.AsyncCacheService, pusher Pusher) *messageService {
	return &messageService{repos: repos, cache: cache, pusher: pusher}
}

func toRespond(m model.Message) respond.MessageRespond {
	return respond.MessageRespond{
		Uuid:        m.Uuid,
		Type:        message_type_enum.Name(m.Type),
		SendId:      m.SendId,
		SendName:    m.SendName,
		ReceiveId:   m.ReceiveId,
		ReceiveName: m.ReceiveName,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.Format(timeLayout),
	}
}

func directListKey(userId, peerId string) string {
	if peerId == "" {
		peerId = "all"
	}
	return constants.MESSAGE_LIST_KEY_PREFIX + userId + "_" + peerId
}

// senderName 发送者用户名，用户记录缺失时为空
func (s *messageService) senderName(repos *repository.Repositories, userId string) string {
	user, err := repos.User.FindByUuid(userId)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Warn("find sender error", zap.String("userId", userId), zap.Error(err))
		}
		return ""
	}
	return user.Username
}

// SendDirectMessage 发送私信，接收者不存在时返回 NotFound
func (s *messageService) SendDirectMessage(ctx context.Context, caller request.Caller, req request.SendDirectMessageRequest) (*respond.MessageRespond, error) {
	repos := s.repos.WithContext(ctx)
	recipient, err := repos.User.FindByUuid(req.RecipientId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errRecipientNotFound
		}
		zap.L().Error("find recipient error", zap.String("recipientId", req.RecipientId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	message := model.Message{
		Uuid:        snowflake.GenerateID(),
		Type:        message_type_enum.DIRECT,
		SendId:      caller.UserId,
		SendName:    s.senderName(repos, caller.UserId),
		ReceiveId:   recipient.Uuid,
		ReceiveName: recipient.Username,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}
	if err := repos.Message.Create(&message); err != nil {
		zap.L().Error("create direct message error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidatePattern(ctx, constants.MESSAGE_LIST_KEY_PREFIX+caller.UserId+"_*")
	if recipient.Uuid != caller.UserId {
		s.invalidatePattern(ctx, constants.MESSAGE_LIST_KEY_PREFIX+recipient.Uuid+"_*")
	}

	rsp := toRespond(message)
	if recipient.Uuid != caller.UserId {
		s.push(rsp, recipient.Uuid)
	}
	return &rsp, nil
}

// ListDirectMessages 调用者发出或收到的私信，按时间正序；peerId 非空时只看与该用户的往来
func (s *messageService) ListDirectMessages(ctx context.Context, caller request.Caller, peerId string) ([]respond.MessageRespond, error) {
	key := directListKey(caller.UserId, peerId)
	if cached, ok := s.cachedList(ctx, key); ok {
		return cached, nil
	}

	messages, err := s.repos.WithContext(ctx).Message.FindDirectByUser(caller.UserId, peerId)
	if err != nil {
		zap.L().Error("find direct messages error", zap.String("userId", caller.UserId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for _, m := range messages {
		rsp = append(rsp, toRespond(m))
	}
	s.storeList(ctx, key, rsp)
	return rsp, nil
}

// activeGroup 校验小组存在且调用者是正式成员，返回小组和正式成员列表
func (s *messageService) activeGroup(repos *repository.Repositories, groupId, userId string) (*model.GroupInfo, []model.GroupMember, error) {
	group, err := repos.Group.FindByUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil, errGroupNotFound
		}
		zap.L().Error("find group error", zap.String("groupId", groupId), zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	members, err := repos.GroupMember.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error("find group members error", zap.String("groupId", groupId), zap.Error(err))
		return nil, nil, errorx.ErrServerBusy
	}
	active := make([]model.GroupMember, 0, len(members))
	isActive := false
	for _, m := range members {
		if m.Status != member_status_enum.ACTIVE {
			continue
		}
		active = append(active, m)
		if m.UserUuid == userId {
			isActive = true
		}
	}
	if !isActive {
		return nil, nil, errNotActiveMember
	}
	return group, active, nil
}

// SendGroupMessage 发送小组消息，只有正式成员可以发送，推送给其他正式成员
func (s *messageService) SendGroupMessage(ctx context.Context, caller request.Caller, groupId string, req request.SendGroupMessageRequest) (*respond.MessageRespond, error) {
	repos := s.repos.WithContext(ctx)
	group, active, err := s.activeGroup(repos, groupId, caller.UserId)
	if err != nil {
		return nil, err
	}

	message := model.Message{
		Uuid:        snowflake.GenerateID(),
		Type:        message_type_enum.GROUP,
		SendId:      caller.UserId,
		SendName:    s.senderName(repos, caller.UserId),
		ReceiveId:   group.Uuid,
		ReceiveName: group.Name,
		Content:     req.Content,
		CreatedAt:   time.Now(),
	}
	if err := repos.Message.Create(&message); err != nil {
		zap.L().Error("create group message error", zap.String("groupId", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	s.invalidateKey(ctx, constants.GROUP_MESSAGE_LIST_KEY_PREFIX+groupId)

	rsp := toRespond(message)
	targets := make([]string, 0, len(active))
	for _, m := range active {
		if m.UserUuid != caller.UserId {
			targets = append(targets, m.UserUuid)
		}
	}
	s.push(rsp, targets...)
	return &rsp, nil
}

// ListGroupMessages 小组消息，按时间正序，只对正式成员可见
func (s *messageService) ListGroupMessages(ctx context.Context, caller request.Caller, groupId string) ([]respond.MessageRespond, error) {
	repos := s.repos.WithContext(ctx)
	if _, _, err := s.activeGroup(repos, groupId, caller.UserId); err != nil {
		return nil, err
	}

	key := constants.GROUP_MESSAGE_LIST_KEY_PREFIX + groupId
	if cached, ok := s.cachedList(ctx, key); ok {
		return cached, nil
	}
	messages, err := repos.Message.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error("find group messages error", zap.String("groupId", groupId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for _, m := range messages {
		rsp = append(rsp, toRespond(m))
	}
	s.storeList(ctx, key, rsp)
	return rsp, nil
}

// ==================== 缓存 ====================

// cachedList 读取列表缓存，未命中或缓存异常时返回 false 走数据库
func (s *messageService) cachedList(ctx context.Context, key string) ([]respond.MessageRespond, bool) {
	cached, err := s.cache.GetOrError(ctx, key)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Warn("get message list cache error", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var rsp []respond.MessageRespond
	if err := json.Unmarshal([]byte(cached), &rsp); err != nil {
		zap.L().Warn("unmarshal message list cache error", zap.String("key", key))
		return nil, false
	}
	return rsp, true
}

// storeList 同步回写，保证延迟删除一定发生在回写之后
func (s *messageService) storeList(ctx context.Context, key string, rsp []respond.MessageRespond) {
	data, err := json.Marshal(rsp)
	if err != nil {
		zap.L().Error("marshal message list error", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data), constants.MESSAGE_LIST_CACHE_TTL); err != nil {
		zap.L().Error("set message list cache error", zap.String("key", key), zap.Error(err))
	}
}

func (s *messageService) invalidateKey(ctx context.Context, key string) {
	s.invalidate(ctx, func(ctx context.Context) error { return s.cache.Delete(ctx, key) }, key)
}

func (s *messageService) invalidatePattern(ctx context.Context, pattern string) {
	s.invalidate(ctx, func(ctx context.Context) error { return s.cache.DeleteByPattern(ctx, pattern) }, pattern)
}

// invalidate 延迟双删
func (s *messageService) invalidate(ctx context.Context, del func(context.Context) error, key string) {
	if err := del(ctx); err != nil {
		zap.L().Error("delete message list cache error", zap.String("key", key), zap.Error(err))
	}
	time.AfterFunc(listCacheSecondDeleteDelay, func() {
		s.cache.SubmitTask(func() {
			if err := del(context.Background()); err != nil {
				zap.L().Error("delayed delete message list cache error", zap.String("key", key), zap.Error(err))
			}
		})
	})
}

func (s *messageService) push(rsp respond.MessageRespond, targets ...string) {
	if s.pusher == nil || len(targets) == 0 {
		return
	}
	payload, err := json.Marshal(rsp)
	if err != nil {
		zap.L().Error("marshal message error", zap.Error(err))
		return
	}
	for _, userId := range targets {
		if !s.pusher.PushToUser(userId, payload) {
			zap.L().Debug("user offline, message stored only", zap.String("userId", userId))
		}
	}
}
