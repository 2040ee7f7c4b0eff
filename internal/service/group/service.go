// Package group 合租小组业务：成员状态机、偏好协商、小组视图
package group

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	myredis "flatshare_server/internal/dao/redis"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/constants"
	"flatshare_server/pkg/errorx"
)

// 延迟双删的间隔，覆盖"读旧数据后回写缓存"的窗口
const viewCacheSecondDeleteDelay = 500 * time.Millisecond

var (
	errGroupNotFound     = errorx.New(errorx.CodeNotFound, "小组不存在")
	errListingNotFound   = errorx.New(errorx.CodeNotFound, "房源不存在")
	errNoGroupForListing = errorx.New(errorx.CodeNotFound, "该房源下暂无小组")
	errPendingNotFound   = errorx.New(errorx.CodeNotFound, "没有待审核的入组申请")
	errActiveNotFound    = errorx.New(errorx.CodeNotFound, "该用户不是小组正式成员")
	errMemberNotFound    = errorx.New(errorx.CodeNotFound, "你不在该小组中")
	errOwnerCannotJoin   = errorx.New(errorx.CodeInvalidOperation, "组长不能申请加入自己的小组")
	errOwnerCannotLeave  = errorx.New(errorx.CodeInvalidOperation, "组长不能退出小组，请解散小组")
	errCannotRemoveOwner = errorx.New(errorx.CodeInvalidOperation, "不能移除组长")
	errAlreadyMember     = errorx.New(errorx.CodeConflict, "已申请或已是小组成员")
	errNotActiveMember   = errorx.New(errorx.CodeForbidden, "只有正式成员可以确认签约")
	errNotMember         = errorx.New(errorx.CodeForbidden, "你不是该小组成员")
)

// groupService 小组业务逻辑实现
// 通过构造函数注入 Repository、Cache 和事件发布依赖
type groupService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	events mq.EventPublisher
}

// NewGroupService 构造函数，注入所有依赖
func NewGroupService(repos *repository.Repositories, cacheService myredis.AsyncCacheService, events mq.EventPublisher) *groupService {
	return &groupService{
		repos:  repos,
		cache:  cacheService,
		events: events,
	}
}

// canManage 管理员或组长
func canManage(caller request.Caller, group *model.GroupInfo) bool {
	return caller.IsAdmin() || caller.UserId == group.OwnerId
}

// internalError 记录基础设施错误，对外只返回服务繁忙
func internalError(msg string, err error, fields ...zap.Field) error {
	zap.L().Error(msg, append(fields, zap.Error(err))...)
	return errorx.ErrServerBusy
}

// findGroup 查询小组，不存在时返回 errGroupNotFound
func findGroup(find func(string) (*model.GroupInfo, error), groupId string) (*model.GroupInfo, error) {
	group, err := find(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errGroupNotFound
		}
		return nil, internalError("find group error", err, zap.String("groupId", groupId))
	}
	return group, nil
}

// findMember 查询成员关系，不存在时返回 (nil, nil)
func findMember(repos *repository.Repositories, groupId, userId string) (*model.GroupMember, error) {
	member, err := repos.GroupMember.FindByGroupAndUser(groupId, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil
		}
		return nil, internalError("find group member error", err,
			zap.String("groupId", groupId), zap.String("userId", userId))
	}
	return member, nil
}

// pruneReady 成员离开后将其移出签约集合，必须在持有小组行锁的事务内调用
func pruneReady(repos *repository.Repositories, group *model.GroupInfo, userId string) error {
	if !group.LifestylePreference.IsReady(userId) {
		return nil
	}
	pref := group.LifestylePreference.WithDefaults()
	pref.ForfeitReady(userId)
	if err := repos.Group.UpdatePreference(group.Uuid, &pref); err != nil {
		return internalError("prune ready_to_sign error", err, zap.String("groupId", group.Uuid))
	}
	group.LifestylePreference = &pref
	return nil
}

// invalidate 同步删除小组视图缓存，并延迟再删一次
func (g *groupService) invalidate(ctx context.Context, groupId string) {
	key := constants.GROUP_VIEW_KEY_PREFIX + groupId
	if err := g.cache.Delete(ctx, key); err != nil {
		zap.L().Error("delete group view cache error", zap.String("key", key), zap.Error(err))
	}
	time.AfterFunc(viewCacheSecondDeleteDelay, func() {
		g.cache.SubmitTask(func() {
			if err := g.cache.Delete(context.Background(), key); err != nil {
				zap.L().Error("delayed delete group view cache error", zap.String("key", key), zap.Error(err))
			}
		})
	})
}

// publish 发布事件，失败只记录日志，不影响已提交的业务
func (g *groupService) publish(ctx context.Context, eventType string, group *model.GroupInfo, actorId string, targets ...string) {
	if g.events == nil || len(targets) == 0 {
		return
	}
	event := mq.GroupEvent{
		Type:       eventType,
		GroupId:    group.Uuid,
		GroupName:  group.Name,
		ActorId:    actorId,
		TargetIds:  targets,
		OccurredAt: time.Now(),
	}
	if err := g.events.Publish(ctx, event); err != nil {
		zap.L().Error("publish group event error",
			zap.String("type", eventType),
			zap.String("groupId", group.Uuid),
			zap.Error(err))
	}
}

// excluding 去掉 userId 后的列表
func excluding(ids []string, userId string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != userId {
			out = append(out, id)
		}
	}
	return out
}
