package group

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/constants"
)

// GetGroup 获取小组视图（Cache-Aside）
func (g *groupService) GetGroup(ctx context.Context, groupId string) (*respond.GroupViewRespond, error) {
	key := constants.GROUP_VIEW_KEY_PREFIX + groupId
	cached, err := g.cache.Get(ctx, key)
	if err != nil {
		// 缓存异常降级查库
		zap.L().Warn("get group view cache error", zap.String("key", key), zap.Error(err))
	} else if cached != "" {
		var view respond.GroupViewRespond
		if err := json.Unmarshal([]byte(cached), &view); err == nil {
			return &view, nil
		}
		zap.L().Warn("unmarshal group view cache error", zap.String("key", key))
	}

	view, err := g.loadGroupView(ctx, groupId)
	if err != nil {
		return nil, err
	}

	// 同步回写，保证变更方的延迟删除发生在回写之后
	if data, err := json.Marshal(view); err == nil {
		if err := g.cache.Set(ctx, key, string(data), constants.GROUP_VIEW_CACHE_TTL); err != nil {
			zap.L().Error("set group view cache error", zap.String("key", key), zap.Error(err))
		}
	}
	return view, nil
}

// loadGroupView 直接查库组装视图
func (g *groupService) loadGroupView(ctx context.Context, groupId string) (*respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)
	group, err := findGroup(repos.Group.FindByUuid, groupId)
	if err != nil {
		return nil, err
	}
	members, err := repos.GroupMember.FindMembersWithUserInfo(groupId)
	if err != nil {
		return nil, internalError("find group members error", err, zap.String("groupId", groupId))
	}
	view := assembleGroupView(group, members)
	return &view, nil
}

// ListAllGroups 获取全部未解散小组
func (g *groupService) ListAllGroups(ctx context.Context) ([]respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)
	groups, err := repos.Group.FindAll()
	if err != nil {
		return nil, internalError("find all groups error", err)
	}
	return assembleGroupViews(repos, groups)
}

// ListGroupsForListing 获取房源下的小组，一个都没有时返回 NotFound
func (g *groupService) ListGroupsForListing(ctx context.Context, listingId string) ([]respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)
	groups, err := repos.Group.FindByListingId(listingId)
	if err != nil {
		return nil, internalError("find groups by listing error", err, zap.String("listingId", listingId))
	}
	if len(groups) == 0 {
		return nil, errNoGroupForListing
	}
	return assembleGroupViews(repos, groups)
}

// ListMyGroups 获取调用者参与的小组（含申请中）
func (g *groupService) ListMyGroups(ctx context.Context, caller request.Caller) ([]respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)
	memberships, err := repos.GroupMember.FindByUserUuid(caller.UserId)
	if err != nil {
		return nil, internalError("find memberships error", err, zap.String("userId", caller.UserId))
	}
	if len(memberships) == 0 {
		return []respond.GroupViewRespond{}, nil
	}
	groupIds := make([]string, 0, len(memberships))
	for _, m := range memberships {
		groupIds = append(groupIds, m.GroupUuid)
	}
	groups, err := repos.Group.FindByUuids(groupIds)
	if err != nil {
		return nil, internalError("find groups by uuids error", err)
	}
	return assembleGroupViews(repos, groups)
}

// assembleGroupViews 批量查询成员后组装，避免 N+1
func assembleGroupViews(repos *repository.Repositories, groups []model.GroupInfo) ([]respond.GroupViewRespond, error) {
	views := make([]respond.GroupViewRespond, 0, len(groups))
	if len(groups) == 0 {
		return views, nil
	}
	groupIds := make([]string, 0, len(groups))
	for _, group := range groups {
		groupIds = append(groupIds, group.Uuid)
	}
	rows, err := repos.GroupMember.FindMembersWithUserInfoByGroupUuids(groupIds)
	if err != nil {
		return nil, internalError("find group members error", err)
	}
	byGroup := make(map[string][]repository.GroupMemberWithUserInfo, len(groups))
	for _, row := range rows {
		byGroup[row.GroupUuid] = append(byGroup[row.GroupUuid], row)
	}
	for i := range groups {
		views = append(views, assembleGroupView(&groups[i], byGroup[groups[i].Uuid]))
	}
	return views, nil
}
