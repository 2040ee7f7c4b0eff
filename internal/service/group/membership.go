package group

import (
	"context"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/enum/event/event_type_enum"
	"flatshare_server/pkg/enum/group_member/member_role_enum"
	"flatshare_server/pkg/enum/group_member/member_status_enum"
	"flatshare_server/pkg/errorx"
	"flatshare_server/pkg/util/random"
)

// CreateGroup 创建小组
// 小组和组长的成员关系在同一事务中写入
func (g *groupService) CreateGroup(ctx context.Context, caller request.Caller, req request.CreateGroupRequest) (*respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)

	if _, err := repos.Listing.FindByUuid(req.ListingId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errListingNotFound
		}
		return nil, internalError("find listing error", err, zap.String("listingId", req.ListingId))
	}

	group := model.GroupInfo{
		Uuid:                random.NewUuid("G"),
		Name:                req.Name,
		Description:         req.Description,
		ListingId:           req.ListingId,
		OwnerId:             caller.UserId,
		MemberCnt:           1,
		LifestylePreference: model.DefaultLifestylePreference(),
	}

	err := repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Group.Create(&group); err != nil {
			return internalError("create group error", err)
		}
		owner := model.GroupMember{
			GroupUuid: group.Uuid,
			UserUuid:  caller.UserId,
			Status:    member_status_enum.ACTIVE,
			Role:      member_role_enum.OWNER,
		}
		if err := txRepos.GroupMember.Create(&owner); err != nil {
			return internalError("create group owner error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("group created", zap.String("groupId", group.Uuid), zap.String("ownerId", caller.UserId))
	return g.loadGroupView(ctx, group.Uuid)
}

// RequestJoin 申请加入小组，新建 PENDING 成员关系
// (group_uuid, user_uuid) 唯一索引保证并发申请只有一个成功
func (g *groupService) RequestJoin(ctx context.Context, caller request.Caller, groupId string) (*respond.MembershipRespond, error) {
	var group *model.GroupInfo
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if group.OwnerId == caller.UserId {
			return errOwnerCannotJoin
		}
		existing, err := findMember(txRepos, groupId, caller.UserId)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyMember
		}

		member := model.GroupMember{
			GroupUuid: groupId,
			UserUuid:  caller.UserId,
			Status:    member_status_enum.PENDING,
			Role:      member_role_enum.MEMBER,
		}
		if err := txRepos.GroupMember.Create(&member); err != nil {
			if errorx.IsConflict(err) {
				return errAlreadyMember
			}
			return internalError("create join request error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.JOIN_REQUESTED, group, caller.UserId, group.OwnerId)
	return &respond.MembershipRespond{
		GroupId: groupId,
		UserId:  caller.UserId,
		Status:  member_status_enum.Name(member_status_enum.PENDING),
	}, nil
}

// ApproveMember 组长通过申请：PENDING -> ACTIVE
func (g *groupService) ApproveMember(ctx context.Context, caller request.Caller, groupId, targetId string) (*respond.MembershipRespond, error) {
	var group *model.GroupInfo
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if !canManage(caller, group) {
			return errorx.ErrForbidden
		}
		member, err := findMember(txRepos, groupId, targetId)
		if err != nil {
			return err
		}
		if member == nil || member.Status != member_status_enum.PENDING {
			return errPendingNotFound
		}
		if err := txRepos.GroupMember.UpdateStatus(groupId, targetId, member_status_enum.ACTIVE); err != nil {
			return internalError("approve member error", err)
		}
		if err := txRepos.Group.IncrementMemberCount(groupId); err != nil {
			return internalError("increment member count error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.MEMBER_APPROVED, group, caller.UserId, targetId)
	return &respond.MembershipRespond{
		GroupId: groupId,
		UserId:  targetId,
		Status:  member_status_enum.Name(member_status_enum.ACTIVE),
	}, nil
}

// RejectMember 组长拒绝申请，删除 PENDING 成员关系
func (g *groupService) RejectMember(ctx context.Context, caller request.Caller, groupId, targetId string) error {
	var group *model.GroupInfo
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if !canManage(caller, group) {
			return errorx.ErrForbidden
		}
		member, err := findMember(txRepos, groupId, targetId)
		if err != nil {
			return err
		}
		if member == nil || member.Status != member_status_enum.PENDING {
			return errPendingNotFound
		}
		if err := txRepos.GroupMember.Delete(groupId, targetId); err != nil {
			return internalError("reject member error", err)
		}
		return pruneReady(txRepos, group, targetId)
	})
	if err != nil {
		return err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.MEMBER_REJECTED, group, caller.UserId, targetId)
	return nil
}

// RemoveMember 组长移除正式成员
func (g *groupService) RemoveMember(ctx context.Context, caller request.Caller, groupId, targetId string) error {
	var group *model.GroupInfo
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if !canManage(caller, group) {
			return errorx.ErrForbidden
		}
		if targetId == group.OwnerId {
			return errCannotRemoveOwner
		}
		member, err := findMember(txRepos, groupId, targetId)
		if err != nil {
			return err
		}
		if member == nil || member.Status != member_status_enum.ACTIVE {
			return errActiveNotFound
		}
		if err := txRepos.GroupMember.Delete(groupId, targetId); err != nil {
			return internalError("remove member error", err)
		}
		if err := txRepos.Group.DecrementMemberCount(groupId); err != nil {
			return internalError("decrement member count error", err)
		}
		return pruneReady(txRepos, group, targetId)
	})
	if err != nil {
		return err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.MEMBER_REMOVED, group, caller.UserId, targetId)
	return nil
}

// LeaveGroup 成员退出小组（PENDING 时相当于撤回申请）
func (g *groupService) LeaveGroup(ctx context.Context, caller request.Caller, groupId string) error {
	var group *model.GroupInfo
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if group.OwnerId == caller.UserId {
			return errOwnerCannotLeave
		}
		member, err := findMember(txRepos, groupId, caller.UserId)
		if err != nil {
			return err
		}
		if member == nil {
			return errMemberNotFound
		}
		if err := txRepos.GroupMember.Delete(groupId, caller.UserId); err != nil {
			return internalError("leave group error", err)
		}
		if member.Status == member_status_enum.ACTIVE {
			if err := txRepos.Group.DecrementMemberCount(groupId); err != nil {
				return internalError("decrement member count error", err)
			}
		}
		return pruneReady(txRepos, group, caller.UserId)
	})
	if err != nil {
		return err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.MEMBER_LEFT, group, caller.UserId, group.OwnerId)
	return nil
}

// UpdateGroup 修改小组名称/描述
func (g *groupService) UpdateGroup(ctx context.Context, caller request.Caller, groupId string, req request.UpdateGroupRequest) (*respond.GroupViewRespond, error) {
	repos := g.repos.WithContext(ctx)
	group, err := findGroup(repos.Group.FindByUuid, groupId)
	if err != nil {
		return nil, err
	}
	if !canManage(caller, group) {
		return nil, errorx.ErrForbidden
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if err := repos.Group.UpdateInfo(groupId, updates); err != nil {
		return nil, internalError("update group error", err, zap.String("groupId", groupId))
	}

	g.invalidate(ctx, groupId)
	return g.loadGroupView(ctx, groupId)
}

// DismissGroup 解散小组：删除全部成员关系并软删除小组
func (g *groupService) DismissGroup(ctx context.Context, caller request.Caller, groupId string) error {
	var group *model.GroupInfo
	var memberIds []string
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if !canManage(caller, group) {
			return errorx.ErrForbidden
		}
		members, err := txRepos.GroupMember.FindByGroupUuid(groupId)
		if err != nil {
			return internalError("find group members error", err)
		}
		for _, m := range members {
			memberIds = append(memberIds, m.UserUuid)
		}
		if err := txRepos.GroupMember.DeleteByGroupUuid(groupId); err != nil {
			return internalError("delete group members error", err)
		}
		if err := txRepos.Group.SoftDelete(groupId); err != nil {
			return internalError("soft delete group error", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("group dismissed", zap.String("groupId", groupId), zap.String("by", caller.UserId))
	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.GROUP_DISMISSED, group, caller.UserId, excluding(memberIds, caller.UserId)...)
	return nil
}
