package group

import (
	"context"

	"go.uber.org/zap"

	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/enum/event/event_type_enum"
	"flatshare_server/pkg/enum/group_member/member_status_enum"
	"flatshare_server/pkg/errorx"
)

// SetPreferences 组长整体替换租金分配和安静时段，签约集合保持不变
func (g *groupService) SetPreferences(ctx context.Context, caller request.Caller, groupId string, doc request.PreferenceDocument) (*respond.LifestylePreferenceRespond, error) {
	var group *model.GroupInfo
	var members []model.GroupMember
	var pref model.LifestylePreference
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		if !canManage(caller, group) {
			return errorx.ErrForbidden
		}
		if members, err = txRepos.GroupMember.FindByGroupUuid(groupId); err != nil {
			return internalError("find group members error", err, zap.String("groupId", groupId))
		}

		next, err := preferenceFromRequest(doc, members)
		if err != nil {
			return err
		}
		pref = group.LifestylePreference.WithDefaults()
		pref.ApplySettings(next)
		if err := txRepos.Group.UpdatePreference(groupId, &pref); err != nil {
			return internalError("update preference error", err, zap.String("groupId", groupId))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, groupId)
	g.publish(ctx, event_type_enum.PREFERENCES_UPDATED, group, caller.UserId,
		excluding(activeIds(members), caller.UserId)...)
	out := preferenceRespond(&pref)
	return &out, nil
}

// preferenceFromRequest 校验请求中的偏好文档并转换为模型
// rent_division 的 key 必须是正式成员，单项 0-100，总和不超过 100
func preferenceFromRequest(doc request.PreferenceDocument, members []model.GroupMember) (model.LifestylePreference, error) {
	var next model.LifestylePreference
	if doc.QuietHours != nil {
		if !model.IsClock(doc.QuietHours.Start) || !model.IsClock(doc.QuietHours.End) {
			return next, errorx.New(errorx.CodeInvalidParam, "quiet_hours 格式应为 HH:MM")
		}
		next.QuietHours = &model.QuietHours{Start: doc.QuietHours.Start, End: doc.QuietHours.End}
	}

	active := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m.Status == member_status_enum.ACTIVE {
			active[m.UserUuid] = struct{}{}
		}
	}
	next.RentDivision = make(map[string]float64, len(doc.RentDivision))
	for userId, share := range doc.RentDivision {
		if _, ok := active[userId]; !ok {
			return next, errorx.Newf(errorx.CodeInvalidParam, "rent_division 中的 %s 不是小组正式成员", userId)
		}
		if share < 0 || share > 100 {
			return next, errorx.Newf(errorx.CodeInvalidParam, "%s 的租金比例应在 0-100 之间", userId)
		}
		next.RentDivision[userId] = share
	}
	if next.RentTotal() > 100 {
		return next, errorx.New(errorx.CodeInvalidParam, "租金比例总和不能超过 100")
	}
	return next, nil
}

// MarkReadyToSign 正式成员确认签约，重复调用不产生重复记录
func (g *groupService) MarkReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error) {
	var group *model.GroupInfo
	var changed bool
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		var err error
		if group, err = findGroup(txRepos.Group.FindByUuidForUpdate, groupId); err != nil {
			return err
		}
		member, err := findMember(txRepos, groupId, caller.UserId)
		if err != nil {
			return err
		}
		if member == nil || member.Status != member_status_enum.ACTIVE {
			return errNotActiveMember
		}

		pref := group.LifestylePreference.WithDefaults()
		if changed = pref.MarkReady(caller.UserId); !changed {
			return nil
		}
		if err := txRepos.Group.UpdatePreference(groupId, &pref); err != nil {
			return internalError("mark ready_to_sign error", err, zap.String("groupId", groupId))
		}
		group.LifestylePreference = &pref
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		g.invalidate(ctx, groupId)
	}

	view, err := g.loadGroupView(ctx, groupId)
	if err != nil {
		return nil, err
	}
	if changed {
		others := make([]string, 0, len(view.Members))
		for _, m := range view.Members {
			if m.Status == member_status_enum.Name(member_status_enum.ACTIVE) && m.UserId != caller.UserId {
				others = append(others, m.UserId)
			}
		}
		g.publish(ctx, event_type_enum.READY_TO_SIGN, group, caller.UserId, others...)
		if view.AllReadyToSign {
			g.publish(ctx, event_type_enum.ALL_READY, group, caller.UserId, append(others, caller.UserId)...)
		}
	}
	return view, nil
}

// ForfeitReadyToSign 撤回签约确认，不在集合中时直接返回
func (g *groupService) ForfeitReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error) {
	err := g.repos.WithContext(ctx).Transaction(func(txRepos *repository.Repositories) error {
		group, err := findGroup(txRepos.Group.FindByUuidForUpdate, groupId)
		if err != nil {
			return err
		}
		member, err := findMember(txRepos, groupId, caller.UserId)
		if err != nil {
			return err
		}
		if member == nil {
			return errNotMember
		}
		return pruneReady(txRepos, group, caller.UserId)
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, groupId)
	return g.loadGroupView(ctx, groupId)
}

// activeIds 正式成员 ID
func activeIds(members []model.GroupMember) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.Status == member_status_enum.ACTIVE {
			ids = append(ids, m.UserUuid)
		}
	}
	return ids
}
