package group

import (
	"flatshare_server/internal/dao/mysql/repository"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/model"
	"flatshare_server/pkg/enum/group_member/member_status_enum"
)

const timeLayout = "2006-01-02 15:04:05"

// assembleGroupView 组装小组视图
// members 须按加入顺序排列；偏好文档缺失字段补默认值
func assembleGroupView(group *model.GroupInfo, members []repository.GroupMemberWithUserInfo) respond.GroupViewRespond {
	pref := group.LifestylePreference.WithDefaults()

	view := respond.GroupViewRespond{
		GroupId:             group.Uuid,
		Name:                group.Name,
		Description:         group.Description,
		ListingId:           group.ListingId,
		OwnerId:             group.OwnerId,
		Members:             make([]respond.GroupMemberRespond, 0, len(members)),
		LifestylePreference: preferenceRespond(&pref),
		CreatedAt:           group.CreatedAt.Format(timeLayout),
	}

	allReady := true
	for _, m := range members {
		view.Members = append(view.Members, respond.GroupMemberRespond{
			UserId:   m.UserUuid,
			Username: m.Username,
			Name:     m.Name,
			Surname:  m.Surname,
			Status:   member_status_enum.Name(m.Status),
			IsOwner:  m.UserUuid == group.OwnerId,
			JoinedAt: m.JoinedAt.Format(timeLayout),
		})
		if m.Status != member_status_enum.ACTIVE {
			continue
		}
		view.MemberCount++
		if !pref.IsReady(m.UserUuid) {
			allReady = false
		}
	}
	view.AllReadyToSign = view.MemberCount > 0 && allReady
	return view
}

func preferenceRespond(pref *model.LifestylePreference) respond.LifestylePreferenceRespond {
	full := pref.WithDefaults()
	return respond.LifestylePreferenceRespond{
		RentDivision: full.RentDivision,
		QuietHours: respond.QuietHoursRespond{
			Start: full.QuietHours.Start,
			End:   full.QuietHours.End,
		},
		ReadyToSign: full.ReadyToSign,
	}
}
