// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"

	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/dto/respond"
	"flatshare_server/internal/infrastructure/mq"
)

// GroupService 合租小组业务接口
// 包含成员状态机、偏好协商和小组视图组装
type GroupService interface {
	// CreateGroup 创建小组，调用者成为组长
	CreateGroup(ctx context.Context, caller request.Caller, req request.CreateGroupRequest) (*respond.GroupViewRespond, error)
	// GetGroup 获取小组视图
	GetGroup(ctx context.Context, groupId string) (*respond.GroupViewRespond, error)
	// ListAllGroups 获取全部小组
	ListAllGroups(ctx context.Context) ([]respond.GroupViewRespond, error)
	// ListGroupsForListing 获取房源下的小组，为空时返回 NotFound
	ListGroupsForListing(ctx context.Context, listingId string) ([]respond.GroupViewRespond, error)
	// ListMyGroups 获取调用者参与（含申请中）的小组
	ListMyGroups(ctx context.Context, caller request.Caller) ([]respond.GroupViewRespond, error)
	// UpdateGroup 修改名称/描述
	UpdateGroup(ctx context.Context, caller request.Caller, groupId string, req request.UpdateGroupRequest) (*respond.GroupViewRespond, error)
	// DismissGroup 解散小组
	DismissGroup(ctx context.Context, caller request.Caller, groupId string) error

	// RequestJoin 申请加入
	RequestJoin(ctx context.Context, caller request.Caller, groupId string) (*respond.MembershipRespond, error)
	// ApproveMember 组长通过申请
	ApproveMember(ctx context.Context, caller request.Caller, groupId, targetId string) (*respond.MembershipRespond, error)
	// RejectMember 组长拒绝申请
	RejectMember(ctx context.Context, caller request.Caller, groupId, targetId string) error
	// RemoveMember 组长移除正式成员
	RemoveMember(ctx context.Context, caller request.Caller, groupId, targetId string) error
	// LeaveGroup 成员退出或撤回申请
	LeaveGroup(ctx context.Context, caller request.Caller, groupId string) error

	// SetPreferences 组长替换偏好文档
	SetPreferences(ctx context.Context, caller request.Caller, groupId string, doc request.PreferenceDocument) (*respond.LifestylePreferenceRespond, error)
	// MarkReadyToSign 确认签约
	MarkReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error)
	// ForfeitReadyToSign 撤回签约确认
	ForfeitReadyToSign(ctx context.Context, caller request.Caller, groupId string) (*respond.GroupViewRespond, error)
}

// UserService 用户注册、登录、资料
type UserService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*respond.UserInfoRespond, error)
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	RefreshToken(ctx context.Context, req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error)
	GetUserInfo(ctx context.Context, uuid string) (*respond.UserInfoRespond, error)
}

// ListingService 房源
type ListingService interface {
	CreateListing(ctx context.Context, caller request.Caller, req request.CreateListingRequest) (*respond.ListingRespond, error)
	GetListing(ctx context.Context, uuid string) (*respond.ListingRespond, error)
}

// NotificationService 站内通知
type NotificationService interface {
	// HandleEvent 消费小组事件：写库并推送给在线用户
	HandleEvent(ctx context.Context, event mq.GroupEvent) error
	ListNotifications(ctx context.Context, caller request.Caller) ([]respond.NotificationRespond, error)
	MarkRead(ctx context.Context, caller request.Caller, uuid int64) error
}

// MessageService 私信与小组消息
type MessageService interface {
	// SendDirectMessage 发送私信，接收者不存在返回 NotFound
	SendDirectMessage(ctx context.Context, caller request.Caller, req request.SendDirectMessageRequest) (*respond.MessageRespond, error)
	// ListDirectMessages 调用者发出或收到的私信，按时间正序
	ListDirectMessages(ctx context.Context, caller request.Caller, peerId string) ([]respond.MessageRespond, error)
	// SendGroupMessage 正式成员发送小组消息，否则 Forbidden
	SendGroupMessage(ctx context.Context, caller request.Caller, groupId string, req request.SendGroupMessageRequest) (*respond.MessageRespond, error)
	// ListGroupMessages 正式成员查看小组消息
	ListGroupMessages(ctx context.Context, caller request.Caller, groupId string) ([]respond.MessageRespond, error)
}
