// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"flatshare_server/internal/dao/mysql/repository"
	myredis "flatshare_server/internal/dao/redis"
	"flatshare_server/internal/infrastructure/mq"
	"flatshare_server/internal/service/auth"
	"flatshare_server/internal/service/group"
	"flatshare_server/internal/service/listing"
	"flatshare_server/internal/service/message"
	"flatshare_server/internal/service/notification"
	"flatshare_server/internal/service/user"
	"flatshare_server/pkg/util/jwt"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，由 main.go 构造后传给 Handler 层
type Services struct {
	User         UserService
	Listing      ListingService
	Group        GroupService
	Notification NotificationService
	Message      MessageService
}

// Deps Service 层依赖的基础设施
type Deps struct {
	Repos  *repository.Repositories
	Cache  myredis.AsyncCacheService
	Events mq.EventPublisher
	Tokens *jwt.Manager
	Pusher notification.Pusher
}

// NewServices 创建并注入所有 Service 实例
func NewServices(deps Deps) *Services {
	authSvc := auth.NewAuthService(deps.Cache)
	return &Services{
		User:         user.NewUserService(deps.Repos, deps.Tokens, authSvc),
		Listing:      listing.NewListingService(deps.Repos),
		Group:        group.NewGroupService(deps.Repos, deps.Cache, deps.Events),
		Notification: notification.NewNotificationService(deps.Repos, deps.Pusher),
		Message:      message.NewMessageService(deps.Repos, deps.Cache, deps.Pusher),
	}
}
