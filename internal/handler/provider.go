// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
// 通过构造函数注入 Service 依赖
package handler

import (
	"flatshare_server/internal/gateway/websocket"
	"flatshare_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	User         *UserHandler
	Auth         *AuthHandler
	Listing      *ListingHandler
	Group        *GroupHandler
	Notification *NotificationHandler
	Message      *MessageHandler
	Ws           *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, hub *websocket.Hub) *Handlers {
	return &Handlers{
		User:         NewUserHandler(svc.User),
		Auth:         NewAuthHandler(svc.User),
		Listing:      NewListingHandler(svc.Listing),
		Group:        NewGroupHandler(svc.Group),
		Notification: NewNotificationHandler(svc.Notification),
		Message:      NewMessageHandler(svc.Message),
		Ws:           NewWsHandler(hub),
	}
}
