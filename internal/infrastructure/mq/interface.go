// Package mq 小组事件总线
// 支持两种实现：ChannelBroker（单机，进程内通道）、KafkaBroker（分布式）
package mq

import (
	"context"
	"errors"
	"time"
)

// ErrBrokerClosed 代理已关闭
var ErrBrokerClosed = errors.New("event broker closed")

// GroupEvent 小组状态变化事件，TargetIds 为需要收到通知的用户
type GroupEvent struct {
	Type       string    `json:"type"`
	GroupId    string    `json:"group_id"`
	GroupName  string    `json:"group_name"`
	ActorId    string    `json:"actor_id"`
	TargetIds  []string  `json:"target_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventHandler 事件消费回调
type EventHandler func(ctx context.Context, event GroupEvent) error

// EventPublisher 事件发布接口，Service 层只依赖它
type EventPublisher interface {
	Publish(ctx context.Context, event GroupEvent) error
}

// EventBroker 事件代理
type EventBroker interface {
	EventPublisher
	// Start 阻塞消费事件直到 ctx 取消或 Close
	Start(ctx context.Context, handler EventHandler)
	// Close 关闭代理资源
	Close()
}
