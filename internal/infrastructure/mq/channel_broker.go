package mq

import (
	"context"
	"sync"

	"flatshare_server/pkg/constants"

	"go.uber.org/zap"
)

// ChannelBroker 单机模式，事件经缓冲通道交给消费循环
type ChannelBroker struct {
	events    chan GroupEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannelBroker 创建 ChannelBroker
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		events: make(chan GroupEvent, constants.CHANNEL_SIZE),
		done:   make(chan struct{}),
	}
}

// Publish 写入通道，通道满时等待直到 ctx 取消
func (b *ChannelBroker) Publish(ctx context.Context, event GroupEvent) error {
	select {
	case <-b.done:
		return ErrBrokerClosed
	default:
	}
	select {
	case b.events <- event:
		return nil
	case <-b.done:
		return ErrBrokerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start 消费循环
func (b *ChannelBroker) Start(ctx context.Context, handler EventHandler) {
	zap.L().Info("Channel event broker started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case event := <-b.events:
			dispatch(ctx, handler, event)
		}
	}
}

// Close 停止消费循环，未消费的事件被丢弃
func (b *ChannelBroker) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

// dispatch 执行回调，panic 和错误只记录日志
func dispatch(ctx context.Context, handler EventHandler, event GroupEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("event handler panic", zap.Any("recover", rec), zap.String("type", event.Type))
		}
	}()
	if err := handler(ctx, event); err != nil {
		zap.L().Error("handle group event failed",
			zap.String("type", event.Type),
			zap.String("groupId", event.GroupId),
			zap.Error(err))
	}
}

var _ EventBroker = (*ChannelBroker)(nil)
