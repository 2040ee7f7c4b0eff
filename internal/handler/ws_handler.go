// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接相关的 API 请求
package handler

import (
	"flatshare_server/internal/gateway/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WsHandler WebSocket 通知推送入口
type WsHandler struct {
	hub *websocket.Hub
}

func NewWsHandler(hub *websocket.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Connect 升级为 WebSocket 连接
// GET /ws?token=xxx
// 用户身份来自 JWT，同一用户的新连接会替换旧连接
func (h *WsHandler) Connect(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request, caller.UserId); err != nil {
		// Upgrade 失败时已写出错误响应
		zap.L().Warn("ws upgrade failed", zap.String("userId", caller.UserId), zap.Error(err))
	}
}
