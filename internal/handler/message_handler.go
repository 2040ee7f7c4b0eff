// Package handler 提供 HTTP 请求处理器
// 本文件处理私信和小组消息相关的 API 请求
package handler

import (
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendDirectMessage 发送私信
// POST /messages
// 请求体: request.SendDirectMessageRequest
// 响应: 201 + respond.MessageRespond
func (h *MessageHandler) SendDirectMessage(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.SendDirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendDirectMessage(c.Request.Context(), caller, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListDirectMessages 我的私信
// GET /messages?with=<user_id>
func (h *MessageHandler) ListDirectMessages(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.ListDirectMessages(c.Request.Context(), caller, c.Query("with"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SendGroupMessage 发送小组消息
// POST /groups/:id/messages
func (h *MessageHandler) SendGroupMessage(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.SendGroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendGroupMessage(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// ListGroupMessages 小组消息
// GET /groups/:id/messages
func (h *MessageHandler) ListGroupMessages(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.messageSvc.ListGroupMessages(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
