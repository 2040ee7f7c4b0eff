package handler

import (
	"strconv"

	"flatshare_server/internal/service"
	"flatshare_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// NotificationHandler 站内通知请求处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListNotifications GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.notificationSvc.ListNotifications(c.Request.Context(), caller)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	uuid, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	if err := h.notificationSvc.MarkRead(c.Request.Context(), caller, uuid); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
