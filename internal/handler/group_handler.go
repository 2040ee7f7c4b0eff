// Package handler 提供 HTTP 请求处理器
// 本文件处理合租小组相关的 API 请求
package handler

import (
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 小组请求处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建小组处理器实例
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建小组
// POST /groups
// 请求体: request.CreateGroupRequest
// 响应: 201 + respond.GroupViewRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroup(c.Request.Context(), caller, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// GetGroup 获取小组视图
// GET /groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	data, err := h.groupSvc.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListAllGroups 获取全部小组
// GET /groups
func (h *GroupHandler) ListAllGroups(c *gin.Context) {
	data, err := h.groupSvc.ListAllGroups(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListGroupsForListing 获取房源下的小组，没有小组时返回 404
// GET /listings/:id/groups
func (h *GroupHandler) ListGroupsForListing(c *gin.Context) {
	data, err := h.groupSvc.ListGroupsForListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMyGroups 我参与的小组（含申请中）
// GET /users/me/groups
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.groupSvc.ListMyGroups(c.Request.Context(), caller)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroup 修改名称/描述
// PUT /groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.UpdateGroup(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DismissGroup 解散小组
// DELETE /groups/:id
func (h *GroupHandler) DismissGroup(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := h.groupSvc.DismissGroup(c.Request.Context(), caller, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RequestJoin 申请加入
// POST /groups/:id/join-request
// 响应: respond.MembershipRespond
func (h *GroupHandler) RequestJoin(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.groupSvc.RequestJoin(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// bindTarget 读取被操作的成员 ID，支持 JSON 请求体或 ?user_id=
func bindTarget(c *gin.Context) (string, bool) {
	if userId := c.Query("user_id"); userId != "" {
		return userId, true
	}
	var req request.MemberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return "", false
	}
	return req.UserId, true
}

// ApproveMember 通过入组申请
// POST /groups/:id/approve-member
// 请求体: {"user_id": "..."}
func (h *GroupHandler) ApproveMember(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	target, ok := bindTarget(c)
	if !ok {
		return
	}
	data, err := h.groupSvc.ApproveMember(c.Request.Context(), caller, c.Param("id"), target)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// RejectMember 拒绝入组申请
// POST /groups/:id/reject-member
func (h *GroupHandler) RejectMember(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	target, ok := bindTarget(c)
	if !ok {
		return
	}
	if err := h.groupSvc.RejectMember(c.Request.Context(), caller, c.Param("id"), target); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移除正式成员
// DELETE /groups/:id/remove-member
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	target, ok := bindTarget(c)
	if !ok {
		return
	}
	if err := h.groupSvc.RemoveMember(c.Request.Context(), caller, c.Param("id"), target); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// LeaveGroup 退出小组或撤回申请
// POST /groups/:id/leave
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	if err := h.groupSvc.LeaveGroup(c.Request.Context(), caller, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetPreferences 替换偏好文档
// PATCH /groups/:id/preferences
// 请求体: request.SetPreferencesRequest
// 响应: respond.LifestylePreferenceRespond
func (h *GroupHandler) SetPreferences(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.SetPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.SetPreferences(c.Request.Context(), caller, c.Param("id"), *req.LifestylePreference)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkReadyToSign 确认签约
// POST /groups/:id/ready-to-sign
func (h *GroupHandler) MarkReadyToSign(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.groupSvc.MarkReadyToSign(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ForfeitReadyToSign 撤回签约确认
// POST /groups/:id/forfeit-sign
func (h *GroupHandler) ForfeitReadyToSign(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	data, err := h.groupSvc.ForfeitReadyToSign(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
