package handler

import (
	"flatshare_server/internal/dto/request"
	"flatshare_server/internal/service"

	"github.com/gin-gonic/gin"
)

// ListingHandler 房源请求处理器
type ListingHandler struct {
	listingSvc service.ListingService
}

func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

// CreateListing POST /listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req request.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.listingSvc.CreateListing(c.Request.Context(), caller, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// GetListing GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	data, err := h.listingSvc.GetListing(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
