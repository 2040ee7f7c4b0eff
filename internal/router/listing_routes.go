package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterListingRoutes 房源及房源下的小组
func (rt *Router) RegisterListingRoutes(public, private *gin.RouterGroup) {
	private.POST("/listings", rt.handlers.Listing.CreateListing)
	public.GET("/listings/:id", rt.handlers.Listing.GetListing)
	public.GET("/listings/:id/groups", rt.handlers.Group.ListGroupsForListing)
}
