package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/turfs")

	// Public Routes
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.GET("/:id/operating-hours", h.OperatingHours)
	group.GET("/:id/slots", h.Slots)
	group.GET("/:id/day-slots", h.DaySlots)

	// Admin Routes
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
	}
}
