package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// Public Routes
	group.GET("/:id/booked-slots", h.BookedSlots)

	// Authenticated Routes
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("", h.List)
		authed.GET("/:id", h.Get)
		authed.POST("", h.Create)
		authed.POST("/join", h.Join)
		authed.POST("/:id/cancel", h.Cancel)
	}

	// Admin Routes (walk-in desk and payment approval)
	admin := group.Group("")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/offline", h.CreateOffline)
		admin.PUT("/:id", h.UpdateRemAmount)
	}
}
