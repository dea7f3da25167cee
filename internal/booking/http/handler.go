package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turfbook/turf-booking-backend/internal/auth"
	"github.com/turfbook/turf-booking-backend/internal/booking"
	"github.com/turfbook/turf-booking-backend/internal/pkg/request"
	"github.com/turfbook/turf-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		TurfID:           req.TurfID,
		UserID:           userID,
		Date:             req.Date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		RequestedPlayers: req.RequestedPlayers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) CreateOffline(c *gin.Context) {
	var req CreateOfflineBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.CreateOffline(c.Request.Context(), booking.OfflineCreateRequest{
		TurfID:    req.TurfID,
		Name:      req.Name,
		Phone:     req.Number,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Only the booker or an admin may inspect a booking.
	if !auth.IsAdmin(c) && b.UserID != auth.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		UserID:   auth.GetUserID(c),
		Page:     params.Page,
		PageSize: params.PageSize,
	}

	// Admins can see all bookings or filter by a specific user.
	if auth.IsAdmin(c) {
		filter.UserID = c.Query("user_id")
		filter.TurfID = c.Query("turf_id")
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// UpdateRemAmount overwrites the remaining amount owed on a booking,
// typically after an offline payment is approved.
func (h *Handler) UpdateRemAmount(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.UpdateRemainingAmount(c.Request.Context(), id, *req.RemAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) Join(c *gin.Context) {
	var req JoinBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	b, err := h.service.Join(c.Request.Context(), req.BookingID, userID, req.PlayersCount)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), id, auth.GetUserID(c), auth.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": NewBookingResponse(b)})
}

// BookedSlots returns the reserved time ranges for a turf on the given day.
func (h *Handler) BookedSlots(c *gin.Context) {
	turfID := c.Param("id")
	if _, err := uuid.Parse(turfID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	var q request.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing date parameter"})
		return
	}

	ranges, err := h.service.BookedRanges(c.Request.Context(), turfID, q.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookedSlots": ranges})
}
