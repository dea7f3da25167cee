package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turfbook/turf-booking-backend/internal/auth"
	"github.com/turfbook/turf-booking-backend/internal/booking"
	"github.com/turfbook/turf-booking-backend/internal/pkg/request"
	"github.com/turfbook/turf-booking-backend/internal/pkg/response"
	"github.com/turfbook/turf-booking-backend/internal/pkg/storage"
	"github.com/turfbook/turf-booking-backend/internal/turf"
)

type Handler struct {
	service        turf.Service
	bookingService booking.Service
	store          storage.Storage
	processor      *storage.ImageProcessor
	loc            *time.Location
}

func NewHandler(
	service turf.Service,
	bookingService booking.Service,
	store storage.Storage,
	processor *storage.ImageProcessor,
	loc *time.Location,
) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
		store:          store,
		processor:      processor,
		loc:            loc,
	}
}

// Create registers a new turf and initializes its day-slot calendar.
// The request is a multipart form carrying up to five photos.
func (h *Handler) Create(c *gin.Context) {
	var req CreateTurfRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request", "details": err.Error()})
		return
	}

	var images []string
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["images"]
		if len(files) > 0 {
			paths, err := saveImages(c.Request.Context(), h.store, h.processor, files)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			images = paths
		}
	}

	t, err := h.service.Create(c.Request.Context(), turf.CreateRequest{
		AdminID:      auth.GetUserID(c),
		Name:         req.Name,
		Size:         req.Size,
		Location:     req.Location,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		SlotDuration: req.SlotDuration,
		PricePerHour: req.PricePerHour,
		Images:       images,
	})
	if err != nil {
		// The turf row was not created; drop the stored photos.
		for _, p := range images {
			_ = h.store.Delete(c.Request.Context(), p)
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"turf": NewTurfResponse(t)})
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid query parameters", "details": err.Error()})
		return
	}

	turfs, total, err := h.service.List(c.Request.Context(), turf.Filter{
		AdminID:  c.Query("admin_id"),
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TurfResponse, len(turfs))
	for i, t := range turfs {
		items[i] = NewTurfResponse(t)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"turf": NewTurfResponse(t)})
}

// OperatingHours returns the turf's open and close times and slot duration.
func (h *Handler) OperatingHours(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, OperatingHoursResponse{
		OpeningTime:  t.OpenTime,
		ClosingTime:  t.CloseTime,
		SlotDuration: t.SlotDuration,
	})
}

// Slots returns the availability view computed on the fly from the slot
// generator and the day's confirmed bookings.
func (h *Handler) Slots(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	var q request.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing date parameter"})
		return
	}

	available, booked, err := h.bookingService.SlotsForDay(c.Request.Context(), id, q.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, SlotsResponse{AvailableSlots: available, BookedSlots: booked})
}

// DaySlots returns the same view from the persisted day-slot grid.
func (h *Handler) DaySlots(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid UUID"})
		return
	}

	var q request.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing date parameter"})
		return
	}

	day, err := time.ParseInLocation("2006-01-02", q.Date, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing date parameter"})
		return
	}

	slots, err := h.service.DaySlots(c.Request.Context(), id, day)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := SlotsResponse{
		AvailableSlots: make([]turf.Slot, 0, len(slots)),
		BookedSlots:    make([]turf.Slot, 0),
	}
	for _, s := range slots {
		slot := turf.Slot{StartTime: s.StartTime, EndTime: s.EndTime}
		if s.Status == turf.SlotBooked {
			resp.BookedSlots = append(resp.BookedSlots, slot)
		} else {
			resp.AvailableSlots = append(resp.AvailableSlots, slot)
		}
	}

	c.JSON(http.StatusOK, resp)
}
