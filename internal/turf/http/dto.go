package http

import (
	"time"

	"github.com/turfbook/turf-booking-backend/internal/turf"
)

// TurfTag holds minimal turf info for embedding in other responses.
type TurfTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TurfResponse struct {
	ID           string    `json:"id"`
	AdminID      string    `json:"adminId"`
	Name         string    `json:"name"`
	Size         string    `json:"size"`
	Location     string    `json:"location"`
	OpenTime     string    `json:"openTime"`
	CloseTime    string    `json:"closeTime"`
	SlotDuration int       `json:"slotDuration"`
	PricePerHour float64   `json:"pricePerHour"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewTurfResponse(t *turf.Turf) TurfResponse {
	images := t.Images
	if images == nil {
		images = make([]string, 0)
	}
	return TurfResponse{
		ID:           t.ID,
		AdminID:      t.AdminID,
		Name:         t.Name,
		Size:         t.Size,
		Location:     t.Location,
		OpenTime:     t.OpenTime,
		CloseTime:    t.CloseTime,
		SlotDuration: t.SlotDuration,
		PricePerHour: t.PricePerHour,
		Images:       images,
		CreatedAt:    t.CreatedAt,
	}
}

// CreateTurfRequest is bound from a multipart form so turf photos can be
// uploaded alongside the fields.
type CreateTurfRequest struct {
	Name         string  `form:"name" binding:"required"`
	Size         string  `form:"size" binding:"required"`
	Location     string  `form:"location" binding:"required"`
	OpenTime     string  `form:"openTime" binding:"required,datetime=15:04"`
	CloseTime    string  `form:"closeTime" binding:"required,datetime=15:04"`
	SlotDuration int     `form:"slotDuration" binding:"required,min=1"`
	PricePerHour float64 `form:"price" binding:"required,gt=0"`
}

type OperatingHoursResponse struct {
	OpeningTime  string `json:"openingTime"`
	ClosingTime  string `json:"closingTime"`
	SlotDuration int    `json:"slotDuration"`
}

// SlotsResponse is shared by the computed and grid slot views.
type SlotsResponse struct {
	AvailableSlots []turf.Slot `json:"availableSlots"`
	BookedSlots    []turf.Slot `json:"bookedSlots"`
}
