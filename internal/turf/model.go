package turf

import (
	"net/http"
	"time"

	"github.com/turfbook/turf-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound               = apperror.New(http.StatusNotFound, "Turf not found")
	ErrInvalidOperatingWindow = apperror.New(http.StatusBadRequest, "Invalid open and close times")
	ErrInvalidSlotDuration    = apperror.New(http.StatusBadRequest, "slot duration must be positive")
	ErrEmptyName              = apperror.New(http.StatusBadRequest, "turf name is required")
	ErrInvalidPrice           = apperror.New(http.StatusBadRequest, "price must be positive")
)

// Turf represents a bookable sports facility.
type Turf struct {
	ID           string // UUID
	AdminID      string
	Name         string
	Size         string
	Location     string
	OpenTime     string // "HH:mm"
	CloseTime    string // "HH:mm"
	SlotDuration int    // minutes
	PricePerHour float64
	Images       []string
	CreatedAt    time.Time
}

// SlotStatus is the availability state of a calendar grid slot.
// There is no held or pending state; a slot is either free or taken.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// Slot is one bookable interval within a turf's operating hours.
// Times are zero-padded "HH:mm" clock strings, so lexicographic
// comparison matches chronological order.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GridSlot is a persisted calendar slot carrying its availability status.
type GridSlot struct {
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Status    SlotStatus `json:"status"`
}

// DaySlots is one day of the persisted slot calendar.
type DaySlots struct {
	Day   time.Time  `json:"date"`
	Slots []GridSlot `json:"slots"`
}

// Filter defines parameters for listing turfs.
type Filter struct {
	AdminID  string
	Page     int
	PageSize int
}
