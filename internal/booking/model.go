package booking

import (
	"net/http"
	"time"

	"github.com/turfbook/turf-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "Booking not found")
	ErrTurfNotFound     = apperror.New(http.StatusNotFound, "Turf not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "User not found")
	ErrConflict         = apperror.New(http.StatusBadRequest, "Booking collision detected")
	ErrCapacityExceeded = apperror.New(http.StatusBadRequest, "Requested players exceed the needed players")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrInvalidDate      = apperror.New(http.StatusBadRequest, "Invalid or missing date parameter")
	ErrInvalidAmount    = apperror.New(http.StatusBadRequest, "invalid remaining amount")
	ErrInvalidPlayers   = apperror.New(http.StatusBadRequest, "players count must be positive")
	ErrNotJoinable      = apperror.New(http.StatusBadRequest, "booking does not accept joining players")
	ErrAlreadyCancelled = apperror.New(http.StatusBadRequest, "booking is already cancelled")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking represents one confirmed reservation of a turf interval.
// Day is normalized to the canonical booking zone at day granularity;
// StartTime and EndTime are "HH:mm" clock strings within that day.
type Booking struct {
	ID               string
	TurfID           string
	TurfName         string
	UserID           string
	UserName         string
	Day              time.Time
	StartTime        string
	EndTime          string
	Price            float64
	RemAmount        float64
	RequestedPlayers int
	Status           Status
	CreatedAt        time.Time
	Players          []Player
}

// Player is a participant who joined an open booking and owes a share
// of its price.
type Player struct {
	ID           string
	UserID       string
	UserName     string
	PlayersCount int
	Price        float64
	JoinedAt     time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID   string
	TurfID   string
	Day      *time.Time
	Status   string
	Page     int
	PageSize int
}
