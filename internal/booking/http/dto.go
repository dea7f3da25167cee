package http

import (
	"time"

	"github.com/turfbook/turf-booking-backend/internal/booking"
	turfHttp "github.com/turfbook/turf-booking-backend/internal/turf/http"
	userHttp "github.com/turfbook/turf-booking-backend/internal/user/http"
)

type CreateBookingRequest struct {
	TurfID           string `json:"turfId" binding:"required,uuid"`
	Date             string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime        string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime          string `json:"endTime" binding:"required,datetime=15:04"`
	RequestedPlayers int    `json:"requestedPlayers" binding:"omitempty,min=0"`
}

// CreateOfflineBookingRequest is a walk-in booking recorded by venue staff;
// the customer is identified by name and phone number.
type CreateOfflineBookingRequest struct {
	TurfID    string `json:"turfId" binding:"required,uuid"`
	Name      string `json:"name" binding:"required"`
	Number    string `json:"number" binding:"required"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04"`
}

type UpdateBookingRequest struct {
	RemAmount *float64 `json:"rem_amount" binding:"required"`
}

type JoinBookingRequest struct {
	BookingID    string `json:"bookingId" binding:"required,uuid"`
	PlayersCount int    `json:"playersCount" binding:"required,min=1"`
}

type PlayerResponse struct {
	User         userHttp.UserTag `json:"user"`
	PlayersCount int              `json:"playersCount"`
	Price        float64          `json:"price"`
	JoinedAt     time.Time        `json:"joinedAt"`
}

type BookingResponse struct {
	ID               string           `json:"id"`
	Turf             turfHttp.TurfTag `json:"turf"`
	User             userHttp.UserTag `json:"user"`
	Date             string           `json:"date"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	Price            float64          `json:"price"`
	RemAmount        float64          `json:"rem_amount"`
	RequestedPlayers int              `json:"requestedPlayers"`
	JoinedPlayers    []PlayerResponse `json:"joinedPlayers"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	players := make([]PlayerResponse, len(b.Players))
	for i, p := range b.Players {
		players[i] = PlayerResponse{
			User:         userHttp.UserTag{ID: p.UserID, Name: p.UserName},
			PlayersCount: p.PlayersCount,
			Price:        p.Price,
			JoinedAt:     p.JoinedAt,
		}
	}

	return BookingResponse{
		ID:               b.ID,
		Turf:             turfHttp.TurfTag{ID: b.TurfID, Name: b.TurfName},
		User:             userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Date:             b.Day.Format("2006-01-02"),
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		Price:            b.Price,
		RemAmount:        b.RemAmount,
		RequestedPlayers: b.RequestedPlayers,
		JoinedPlayers:    players,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
	}
}
