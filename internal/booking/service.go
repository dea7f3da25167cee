package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/turfbook/turf-booking-backend/internal/turf"
	"github.com/turfbook/turf-booking-backend/internal/user"
)

type CreateRequest struct {
	TurfID           string
	UserID           string
	Date             string // "YYYY-MM-DD"
	StartTime        string // "HH:mm"
	EndTime          string // "HH:mm"
	RequestedPlayers int
}

// OfflineCreateRequest is a walk-in booking made at the venue; the customer
// is identified by phone number instead of an account.
type OfflineCreateRequest struct {
	TurfID    string
	Name      string
	Phone     string
	Date      string
	StartTime string
	EndTime   string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	CreateOffline(ctx context.Context, req OfflineCreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// UpdateRemainingAmount overwrites the amount still owed on a booking,
	// e.g. after a payment is approved at the venue.
	UpdateRemainingAmount(ctx context.Context, id string, amount float64) (*Booking, error)

	// Join adds a participant to an open booking and redistributes the
	// original price evenly across all current participants.
	Join(ctx context.Context, bookingID, userID string, playersCount int) (*Booking, error)

	// Cancel moves a confirmed booking to the cancelled terminal state and
	// releases its calendar slots.
	Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Booking, error)

	// BookedRanges returns the reserved [start, end) ranges for a turf on
	// one day, one range per confirmed booking.
	BookedRanges(ctx context.Context, turfID, date string) ([]turf.Slot, error)

	// SlotsForDay derives the availability view on the fly: the turf's
	// generated slot sequence partitioned by overlap with confirmed bookings.
	SlotsForDay(ctx context.Context, turfID, date string) (available, booked []turf.Slot, err error)
}

type service struct {
	repo        Repository
	turfService turf.Service
	userService user.Service
	loc         *time.Location
}

// NewService creates a new booking Service. loc is the canonical zone used
// to normalize bare date inputs before storage and comparison.
func NewService(repo Repository, turfService turf.Service, userService user.Service, loc *time.Location) Service {
	return &service{
		repo:        repo,
		turfService: turfService,
		userService: userService,
		loc:         loc,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	u, err := s.userService.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.create(ctx, req.TurfID, u.ID, req.Date, req.StartTime, req.EndTime, req.RequestedPlayers)
}

func (s *service) CreateOffline(ctx context.Context, req OfflineCreateRequest) (*Booking, error) {
	guest, err := s.userService.FindOrCreateGuest(ctx, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, req.TurfID, guest.ID, req.Date, req.StartTime, req.EndTime, 0)
}

// create is the shared confirmation path: validate inputs, price the
// interval and hand the check-and-write to the repository, which performs
// the collision check, booking insert and slot sync atomically.
func (s *service) create(ctx context.Context, turfID, userID, date, start, end string, requestedPlayers int) (*Booking, error) {
	day, err := s.normalizeDay(date)
	if err != nil {
		return nil, err
	}

	minutes, err := turf.ClockMinutes(start, end)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	if minutes <= 0 {
		return nil, ErrInvalidTimeRange
	}
	if requestedPlayers < 0 {
		return nil, ErrInvalidPlayers
	}

	t, err := s.turfService.GetByID(ctx, turfID)
	if err != nil {
		if errors.Is(err, turf.ErrNotFound) {
			return nil, ErrTurfNotFound
		}
		return nil, err
	}

	price := round2(t.PricePerHour * float64(minutes) / 60)

	b := &Booking{
		TurfID:           t.ID,
		TurfName:         t.Name,
		UserID:           userID,
		Day:              day,
		StartTime:        start,
		EndTime:          end,
		Price:            price,
		RemAmount:        price,
		RequestedPlayers: requestedPlayers,
		Status:           StatusConfirmed,
	}

	if err := s.repo.CreateConfirmed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateRemainingAmount(ctx context.Context, id string, amount float64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if amount < 0 || amount > b.Price {
		return nil, ErrInvalidAmount
	}

	b.RemAmount = amount
	if err := s.repo.UpdateAmounts(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Join(ctx context.Context, bookingID, userID string, playersCount int) (*Booking, error) {
	if playersCount <= 0 {
		return nil, ErrInvalidPlayers
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.RequestedPlayers <= 0 {
		return nil, ErrNotJoinable
	}
	if playersCount > b.RequestedPlayers {
		return nil, ErrCapacityExceeded
	}

	u, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Even split of the original total price across all current
	// participants: the booker plus every joined player's head count.
	totalPlayers := 1 + playersCount
	for _, p := range b.Players {
		totalPlayers += p.PlayersCount
	}
	share := round2(b.Price / float64(totalPlayers))

	b.RemAmount = share
	b.RequestedPlayers -= playersCount

	p := &Player{
		UserID:       u.ID,
		UserName:     u.Name,
		PlayersCount: playersCount,
		Price:        share,
	}

	if err := s.repo.AddPlayer(ctx, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, id, requesterID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.Cancel(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) BookedRanges(ctx context.Context, turfID, date string) ([]turf.Slot, error) {
	day, err := s.normalizeDay(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.turfService.GetByID(ctx, turfID); err != nil {
		if errors.Is(err, turf.ErrNotFound) {
			return nil, ErrTurfNotFound
		}
		return nil, err
	}

	bookings, err := s.repo.ListForDay(ctx, turfID, day)
	if err != nil {
		return nil, err
	}

	ranges := make([]turf.Slot, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, turf.Slot{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return ranges, nil
}

func (s *service) SlotsForDay(ctx context.Context, turfID, date string) ([]turf.Slot, []turf.Slot, error) {
	day, err := s.normalizeDay(date)
	if err != nil {
		return nil, nil, err
	}

	t, err := s.turfService.GetByID(ctx, turfID)
	if err != nil {
		if errors.Is(err, turf.ErrNotFound) {
			return nil, nil, ErrTurfNotFound
		}
		return nil, nil, err
	}

	slots, err := turf.GenerateSlots(t.OpenTime, t.CloseTime, t.SlotDuration)
	if err != nil {
		return nil, nil, err
	}

	bookings, err := s.repo.ListForDay(ctx, turfID, day)
	if err != nil {
		return nil, nil, err
	}

	available := make([]turf.Slot, 0, len(slots))
	booked := make([]turf.Slot, 0)
	for _, slot := range slots {
		taken := false
		for _, b := range bookings {
			if Overlaps(slot.StartTime, slot.EndTime, b.StartTime, b.EndTime) {
				taken = true
				break
			}
		}
		if taken {
			booked = append(booked, slot)
		} else {
			available = append(available, slot)
		}
	}

	return available, booked, nil
}

// normalizeDay parses a bare date string in the canonical booking zone and
// truncates it to day granularity.
func (s *service) normalizeDay(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, date, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	return day, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
