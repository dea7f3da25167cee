package turf

import (
	"context"
	"strings"
	"time"
)

type CreateRequest struct {
	AdminID      string
	Name         string
	Size         string
	Location     string
	OpenTime     string // "HH:mm"
	CloseTime    string // "HH:mm"
	SlotDuration int    // minutes
	PricePerHour float64
	Images       []string
}

type Service interface {
	// Create validates the operating window, persists the turf and
	// initializes its day-slot calendar for the configured horizon.
	Create(ctx context.Context, req CreateRequest) (*Turf, error)
	GetByID(ctx context.Context, id string) (*Turf, error)
	List(ctx context.Context, filter Filter) ([]*Turf, int, error)

	// DaySlots returns the persisted grid for one day of the turf's calendar.
	DaySlots(ctx context.Context, turfID string, day time.Time) ([]GridSlot, error)

	// ExtendCalendar tops up the turf's calendar so it covers the full
	// forward horizon from today. Returns the number of days appended.
	ExtendCalendar(ctx context.Context, turfID string, today time.Time) (int, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type service struct {
	repo        Repository
	loc         *time.Location
	horizonDays int
}

// NewService creates a new turf Service. loc is the canonical booking zone
// used to anchor calendar days; horizonDays is the forward calendar window.
func NewService(repo Repository, loc *time.Location, horizonDays int) Service {
	return &service{
		repo:        repo,
		loc:         loc,
		horizonDays: horizonDays,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Turf, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.PricePerHour <= 0 {
		return nil, ErrInvalidPrice
	}

	// Generating the slot sequence also validates the operating window.
	slots, err := GenerateSlots(req.OpenTime, req.CloseTime, req.SlotDuration)
	if err != nil {
		return nil, err
	}

	t := &Turf{
		AdminID:      req.AdminID,
		Name:         strings.TrimSpace(req.Name),
		Size:         req.Size,
		Location:     req.Location,
		OpenTime:     req.OpenTime,
		CloseTime:    req.CloseTime,
		SlotDuration: req.SlotDuration,
		PricePerHour: req.PricePerHour,
		Images:       req.Images,
	}

	today := Midnight(time.Now().In(s.loc))
	calendar := BuildCalendar(today, s.horizonDays, slots)

	if err := s.repo.Create(ctx, t, calendar); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Turf, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Turf, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) DaySlots(ctx context.Context, turfID string, day time.Time) ([]GridSlot, error) {
	if _, err := s.repo.GetByID(ctx, turfID); err != nil {
		return nil, err
	}
	return s.repo.DaySlots(ctx, turfID, day)
}

func (s *service) ExtendCalendar(ctx context.Context, turfID string, today time.Time) (int, error) {
	t, err := s.repo.GetByID(ctx, turfID)
	if err != nil {
		return 0, err
	}

	last, err := s.repo.LastCalendarDay(ctx, turfID)
	if err != nil {
		return 0, err
	}

	today = Midnight(today.In(s.loc))
	start := today
	if !last.IsZero() && last.AddDate(0, 0, 1).After(start) {
		start = last.AddDate(0, 0, 1)
	}

	end := today.AddDate(0, 0, s.horizonDays) // exclusive
	missing := int(end.Sub(start).Hours() / 24)
	if missing <= 0 {
		return 0, nil
	}

	slots, err := GenerateSlots(t.OpenTime, t.CloseTime, t.SlotDuration)
	if err != nil {
		return 0, err
	}

	calendar := BuildCalendar(start, missing, slots)
	if err := s.repo.AppendCalendar(ctx, turfID, calendar); err != nil {
		return 0, err
	}
	return missing, nil
}

func (s *service) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListIDs(ctx)
}

// Midnight truncates a time to the start of its calendar day,
// keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
