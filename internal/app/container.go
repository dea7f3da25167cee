package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/turfbook/turf-booking-backend/internal/api"
	"github.com/turfbook/turf-booking-backend/internal/auth"
	"github.com/turfbook/turf-booking-backend/internal/booking"
	"github.com/turfbook/turf-booking-backend/internal/calendar"
	"github.com/turfbook/turf-booking-backend/internal/pkg/storage"
	"github.com/turfbook/turf-booking-backend/internal/turf"
	"github.com/turfbook/turf-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction        bool
	ProdOrigins         string
	DBPool              *pgxpool.Pool
	JWTSecret           string
	JWTTTL              time.Duration
	BcryptCost          int
	Timezone            *time.Location
	CalendarHorizonDays int
	CalendarCronSpec    string
	StoragePath         string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	JWTManager  *auth.JWTManager
	CalendarJob *calendar.Job
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	imageProcessor := storage.NewImageProcessor()

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Turf Module
	turfRepo := turf.NewPgxRepository(cfg.DBPool)
	turfService := turf.NewService(turfRepo, cfg.Timezone, cfg.CalendarHorizonDays)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, turfService, userService, cfg.Timezone)

	// Calendar maintenance job
	calendarJob := calendar.NewJob(turfService, cfg.Timezone, cfg.CalendarCronSpec)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		StoragePath:    cfg.StoragePath,
		Timezone:       cfg.Timezone,
		UserService:    userService,
		TurfService:    turfService,
		BookingService: bookingService,
		Storage:        store,
		ImageProcessor: imageProcessor,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:      router,
		JWTManager:  jwtManager,
		CalendarJob: calendarJob,
	}, nil
}
