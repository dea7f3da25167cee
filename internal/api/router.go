package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/turfbook/turf-booking-backend/internal/auth"
	"github.com/turfbook/turf-booking-backend/internal/booking"
	bookingHttp "github.com/turfbook/turf-booking-backend/internal/booking/http"
	"github.com/turfbook/turf-booking-backend/internal/pkg/storage"
	"github.com/turfbook/turf-booking-backend/internal/turf"
	turfHttp "github.com/turfbook/turf-booking-backend/internal/turf/http"
	"github.com/turfbook/turf-booking-backend/internal/user"
	userHttp "github.com/turfbook/turf-booking-backend/internal/user/http"
)

// Config holds everything the router needs to assemble middleware and routes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	StoragePath    string
	Timezone       *time.Location
	UserService    user.Service
	TurfService    turf.Service
	BookingService booking.Service
	Storage        storage.Storage
	ImageProcessor *storage.ImageProcessor
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the user, turf and booking modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an admin.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	turfHandler := turfHttp.NewHandler(cfg.TurfService, cfg.BookingService, cfg.Storage, cfg.ImageProcessor, cfg.Timezone)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Serve uploaded turf photos.
	r.Static("/uploads", cfg.StoragePath)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		turfHttp.RegisterRoutes(v1, turfHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
	}

	return r
}
