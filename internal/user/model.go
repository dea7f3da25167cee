package user

import (
	"net/http"
	"time"

	"github.com/turfbook/turf-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "User not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrPhoneAlreadyUsed   = apperror.New(http.StatusConflict, "phone number already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPhoneRequired      = apperror.New(http.StatusBadRequest, "phone number is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
)

// User represents an account in the system. Registered users carry an email
// and password hash; walk-in guests are identified by phone number only and
// have IsGuest set.
type User struct {
	ID           string // UUID
	Name         string
	Email        *string
	PasswordHash *string
	Phone        *string
	IsAdmin      bool
	IsGuest      bool
	CreatedAt    time.Time
}
