package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turfbook/turf-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error sends a JSON error response.
// AppError values determine their own status code; anything else
// is reported generically as a 500 so internals never leak to clients.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Message: appErr.Message})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
}
