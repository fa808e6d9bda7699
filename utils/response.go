package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"garagehub-api/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// SendServiceError maps a service-layer error to its HTTP status. Unmatched
// errors become a 500 without leaking internals.
func SendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		SendError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrConflict):
		SendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrGeocodingFailed):
		// Retryable upstream failure, not a validation problem.
		SendError(c, http.StatusServiceUnavailable, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
