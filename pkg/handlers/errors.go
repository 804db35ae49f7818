package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/response"
	"dailyimage/pkg/scheduler"
	"dailyimage/pkg/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Common error type definitions
var (
	ErrInvalidParam       = errors.New("invalid parameter")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// APIError represents a custom API error structure
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API Error (Code: %d, Message: %s): %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("API Error (Code: %d, Message: %s)", e.Code, e.Message)
}

// Unwrap supports error wrapping
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, err error) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string, err error) *APIError {
	return &APIError{Code: http.StatusServiceUnavailable, Message: message, Err: err}
}

// HandleError maps an error onto a status code and writes the error body
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		response.WriteErrorResponse(c, apiErr.Code, apiErr.Message, apiErr.Err)
		return
	}

	switch {
	case errors.Is(err, daily.ErrInvalidDate), errors.Is(err, daily.ErrInvalidName), errors.Is(err, ErrInvalidParam):
		response.WriteErrorResponse(c, http.StatusBadRequest, "Invalid parameter", err)
	case errors.Is(err, tasks.ErrTaskNotFound):
		response.WriteErrorResponse(c, http.StatusNotFound, "Task not found", err)
	case errors.Is(err, tasks.ErrTooManyTasks), errors.Is(err, scheduler.ErrJobRunning):
		response.WriteErrorResponse(c, http.StatusConflict, "Generation already in progress", err)
	case errors.Is(err, ErrServiceUnavailable):
		response.WriteErrorResponse(c, http.StatusServiceUnavailable, "Service unavailable", err)
	default:
		// 未知错误只记录详情，不返回给客户端
		logger.Error("Unexpected error occurred", zap.Error(err))
		response.WriteErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
