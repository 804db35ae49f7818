// Package response holds the JSON envelopes shared by the HTTP handlers.
package response

import (
	"dailyimage/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error response field names
const (
	FieldError     = "error"
	FieldMessage   = "message"
	FieldCode      = "code"
	FieldDetails   = "details"
	FieldRequestID = "request_id"
)

// requestIDKey matches the key the RequestID middleware stores
const requestIDKey = "RequestID"

// WriteJSONResponse writes a JSON response with the given status code
func WriteJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// WriteErrorResponse writes {error,message,code,details,request_id} and aborts the chain
func WriteErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	errorResp := gin.H{
		FieldError:   true,
		FieldMessage: message,
		FieldCode:    statusCode,
	}
	if id := c.GetString(requestIDKey); id != "" {
		errorResp[FieldRequestID] = id
	}

	if err != nil {
		errorResp[FieldDetails] = err.Error()
		logger.Warn("API error",
			zap.String("message", message),
			zap.Error(err),
			zap.Int("status_code", statusCode))
	}

	c.AbortWithStatusJSON(statusCode, errorResp)
}
