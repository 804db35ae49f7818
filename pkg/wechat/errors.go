package wechat

import (
	"errors"
	"fmt"
)

// Define sentinel errors using errors.New to create immutable error instances
var (
	// ErrWebhookURLEmpty indicates webhook URL is empty
	ErrWebhookURLEmpty = errors.New("wechat work webhook URL not configured")

	// ErrInvalidImage indicates the image cannot be sent as an image message
	ErrInvalidImage = errors.New("invalid image for wechat work message")

	// ErrMarshalMessage indicates message serialization failed
	ErrMarshalMessage = errors.New("failed to serialize message")

	// ErrSendRequest indicates HTTP request sending failed
	ErrSendRequest = errors.New("failed to send HTTP request")

	// ErrUnmarshalResponse indicates response parsing failed
	ErrUnmarshalResponse = errors.New("failed to parse response")
)

// APIError represents WeChat Work API error type
type APIError struct {
	Code    int    `json:"errcode"`
	Message string `json:"errmsg"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("wechat work API error: %d %s", e.Code, e.Message)
}

// HTTPError represents HTTP error type
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP request failed: %d %s, response: %s",
		e.StatusCode, e.Status, e.Body)
}

// RetryError represents retry error type
type RetryError struct {
	Attempts int
	LastErr  error
}

// Error implements the error interface
func (e *RetryError) Error() string {
	return fmt.Sprintf("failed to send wechat work message after %d attempts: %v",
		e.Attempts, e.LastErr)
}

// Unwrap supports errors.Unwrap
func (e *RetryError) Unwrap() error {
	return e.LastErr
}

// retryable reports whether another attempt could succeed
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// 45009: 接口调用超过限制
		return apiErr.Code == 45009 || apiErr.Code == -1
	}
	return !errors.Is(err, ErrInvalidImage) && !errors.Is(err, ErrWebhookURLEmpty) && !errors.Is(err, ErrMarshalMessage)
}
