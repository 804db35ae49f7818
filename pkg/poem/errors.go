package poem

import (
	"errors"
	"fmt"
)

var (
	ErrRequest      = errors.New("poem request failed")
	ErrHTTPStatus   = errors.New("poem service returned non-200 status")
	ErrDecode       = errors.New("poem response decode failed")
	ErrUnsuccessful = errors.New("poem service reported failure")
	ErrEmptyPoem    = errors.New("poem response has empty content")
)

// HTTPStatusError carries the unexpected status code
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Unwrap() error {
	return ErrHTTPStatus
}
