package contrast

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
)

// RateLimitError is returned when the platform answers 429.
type RateLimitError struct {
	RetryAt time.Time
	URL     string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("contrast: rate limit exceeded, retry after %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap maps the error onto domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError is a non-2xx platform response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("contrast: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap maps the status code onto a domain error so callers can use
// errors.Is without knowing about this package.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return domain.ErrAuthInvalid
	case e.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusBadRequest:
		return domain.ErrInvalidInput
	case e.StatusCode >= http.StatusInternalServerError:
		return domain.ErrPlatformUnavailable
	default:
		return nil
	}
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
