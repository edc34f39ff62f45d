package llm

import (
	"errors"
	"fmt"
)

// Error classes for completion calls. Only the rate-limit class is worth
// retrying; everything else describes a request that will not succeed
// unmodified.
var (
	// ErrRateLimited signals a provider congestion response (HTTP 429).
	ErrRateLimited = errors.New("rate limited by completion provider")

	// ErrTimeout signals a transport timeout or an expired deadline.
	ErrTimeout = errors.New("completion request timed out")
)

// APIError is a non-retryable provider-side failure: any non-2xx status
// other than 429, or an error payload inside a 2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion api error: %s", e.Message)
}
