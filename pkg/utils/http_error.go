package utils

import (
	"fmt"
	"net/http"
)

// HTTPStatusError reports a non-2xx answer from an upstream HTTP API
// (model, embedding or search endpoint).
type HTTPStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s error: status %d, body: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary is true for rate limiting and server errors.
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
