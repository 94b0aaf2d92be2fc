package websearch

import (
	"context"
	"errors"

	"discharge-care-be/pkg/utils"
)

// ProviderNone is reported when no provider could answer.
const ProviderNone = "none"

var (
	ErrMissingAPIKey = errors.New("websearch: api key not configured")
	ErrEmptyQuery    = errors.New("websearch: empty query")
)

// SearchResult is the provider-independent shape of one web hit.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Result is what Fallback.Search hands back to the clinical pipeline.
type Result struct {
	Results      []SearchResult `json:"results"`
	ProviderUsed string         `json:"provider_used"`
}

// Provider is a single search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// HTTPStatusError reports a non-2xx answer from a search API.
type HTTPStatusError = utils.HTTPStatusError

// retryable reports whether another attempt against the same provider
// could succeed. Client errors other than rate limiting are final.
func retryable(err error) bool {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return !errors.Is(err, ErrMissingAPIKey) && !errors.Is(err, context.Canceled)
}
