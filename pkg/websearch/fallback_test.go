package websearch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"discharge-care-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	name    string
	results []SearchResult
	err     error
	mu      sync.Mutex
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.results, s.err
}

type mapCache struct {
	entries map[string]Result
}

func (c *mapCache) Get(ctx context.Context, query string) (Result, bool) {
	r, ok := c.entries[CacheKey(query)]
	return r, ok
}

func (c *mapCache) Set(ctx context.Context, query string, result Result) {
	c.entries[CacheKey(query)] = result
}

func testConfig() FallbackConfig {
	return FallbackConfig{Timeout: time.Second, MaxAttempts: 2, RetryDelay: 0, MaxResults: 2}
}

func TestFallbackUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []SearchResult{{Title: "p"}}}
	secondary := &stubProvider{name: "duckduckgo", results: []SearchResult{{Title: "s"}}}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary, secondary).Search(context.Background(), "q")

	assert.Equal(t, "tavily", got.ProviderUsed)
	assert.Equal(t, []SearchResult{{Title: "p"}}, got.Results)
	assert.Zero(t, secondary.calls)
}

func TestFallbackMovesToSecondaryOnFailure(t *testing.T) {
	primary := &stubProvider{name: "tavily", err: &HTTPStatusError{Provider: "tavily", StatusCode: http.StatusBadGateway}}
	secondary := &stubProvider{name: "duckduckgo", results: []SearchResult{{Title: "s1"}, {Title: "s2"}, {Title: "s3"}}}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary, secondary).Search(context.Background(), "q")

	assert.Equal(t, "duckduckgo", got.ProviderUsed)
	assert.Len(t, got.Results, 2)
	assert.Equal(t, 2, primary.calls, "5xx should be retried up to the attempt cap")
}

func TestFallbackDoesNotRetryClientErrors(t *testing.T) {
	primary := &stubProvider{name: "tavily", err: &HTTPStatusError{Provider: "tavily", StatusCode: http.StatusUnauthorized}}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary).Search(context.Background(), "q")

	assert.Equal(t, ProviderNone, got.ProviderUsed)
	assert.Equal(t, 1, primary.calls)
}

func TestFallbackAllUnavailable(t *testing.T) {
	primary := &stubProvider{name: "tavily", err: errors.New("dial tcp: connection refused")}
	secondary := &stubProvider{name: "duckduckgo", err: errors.New("timeout")}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary, secondary).Search(context.Background(), "q")

	assert.Equal(t, ProviderNone, got.ProviderUsed)
	assert.NotNil(t, got.Results)
	assert.Empty(t, got.Results)
}

func TestFallbackNoProviders(t *testing.T) {
	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, nil).Search(context.Background(), "q")

	assert.Equal(t, ProviderNone, got.ProviderUsed)
	assert.Empty(t, got.Results)
}

func TestFallbackEmptyResultsTriesNextProvider(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []SearchResult{}}
	secondary := &stubProvider{name: "duckduckgo", results: []SearchResult{}}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary, secondary).Search(context.Background(), "q")

	assert.Equal(t, "tavily", got.ProviderUsed)
	assert.Empty(t, got.Results)
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackEmptyQuery(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []SearchResult{{Title: "p"}}}

	got := NewFallback(testConfig(), logger.NewNopLogger(), nil, primary).Search(context.Background(), "   ")

	assert.Equal(t, ProviderNone, got.ProviderUsed)
	assert.Zero(t, primary.calls)
}

func TestFallbackCachesResults(t *testing.T) {
	primary := &stubProvider{name: "tavily", results: []SearchResult{{Title: "p"}}}
	cache := &mapCache{entries: map[string]Result{}}
	f := NewFallback(testConfig(), logger.NewNopLogger(), cache, primary)

	first := f.Search(context.Background(), "Leg swelling")
	second := f.Search(context.Background(), "leg  swelling")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, primary.calls)
}
