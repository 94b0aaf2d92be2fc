package websearch

import (
	"context"
	"strings"
	"time"

	"discharge-care-be/internal/pkg/logger"

	"github.com/avast/retry-go/v4"
)

type FallbackConfig struct {
	Timeout     time.Duration // per provider attempt
	MaxAttempts int
	RetryDelay  time.Duration
	MaxResults  int
}

func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		Timeout:     15 * time.Second,
		MaxAttempts: 2,
		RetryDelay:  300 * time.Millisecond,
		MaxResults:  3,
	}
}

// Fallback tries each provider in order until one returns results.
type Fallback struct {
	providers []Provider
	cache     Cache
	cfg       FallbackConfig
	log       logger.ILogger
}

func NewFallback(cfg FallbackConfig, log logger.ILogger, cache Cache, providers ...Provider) *Fallback {
	def := DefaultFallbackConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = def.MaxResults
	}

	live := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			live = append(live, p)
		}
	}
	return &Fallback{providers: live, cache: cache, cfg: cfg, log: log}
}

// Providers lists configured provider names in fallback order.
func (f *Fallback) Providers() []string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}
	return names
}

// Search never fails. When no provider answers it returns an empty result
// list with ProviderUsed set to ProviderNone.
func (f *Fallback) Search(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		f.log.Warn("WEBSEARCH", "Empty query, skipping web search", map[string]interface{}{
			"kind": "FallbackUnavailable",
		})
		return Result{Results: []SearchResult{}, ProviderUsed: ProviderNone}
	}

	if f.cache != nil {
		if cached, ok := f.cache.Get(ctx, query); ok {
			f.log.Debug("WEBSEARCH", "Cache hit", map[string]interface{}{"query": query, "provider": cached.ProviderUsed})
			return cached
		}
	}

	answered := ""
	failures := map[string]interface{}{}
	for _, p := range f.providers {
		results, err := f.searchWithRetry(ctx, p, query)
		if err != nil {
			failures[p.Name()] = err.Error()
			f.log.Warn("WEBSEARCH", "Provider failed, trying next", map[string]interface{}{
				"provider": p.Name(),
				"query":    query,
				"error":    err.Error(),
			})
			continue
		}
		if answered == "" {
			answered = p.Name()
		}
		if len(results) == 0 {
			f.log.Info("WEBSEARCH", "Provider returned no results", map[string]interface{}{"provider": p.Name(), "query": query})
			continue
		}

		res := Result{Results: results, ProviderUsed: p.Name()}
		if f.cache != nil {
			f.cache.Set(ctx, query, res)
		}
		f.log.Info("WEBSEARCH", "Web search completed", map[string]interface{}{
			"provider": p.Name(),
			"query":    query,
			"results":  len(results),
		})
		return res
	}

	if answered != "" {
		return Result{Results: []SearchResult{}, ProviderUsed: answered}
	}

	f.log.Error("WEBSEARCH", "All web search providers unavailable", map[string]interface{}{
		"kind":      "FallbackUnavailable",
		"query":     query,
		"providers": f.Providers(),
		"failures":  failures,
	})
	return Result{Results: []SearchResult{}, ProviderUsed: ProviderNone}
}

func (f *Fallback) searchWithRetry(ctx context.Context, p Provider, query string) ([]SearchResult, error) {
	var results []SearchResult
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
			defer cancel()

			out, err := p.Search(attemptCtx, query, f.cfg.MaxResults)
			if err != nil {
				return err
			}
			results = out
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(f.cfg.MaxAttempts)),
		retry.Delay(f.cfg.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return nil, err
	}
	if len(results) > f.cfg.MaxResults {
		results = results[:f.cfg.MaxResults]
	}
	return results, nil
}
