package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	TavilyName     = "tavily"
	tavilyEndpoint = "https://api.tavily.com/search"
)

type tavilyRequest struct {
	APIKey            string `json:"api_key"`
	Query             string `json:"query"`
	SearchDepth       string `json:"search_depth"`
	MaxResults        int    `json:"max_results"`
	IncludeAnswer     bool   `json:"include_answer"`
	IncludeRawContent bool   `json:"include_raw_content"`
}

type TavilyProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

type TavilyOption func(*TavilyProvider)

func WithTavilyEndpoint(endpoint string) TavilyOption {
	return func(p *TavilyProvider) {
		p.endpoint = endpoint
	}
}

func WithTavilyHTTPClient(client *http.Client) TavilyOption {
	return func(p *TavilyProvider) {
		p.client = client
	}
}

// NewTavilyProvider fails when no API key is configured so the caller can
// move on to the next provider at startup.
func NewTavilyProvider(apiKey string, opts ...TavilyOption) (*TavilyProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tavily: %w", ErrMissingAPIKey)
	}
	p := &TavilyProvider{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *TavilyProvider) Name() string {
	return TavilyName
}

func (p *TavilyProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	payload, err := json.Marshal(tavilyRequest{
		APIKey:        p.apiKey,
		Query:         query,
		SearchDepth:   "advanced",
		MaxResults:    maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{Provider: TavilyName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	results := Normalize(body)
	if len(results) > maxResults && maxResults > 0 {
		results = results[:maxResults]
	}
	return results, nil
}
