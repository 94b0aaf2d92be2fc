package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DuckDuckGoName     = "duckduckgo"
	duckDuckGoEndpoint = "https://api.duckduckgo.com/"
)

// DuckDuckGoProvider queries the keyless Instant Answer API.
type DuckDuckGoProvider struct {
	endpoint string
	client   *http.Client
}

func NewDuckDuckGoProvider(endpoint string, client *http.Client) *DuckDuckGoProvider {
	if endpoint == "" {
		endpoint = duckDuckGoEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DuckDuckGoProvider{endpoint: endpoint, client: client}
}

func (p *DuckDuckGoProvider) Name() string {
	return DuckDuckGoName
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "discharge-care-be/1.0")

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
		return nil, &HTTPStatusError{Provider: DuckDuckGoName, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return parseInstantAnswer(body, maxResults), nil
}

// parseInstantAnswer flattens the abstract and related topics, including
// topics nested one level deep under category groups.
func parseInstantAnswer(body []byte, maxResults int) []SearchResult {
	if maxResults <= 0 {
		maxResults = 3
	}
	doc := gjson.ParseBytes(body)
	results := make([]SearchResult, 0, maxResults)

	if abstract := doc.Get("AbstractText").String(); abstract != "" {
		results = append(results, SearchResult{
			Title:   doc.Get("AbstractSource").String(),
			Snippet: abstract,
			URL:     doc.Get("AbstractURL").String(),
		})
	}

	var addTopic func(topic gjson.Result) bool
	addTopic = func(topic gjson.Result) bool {
		if len(results) >= maxResults {
			return false
		}
		if nested := topic.Get("Topics"); nested.IsArray() {
			nested.ForEach(func(_, t gjson.Result) bool { return addTopic(t) })
			return len(results) < maxResults
		}
		text := topic.Get("Text").String()
		link := topic.Get("FirstURL").String()
		if text == "" || link == "" {
			return true
		}
		results = append(results, SearchResult{
			Title:   topicTitle(text),
			Snippet: text,
			URL:     link,
		})
		return true
	}
	doc.Get("RelatedTopics").ForEach(func(_, t gjson.Result) bool { return addTopic(t) })

	return results
}

// topicTitle uses the part before " - " as the title, capped at 100 runes.
func topicTitle(text string) string {
	title := text
	if i := strings.Index(title, " - "); i > 0 {
		title = title[:i]
	}
	if r := []rune(title); len(r) > 100 {
		title = string(r[:100])
	}
	return title
}
