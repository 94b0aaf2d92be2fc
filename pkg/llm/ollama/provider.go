package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"discharge-care-be/pkg/llm"

	"github.com/tidwall/gjson"
)

var ErrEmptyReply = errors.New("ollama: model returned an empty message")

// OllamaProvider calls the non-streaming /api/chat endpoint of a local Ollama.
type OllamaProvider struct {
	baseURL   string
	model     string
	keepAlive string
	client    *http.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

type ProviderOption func(*OllamaProvider)

func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *OllamaProvider) {
		p.client = c
	}
}

// WithKeepAlive controls how long Ollama keeps the model loaded between
// turns ("5m", "1h", "-1"). Empty leaves the server default.
func WithKeepAlive(d string) ProviderOption {
	return func(p *OllamaProvider) {
		p.keepAlive = d
	}
}

func NewOllamaProvider(baseURL, modelName string, opts ...ProviderOption) *OllamaProvider {
	p := &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	Stream    bool          `json:"stream"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   modelOptions  `json:"options"`
}

type modelOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Model:       o.model,
		Temperature: 0.3,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Gemini-style "model" turns are accepted from callers; Ollama only knows "assistant".
	messages := make([]llm.Message, len(history))
	for i, msg := range history {
		if msg.Role == "model" {
			msg.Role = llm.RoleAssistant
		}
		messages[i] = msg
	}

	payload, err := json.Marshal(chatRequest{
		Model:     options.Model,
		Messages:  messages,
		KeepAlive: o.keepAlive,
		Options: modelOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &llm.HTTPStatusError{Provider: "ollama", StatusCode: resp.StatusCode, Body: string(body)}
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("ollama returned invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if msg := doc.Get("error").String(); msg != "" {
		return "", fmt.Errorf("ollama api returned error: %s", msg)
	}

	content := doc.Get("message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyReply
	}
	return content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
