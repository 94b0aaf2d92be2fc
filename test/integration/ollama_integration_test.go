package integration

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama when OLLAMA_INTEGRATION=1.
// Models: LLM_MODEL (default llama3), OLLAMA_EMBEDDING_MODEL (default nomic-embed-text).
func ollamaEnv(t *testing.T) (baseURL, chatModel, embedModel string) {
	t.Helper()
	if os.Getenv("OLLAMA_INTEGRATION") != "1" {
		t.Skip("Skipping Ollama integration test: OLLAMA_INTEGRATION != 1")
	}

	baseURL = envOr("OLLAMA_BASE_URL", "http://localhost:11434")
	chatModel = envOr("LLM_MODEL", "llama3")
	embedModel = envOr("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text")
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestOllamaChat(t *testing.T) {
	baseURL, model, _ := ollamaEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := ollama.NewOllamaProvider(baseURL, model)
	reply, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Answer with a single word."},
		{Role: llm.RoleUser, Content: "What colour is a clear daytime sky?"},
	}, llm.WithTemperature(0))
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(reply))
	t.Logf("reply: %s", reply)
}

func TestOllamaEmbedding(t *testing.T) {
	baseURL, _, model := ollamaEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	provider := embedding.NewOllamaProvider(baseURL, model)
	res, err := provider.Generate(ctx, "Take your antibiotics with food.", embedding.TaskRetrievalDocument)
	require.NoError(t, err)
	assert.Len(t, res.Embedding.Values, embedding.Dimensions)
}
