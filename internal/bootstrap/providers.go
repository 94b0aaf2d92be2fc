package bootstrap

import (
	"context"
	"net/http"
	"time"

	"discharge-care-be/internal/config"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/embedding/jina"
	"discharge-care-be/pkg/llm"
	"discharge-care-be/pkg/llm/factory"
	"discharge-care-be/pkg/rag/index"
	"discharge-care-be/pkg/websearch"

	"github.com/redis/go-redis/v9"
)

func NewEmbeddingProvider(cfg *config.Config, log logger.ILogger) embedding.EmbeddingProvider {
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		log.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "ollama", "model": cfg.Ai.OllamaModel})
		return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		log.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "jina"})
		return jina.NewJinaProvider(cfg.Keys.Jina)
	case "gemini":
		log.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "gemini"})
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	default:
		log.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "local", "dims": embedding.Dimensions})
		return embedding.NewHashingProvider(embedding.Dimensions)
	}
}

// NewChunkIndex picks the index backend from INDEX_BACKEND. uowFactory is
// only read by the pgvector backend and may be nil for the memory one.
func NewChunkIndex(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) index.ChunkIndex {
	opts := index.Options{ChunkSize: cfg.Rag.ChunkSize, ChunkOverlap: cfg.Rag.ChunkOverlap}

	var chunkIndex index.ChunkIndex
	if cfg.Rag.IndexBackend == "pgvector" {
		chunkIndex = index.NewPgVectorIndex(uowFactory, embedder, opts, log)
	} else {
		chunkIndex = index.NewMemoryIndex(embedder, opts, log)
	}
	log.Info("BOOTSTRAP", "Chunk index ready", map[string]interface{}{"backend": cfg.Rag.IndexBackend})
	return chunkIndex
}

// NewWebSearch builds the fallback chain. cache may be nil.
func NewWebSearch(cfg *config.Config, cache websearch.Cache, log logger.ILogger) *websearch.Fallback {
	return websearch.NewFallback(websearch.FallbackConfig{
		Timeout:     cfg.Search.Timeout,
		MaxAttempts: cfg.Search.MaxAttempts,
		MaxResults:  cfg.Search.MaxResults,
		RetryDelay:  300 * time.Millisecond,
	}, log, cache, newSearchProviders(cfg, log)...)
}

// newLLMProvider stops the process when the configured provider cannot be
// built; nothing in the assistant works without one.
func newLLMProvider(cfg *config.Config, log *logger.ZapLogger) llm.LLMProvider {
	baseURL := cfg.Ai.LLMBaseURL
	apiKey := cfg.Keys.OpenAI
	switch cfg.Ai.LLMProvider {
	case "ollama":
		if baseURL == "" {
			baseURL = cfg.Ai.OllamaBaseURL
		}
	case "huggingface":
		apiKey = cfg.Keys.HuggingFace
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, baseURL, apiKey)
	if err != nil {
		log.Error("BOOTSTRAP", "Failed to initialize LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    err.Error(),
		})
		_ = log.Sync()
		panic(err)
	}
	log.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})
	return provider
}

// newSearchProviders returns Tavily (when it can be built) followed by
// DuckDuckGo. A Tavily init failure only removes it from the chain.
func newSearchProviders(cfg *config.Config, log logger.ILogger) []websearch.Provider {
	client := &http.Client{Timeout: cfg.Search.Timeout}
	providers := make([]websearch.Provider, 0, 2)

	tavily, err := websearch.NewTavilyProvider(cfg.Keys.Tavily, websearch.WithTavilyHTTPClient(client))
	if err != nil {
		log.Warn("BOOTSTRAP", "Tavily unavailable, web search falls back to DuckDuckGo", map[string]interface{}{"error": err.Error()})
	} else {
		providers = append(providers, tavily)
	}

	return append(providers, websearch.NewDuckDuckGoProvider("", client))
}

// NewRedisClient returns nil when url is empty or the server does not answer a ping.
func NewRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unreachable, web search cache disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
