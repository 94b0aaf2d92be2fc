package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("AGENT_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, 1000, cfg.Rag.ChunkSize)
	assert.Equal(t, 200, cfg.Rag.ChunkOverlap)
	assert.Equal(t, 90*time.Second, cfg.Ai.AgentTimeout)
	assert.Equal(t, "INDEX_DOCUMENT", cfg.Keys.IndexTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("TOP_K", "3")
	t.Setenv("INDEX_BACKEND", "PGVECTOR")
	t.Setenv("WEBSEARCH_TIMEOUT", "5s")
	t.Setenv("AGENT_TIMEOUT", "45")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 500, cfg.Rag.ChunkSize)
	assert.Equal(t, 3, cfg.Rag.TopK)
	assert.Equal(t, "pgvector", cfg.Rag.IndexBackend)
	assert.Equal(t, 5*time.Second, cfg.Search.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Ai.AgentTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "go duration", value: "2m", want: 2 * time.Minute},
		{name: "plain seconds", value: "10", want: 10 * time.Second},
		{name: "garbage falls back", value: "soon", want: time.Minute},
		{name: "empty falls back", value: "", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Minute))
		})
	}
}
