package retriever

import (
	"context"
	"errors"
	"testing"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/rag/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenIndex struct {
	index.ChunkIndex
}

func (brokenIndex) Search(ctx context.Context, query string, k int) ([]index.RetrievedChunk, error) {
	return nil, errors.New("vector store offline")
}

func TestCitations(t *testing.T) {
	tests := []struct {
		name   string
		chunks []index.RetrievedChunk
		want   []string
	}{
		{name: "empty", chunks: nil, want: []string{}},
		{
			name: "dedup keeps first-seen order",
			chunks: []index.RetrievedChunk{
				{SourceID: "b.txt"}, {SourceID: "a.txt"}, {SourceID: "b.txt"}, {SourceID: "c.txt"}, {SourceID: "a.txt"},
			},
			want: []string{"b.txt", "a.txt", "c.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Citations(tt.chunks))
		})
	}
}

func TestRetrieveSufficiency(t *testing.T) {
	ctx := context.Background()
	idx := index.NewMemoryIndex(embedding.NewHashingProvider(128), index.DefaultOptions(), logger.NewNopLogger())
	r := New(idx, 0, logger.NewNopLogger())
	assert.Equal(t, DefaultTopK, r.TopK())

	empty, err := r.RetrieveDefault(ctx, "what should I eat")
	require.NoError(t, err)
	assert.False(t, empty.Sufficient)
	assert.Empty(t, empty.Chunks)

	_, err = idx.Index(ctx, index.Document{SourceID: "diet.txt", Text: "Eat a low sodium diet."})
	require.NoError(t, err)

	got, err := r.Retrieve(ctx, "what should I eat", 3)
	require.NoError(t, err)
	assert.True(t, got.Sufficient)
	assert.Len(t, got.Chunks, 1)

	zero, err := r.Retrieve(ctx, "diet", 0)
	require.NoError(t, err)
	assert.False(t, zero.Sufficient)
}

func TestRetrievePropagatesIndexError(t *testing.T) {
	r := New(brokenIndex{}, 3, logger.NewNopLogger())

	got, err := r.Retrieve(context.Background(), "q", 3)
	assert.Error(t, err)
	assert.False(t, got.Sufficient)
}
