// Package index stores reference-document chunks with their embeddings and
// answers nearest-neighbour queries over them.
package index

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"discharge-care-be/pkg/utils"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrEmptyDocument = errors.New("index: document has no text")
	ErrMissingSource = errors.New("index: document has no source id")
	ErrEmbedding     = errors.New("index: embedding failed")
)

// Document is raw reference text to be chunked and indexed.
type Document struct {
	SourceID string
	Text     string
	Metadata map[string]string
}

// IndexResult describes what Index did. Skipped is true when the source
// already holds this exact content and nothing was written.
type IndexResult struct {
	SourceID    string `json:"source_id"`
	ContentHash string `json:"content_hash"`
	Chunks      int    `json:"chunks"`
	Skipped     bool   `json:"skipped"`
}

// RetrievedChunk is one search hit. Lower Distance means more relevant.
type RetrievedChunk struct {
	Text        string  `json:"text"`
	SourceID    string  `json:"source_id"`
	ChunkIndex  int     `json:"chunk_index"`
	ContentHash string  `json:"content_hash"`
	Distance    float64 `json:"distance"`
}

// ChunkIndex is safe for concurrent use. Writes are serialized; searches
// may run alongside each other and alongside the embedding phase of a write.
type ChunkIndex interface {
	Index(ctx context.Context, doc Document) (IndexResult, error)
	Search(ctx context.Context, query string, k int) ([]RetrievedChunk, error)
	Count(ctx context.Context) (int64, error)
	Reset(ctx context.Context) error
}

// Options control chunking.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:    utils.DefaultChunkSize,
		ChunkOverlap: utils.DefaultChunkOverlap,
	}
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = utils.DefaultChunkSize
	}
	if o.ChunkOverlap < 0 {
		o.ChunkOverlap = 0
	}
	return o
}

// ContentHash fingerprints the full document text.
func ContentHash(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func validate(doc Document) error {
	if strings.TrimSpace(doc.SourceID) == "" {
		return ErrMissingSource
	}
	if strings.TrimSpace(doc.Text) == "" {
		return ErrEmptyDocument
	}
	return nil
}
