package retriever

import (
	"context"
	"fmt"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/rag/index"
)

const DefaultTopK = 5

// Retrieval is the outcome of one knowledge lookup. Sufficient is false
// exactly when no chunks came back; there is no score threshold.
type Retrieval struct {
	Query      string
	Chunks     []index.RetrievedChunk
	Sufficient bool
}

// Retriever queries the chunk index for reference material.
type Retriever struct {
	index index.ChunkIndex
	topK  int
	log   logger.ILogger
}

func New(idx index.ChunkIndex, topK int, log logger.ILogger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{index: idx, topK: topK, log: log}
}

// TopK returns the default result count used by RetrieveDefault.
func (r *Retriever) TopK() int {
	return r.topK
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (Retrieval, error) {
	chunks, err := r.index.Search(ctx, query, k)
	if err != nil {
		return Retrieval{Query: query}, fmt.Errorf("retrieve %q: %w", query, err)
	}

	out := Retrieval{
		Query:      query,
		Chunks:     chunks,
		Sufficient: len(chunks) > 0,
	}

	details := map[string]interface{}{
		"query":   query,
		"k":       k,
		"results": len(chunks),
		"sources": Citations(chunks),
	}
	if !out.Sufficient {
		details["kind"] = "RetrievalEmpty"
		r.log.Warn("RETRIEVER", "No reference chunks found", details)
	} else {
		r.log.Info("RETRIEVER", "Reference chunks retrieved", details)
	}
	return out, nil
}

// RetrieveDefault uses the configured top-k.
func (r *Retriever) RetrieveDefault(ctx context.Context, query string) (Retrieval, error) {
	return r.Retrieve(ctx, query, r.topK)
}

// Citations lists each distinct source id once, in first-seen order.
func Citations(chunks []index.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := seen[c.SourceID]; ok {
			continue
		}
		seen[c.SourceID] = struct{}{}
		out = append(out, c.SourceID)
	}
	return out
}
