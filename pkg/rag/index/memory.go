package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/utils"
)

type memoryEntry struct {
	chunk  RetrievedChunk
	vector []float32
}

// MemoryIndex is an in-process ChunkIndex using exact cosine distance.
// Entries keep insertion order, which breaks distance ties.
type MemoryIndex struct {
	embedder embedding.EmbeddingProvider
	opts     Options
	log      logger.ILogger

	writeMu sync.Mutex // one Index/Reset at a time

	mu      sync.RWMutex
	entries []memoryEntry
	hashes  map[string]string // source id -> content hash
}

var _ ChunkIndex = (*MemoryIndex)(nil)

func NewMemoryIndex(embedder embedding.EmbeddingProvider, opts Options, log logger.ILogger) *MemoryIndex {
	return &MemoryIndex{
		embedder: embedder,
		opts:     opts.withDefaults(),
		log:      log,
		hashes:   make(map[string]string),
	}
}

func (m *MemoryIndex) Index(ctx context.Context, doc Document) (IndexResult, error) {
	if err := validate(doc); err != nil {
		return IndexResult{}, err
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	hash := ContentHash(doc.Text)
	result := IndexResult{SourceID: doc.SourceID, ContentHash: hash}

	m.mu.RLock()
	seen := m.hashes[doc.SourceID] == hash
	m.mu.RUnlock()
	if seen {
		result.Skipped = true
		m.log.Info("INDEX", "Document already indexed, skipping", map[string]interface{}{
			"source_id": doc.SourceID, "content_hash": hash,
		})
		return result, nil
	}

	// Embedding happens outside the read lock so searches are not blocked.
	chunks := utils.SplitText(doc.Text, m.opts.ChunkSize, m.opts.ChunkOverlap)
	fresh := make([]memoryEntry, 0, len(chunks))
	for i, text := range chunks {
		res, err := m.embedder.Generate(ctx, text, embedding.TaskRetrievalDocument)
		if err != nil {
			return IndexResult{}, fmt.Errorf("%w: chunk %d of %s: %v", ErrEmbedding, i, doc.SourceID, err)
		}
		fresh = append(fresh, memoryEntry{
			chunk: RetrievedChunk{
				Text:        text,
				SourceID:    doc.SourceID,
				ChunkIndex:  i,
				ContentHash: hash,
			},
			vector: res.Embedding.Values,
		})
	}

	m.mu.Lock()
	// A new version of a source replaces the old one.
	kept := m.entries[:0:0]
	for _, e := range m.entries {
		if e.chunk.SourceID != doc.SourceID {
			kept = append(kept, e)
		}
	}
	m.entries = append(kept, fresh...)
	m.hashes[doc.SourceID] = hash
	m.mu.Unlock()

	result.Chunks = len(fresh)
	m.log.Info("INDEX", "Document indexed", map[string]interface{}{
		"source_id": doc.SourceID, "chunks": len(fresh), "content_hash": hash,
	})
	return result, nil
}

func (m *MemoryIndex) Search(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	if k <= 0 {
		return []RetrievedChunk{}, nil
	}

	m.mu.RLock()
	empty := len(m.entries) == 0
	m.mu.RUnlock()
	if empty {
		return []RetrievedChunk{}, nil
	}

	res, err := m.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrEmbedding, err)
	}
	qv := res.Embedding.Values

	m.mu.RLock()
	hits := make([]RetrievedChunk, len(m.entries))
	for i, e := range m.entries {
		hit := e.chunk
		hit.Distance = CosineDistance(qv, e.vector)
		hits[i] = hit
	}
	m.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *MemoryIndex) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	m.entries = nil
	m.hashes = make(map[string]string)
	m.mu.Unlock()
	return nil
}

// CosineDistance returns 1 - cos(a, b), in [0, 2]. Mismatched or zero
// vectors are treated as orthogonal.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
