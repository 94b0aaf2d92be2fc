package contract

import (
	"context"

	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/repository/specification"
)

// ScoredDocumentChunk wraps a chunk with its cosine distance to the query
type ScoredDocumentChunk struct {
	Chunk    *entity.DocumentChunk
	Distance float64 // 0.0 = identical direction, 2.0 = opposite
}

type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteBySourceId(ctx context.Context, sourceId string) error
	DeleteAll(ctx context.Context) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchNearest orders by cosine distance, then insertion order.
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
