package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/specification"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/utils"

	"github.com/google/uuid"
)

// PgVectorIndex persists chunks in the document_chunks table and delegates
// nearest-neighbour search to pgvector's cosine operator.
type PgVectorIndex struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   embedding.EmbeddingProvider
	opts       Options
	log        logger.ILogger

	writeMu sync.Mutex
}

var _ ChunkIndex = (*PgVectorIndex)(nil)

func NewPgVectorIndex(
	uowFactory unitofwork.RepositoryFactory,
	embedder embedding.EmbeddingProvider,
	opts Options,
	log logger.ILogger,
) *PgVectorIndex {
	return &PgVectorIndex{
		uowFactory: uowFactory,
		embedder:   embedder,
		opts:       opts.withDefaults(),
		log:        log,
	}
}

func (p *PgVectorIndex) Index(ctx context.Context, doc Document) (IndexResult, error) {
	if err := validate(doc); err != nil {
		return IndexResult{}, err
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	hash := ContentHash(doc.Text)
	result := IndexResult{SourceID: doc.SourceID, ContentHash: hash}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.DocumentChunkRepository().FindOne(ctx,
		specification.BySourceID{SourceID: doc.SourceID},
		specification.ByContentHash{Hash: hash},
	)
	if err != nil {
		return IndexResult{}, fmt.Errorf("lookup content hash: %w", err)
	}
	if existing != nil {
		result.Skipped = true
		p.log.Info("INDEX", "Document already indexed, skipping", map[string]interface{}{
			"source_id": doc.SourceID, "content_hash": hash,
		})
		return result, nil
	}

	chunks := utils.SplitText(doc.Text, p.opts.ChunkSize, p.opts.ChunkOverlap)
	now := time.Now()
	rows := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, text := range chunks {
		res, err := p.embedder.Generate(ctx, text, embedding.TaskRetrievalDocument)
		if err != nil {
			return IndexResult{}, fmt.Errorf("%w: chunk %d of %s: %v", ErrEmbedding, i, doc.SourceID, err)
		}

		meta := map[string]interface{}{
			"sourceId":    doc.SourceID,
			"chunkIndex":  i,
			"contentHash": hash,
		}
		for k, v := range doc.Metadata {
			if _, reserved := meta[k]; !reserved {
				meta[k] = v
			}
		}

		rows = append(rows, &entity.DocumentChunk{
			Id:             uuid.New(),
			SourceId:       doc.SourceID,
			ChunkIndex:     i,
			ContentHash:    hash,
			Document:       text,
			EmbeddingValue: res.Embedding.Values,
			Metadata:       meta,
			CreatedAt:      now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return IndexResult{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.DocumentChunkRepository().DeleteBySourceId(ctx, doc.SourceID); err != nil {
		return IndexResult{}, fmt.Errorf("delete previous chunks: %w", err)
	}
	if err := uow.DocumentChunkRepository().CreateBulk(ctx, rows); err != nil {
		return IndexResult{}, fmt.Errorf("insert chunks: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return IndexResult{}, fmt.Errorf("commit: %w", err)
	}

	result.Chunks = len(rows)
	p.log.Info("INDEX", "Document indexed", map[string]interface{}{
		"source_id": doc.SourceID, "chunks": len(rows), "content_hash": hash,
	})
	return result, nil
}

func (p *PgVectorIndex) Search(ctx context.Context, query string, k int) ([]RetrievedChunk, error) {
	if k <= 0 {
		return []RetrievedChunk{}, nil
	}

	res, err := p.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrEmbedding, err)
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.DocumentChunkRepository().SearchNearest(ctx, res.Embedding.Values, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]RetrievedChunk, len(scored))
	for i, s := range scored {
		hits[i] = RetrievedChunk{
			Text:        s.Chunk.Document,
			SourceID:    s.Chunk.SourceId,
			ChunkIndex:  s.Chunk.ChunkIndex,
			ContentHash: s.Chunk.ContentHash,
			Distance:    s.Distance,
		}
	}
	return hits, nil
}

func (p *PgVectorIndex) Count(ctx context.Context) (int64, error) {
	return p.uowFactory.NewUnitOfWork(ctx).DocumentChunkRepository().Count(ctx)
}

func (p *PgVectorIndex) Reset(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.uowFactory.NewUnitOfWork(ctx).DocumentChunkRepository().DeleteAll(ctx)
}
