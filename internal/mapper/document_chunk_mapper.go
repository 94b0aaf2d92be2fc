package mapper

import (
	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:             c.Id,
		SourceId:       c.SourceId,
		ChunkIndex:     c.ChunkIndex,
		ContentHash:    c.ContentHash,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		Metadata:       map[string]interface{}(c.Metadata),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}
	return &model.DocumentChunk{
		Id:             c.Id,
		SourceId:       c.SourceId,
		ChunkIndex:     c.ChunkIndex,
		ContentHash:    c.ContentHash,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		Metadata:       c.Metadata,
		CreatedAt:      c.CreatedAt,
	}
}
