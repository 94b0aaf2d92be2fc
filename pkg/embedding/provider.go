package embedding

import (
	"context"
	"errors"

	"discharge-care-be/pkg/utils"
)

// Task types understood by providers that embed queries and documents differently.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// ErrEmptyEmbedding is returned when a provider answers 200 without a vector.
var ErrEmptyEmbedding = errors.New("embedding: provider returned no vector")

// Dimensions is the vector width stored by the pgvector index (vector(768)).
const Dimensions = 768

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// HTTPStatusError is returned when an embedding endpoint answers with a non-2xx status.
type HTTPStatusError = utils.HTTPStatusError
