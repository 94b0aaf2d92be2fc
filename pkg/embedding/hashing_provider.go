package embedding

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// HashingProvider is an offline embedder: lowercase word and word-bigram
// features are hashed into a fixed-width signed vector and normalized.
// Texts sharing vocabulary land close together under cosine distance.
type HashingProvider struct {
	dims int
}

func NewHashingProvider(dims int) EmbeddingProvider {
	if dims <= 0 {
		dims = Dimensions
	}
	return &HashingProvider{dims: dims}
}

func (p *HashingProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := make([]float32, p.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		p.add(values, tok, 1)
		if i > 0 {
			p.add(values, tokens[i-1]+" "+tok, 0.5)
		}
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: NormalizeVector(values)},
	}, nil
}

func (p *HashingProvider) add(values []float32, feature string, weight float32) {
	h := xxhash.Sum64String(feature)
	idx := int(h % uint64(p.dims))
	if h&(1<<63) != 0 {
		weight = -weight
	}
	values[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
