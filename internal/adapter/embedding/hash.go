package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"docsqa/internal/adapter/analyzer"
	"docsqa/internal/domain"
)

// HashEmbedder is an offline embedder. It hashes each token into one of
// dimension buckets with a hash-derived sign and scales the result to unit
// length, so texts with the same tokens score 1.0 against each other.
type HashEmbedder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
}

func NewHashEmbedder(dimension int) *HashEmbedder {
	return &HashEmbedder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(),
	}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	tokens := e.tokenizer.Tokenize(text)
	if len(tokens) == 0 {
		return nil, domain.ErrEmptyEmbedding
	}

	vec := make([]float32, e.dimension)
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		bucket := int(sum % uint64(e.dimension))
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return nil, domain.ErrEmptyEmbedding
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
	return vec, nil
}

func (e *HashEmbedder) ModelName() string {
	return "hash"
}
