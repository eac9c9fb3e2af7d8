package retriever

import (
	"github.com/rs/zerolog"

	"docsqa/config"
	"docsqa/internal/adapter/memstore"
	"docsqa/internal/domain"
)

// Dot returns the dot product of a and b. ok is false when the vectors
// differ in length, in which case the score is 0.
func Dot(a, b []float32) (score float32, ok bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return float32(sum), true
}

// SimilarityRanker scores every chunk of an index against a query embedding
// by raw dot product. Vectors are not normalized.
type SimilarityRanker struct {
	threshold  float32
	onMismatch string
	logger     zerolog.Logger
}

func NewSimilarityRanker(cfg config.RetrieveConfig, logger zerolog.Logger) *SimilarityRanker {
	return &SimilarityRanker{
		threshold:  float32(cfg.Threshold),
		onMismatch: cfg.OnDimensionMismatch,
		logger:     logger,
	}
}

// Rank returns the chunks scoring strictly above the threshold, in index
// order. A chunk whose embedding length differs from the query's is never
// returned.
func (r *SimilarityRanker) Rank(query []float32, index *memstore.ChunkIndex) []domain.Match {
	var matches []domain.Match
	r.score(query, index, func(m domain.Match, comparable bool) {
		if comparable && m.Score > r.threshold {
			matches = append(matches, m)
		}
	})
	return matches
}

// Scores returns the score of every chunk in index order, for inspection.
// Mismatched chunks appear with score 0 under the zero_score policy and are
// left out under the skip policy.
func (r *SimilarityRanker) Scores(query []float32, index *memstore.ChunkIndex) []domain.Match {
	var matches []domain.Match
	r.score(query, index, func(m domain.Match, comparable bool) {
		if comparable || r.onMismatch != config.MismatchSkip {
			matches = append(matches, m)
		}
	})
	return matches
}

// RankWithScores returns what Rank and Scores would, from one pass over
// the index.
func (r *SimilarityRanker) RankWithScores(query []float32, index *memstore.ChunkIndex) (matches, scores []domain.Match) {
	r.score(query, index, func(m domain.Match, comparable bool) {
		if comparable && m.Score > r.threshold {
			matches = append(matches, m)
		}
		if comparable || r.onMismatch != config.MismatchSkip {
			scores = append(scores, m)
		}
	})
	return matches, scores
}

func (r *SimilarityRanker) score(query []float32, index *memstore.ChunkIndex, emit func(domain.Match, bool)) {
	for i := 0; i < index.Len(); i++ {
		chunk := index.At(i)
		score, ok := Dot(query, chunk.Embedding)
		if !ok {
			r.logger.Warn().
				Int("position", i).
				Str("source", chunk.Source).
				Int("query_dim", len(query)).
				Int("chunk_dim", len(chunk.Embedding)).
				Str("policy", r.onMismatch).
				Msg("embedding dimension mismatch")
		}
		emit(domain.Match{
			Position: i,
			Source:   chunk.Source,
			Text:     chunk.Text,
			Score:    score,
		}, ok)
	}
}
