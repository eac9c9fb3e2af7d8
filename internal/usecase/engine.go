package usecase

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docsqa/internal/adapter/memstore"
	"docsqa/internal/adapter/retriever"
	"docsqa/internal/domain"
	"docsqa/internal/port"
)

type State int32

const (
	StateUninitialized State = iota
	StateIndexBuilt
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIndexBuilt:
		return "index-built"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// invalidator is implemented by embedders that cache results.
type invalidator interface {
	Invalidate()
}

// Engine answers questions against a ChunkIndex. The index is replaced
// whole on rebuild, so queries running concurrently with a rebuild see
// either the old or the new index.
type Engine struct {
	indexer  *IndexUseCase
	embedder port.Embedder
	ranker   *retriever.SimilarityRanker
	answerer port.Answerer
	logger   zerolog.Logger

	index atomic.Pointer[memstore.ChunkIndex]
	state atomic.Int32
}

// NewEngine creates an engine. embedder is used for query embeddings and
// may differ from the one the indexer uses (e.g. a cached wrapper).
func NewEngine(
	indexer *IndexUseCase,
	embedder port.Embedder,
	ranker *retriever.SimilarityRanker,
	answerer port.Answerer,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		indexer:  indexer,
		embedder: embedder,
		ranker:   ranker,
		answerer: answerer,
		logger:   logger,
	}
}

func (e *Engine) State() State {
	return State(e.state.Load())
}

// Build indexes the corpus under root and makes the engine ready.
func (e *Engine) Build(ctx context.Context, root string, progress ProgressFunc) (*IndexResult, error) {
	idx, result, err := e.indexer.Index(ctx, root, progress)
	if err != nil {
		return nil, err
	}
	e.Load(idx)
	return result, nil
}

// Load installs a built index and makes the engine ready. Once ready, the
// engine stays ready: a rebuild only swaps the index pointer.
func (e *Engine) Load(idx *memstore.ChunkIndex) {
	e.index.Store(idx)
	if c, ok := e.embedder.(invalidator); ok {
		c.Invalidate()
	}
	if e.state.CompareAndSwap(int32(StateUninitialized), int32(StateIndexBuilt)) {
		e.state.Store(int32(StateReady))
	}

	e.logger.Info().Int("chunks", idx.Len()).Ints("dimensions", idx.Dimensions()).Msg("engine ready")
}

// Query embeds the question, retrieves the chunks scoring above the
// threshold, and asks the answerer with those chunks as context. Provider
// failures degrade to an empty context or an empty answer; the only error
// is ErrEngineNotReady.
func (e *Engine) Query(ctx context.Context, question string) (domain.Answer, error) {
	ans, _, err := e.query(ctx, question, false)
	return ans, err
}

// Explain answers like Query and also returns every chunk's score against
// the question, in index order. Both come from a single query embedding.
func (e *Engine) Explain(ctx context.Context, question string) (domain.Answer, []domain.Match, error) {
	return e.query(ctx, question, true)
}

func (e *Engine) query(ctx context.Context, question string, explain bool) (domain.Answer, []domain.Match, error) {
	idx := e.index.Load()
	if idx == nil || e.State() != StateReady {
		return domain.Answer{}, nil, domain.ErrEngineNotReady
	}

	ans := domain.Answer{
		ID:       uuid.NewString(),
		Question: question,
	}
	logger := e.logger.With().Str("query_id", ans.ID).Logger()

	var scores []domain.Match
	if qvec, ok := e.embedQuery(ctx, logger, question); ok {
		if explain {
			ans.Matches, scores = e.ranker.RankWithScores(qvec, idx)
		} else {
			ans.Matches = e.ranker.Rank(qvec, idx)
		}
	}
	ans.Context = AssembleContext(ans.Matches)

	text, err := e.answerer.Answer(ctx, ans.Context, question)
	if err != nil {
		logger.Warn().Err(err).Str("model", e.answerer.ModelName()).Msg("answer generation failed")
	}
	ans.Text = text

	logger.Debug().
		Str("question", question).
		Int("matches", len(ans.Matches)).
		Int("context_len", len(ans.Context)).
		Msg("query answered")

	return ans, scores, nil
}

func (e *Engine) embedQuery(ctx context.Context, logger zerolog.Logger, question string) ([]float32, bool) {
	qvec, err := e.embedder.Embed(ctx, question)
	if err != nil || len(qvec) == 0 {
		if err == nil {
			err = domain.ErrEmptyEmbedding
		}
		logger.Warn().Err(err).Str("model", e.embedder.ModelName()).Msg("query embedding failed, answering without context")
		return nil, false
	}
	return qvec, true
}
