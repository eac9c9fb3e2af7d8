package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"docsqa/config"
	"docsqa/internal/adapter/answer"
	"docsqa/internal/adapter/cache"
	"docsqa/internal/adapter/chunker"
	"docsqa/internal/adapter/embedding"
	"docsqa/internal/adapter/fs"
	"docsqa/internal/adapter/retriever"
	"docsqa/internal/port"
	"docsqa/internal/usecase"
)

// newEngine wires the pipeline described by cfg. A missing API key is
// reported here, before any document is read or any query is made.
func newEngine(cfg *config.Config, logger zerolog.Logger) (*usecase.Engine, error) {
	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.New(cfg.Embedding, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	answerer, err := answer.New(cfg.Answer, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create answerer: %w", err)
	}

	// only query embeddings are cached; corpus chunks are embedded once per build
	var queryEmbedder port.Embedder = embedder
	if cfg.Embedding.CacheSize > 0 {
		queryEmbedder = cache.NewCachedEmbedder(embedder, cache.NewEmbeddingCache(cfg.Embedding.CacheSize, cfg.Embedding.CacheTTL))
	}

	indexer := usecase.NewIndexUseCase(
		fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes),
		fs.NewReader(),
		chunker.NewSentenceChunker(cfg.Index.MaxChunkSize, cfg.Index.SanitizeInput),
		embedder,
		logger,
	)

	return usecase.NewEngine(
		indexer,
		queryEmbedder,
		retriever.NewSimilarityRanker(cfg.Retrieve, logger),
		answerer,
		logger,
	), nil
}
