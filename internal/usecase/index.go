package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"docsqa/internal/adapter/memstore"
	"docsqa/internal/domain"
	"docsqa/internal/port"
)

// IndexUseCase builds a ChunkIndex from a corpus directory.
type IndexUseCase struct {
	walker    port.FileWalker
	reader    port.DocumentReader
	segmenter port.Segmenter
	embedder  port.Embedder
	logger    zerolog.Logger
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	walker port.FileWalker,
	reader port.DocumentReader,
	segmenter port.Segmenter,
	embedder port.Embedder,
	logger zerolog.Logger,
) *IndexUseCase {
	return &IndexUseCase{
		walker:    walker,
		reader:    reader,
		segmenter: segmenter,
		embedder:  embedder,
		logger:    logger,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	FilesIndexed  int
	FilesSkipped  int
	ChunksCreated int
	ChunksSkipped int
	Errors        []string
}

// ProgressFunc is called after each chunk is embedded.
type ProgressFunc func(processed, total int, source string)

// Index reads every corpus file under root and builds an index from them.
// Only a failure to list the corpus is returned as an error; unreadable
// files and failed embeddings are recorded in the result and skipped.
func (u *IndexUseCase) Index(ctx context.Context, root string, progress ProgressFunc) (*memstore.ChunkIndex, *IndexResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk corpus: %w", err)
	}

	result := &IndexResult{}
	docs := make([]domain.Document, 0, len(files))
	for _, file := range files {
		doc, err := u.reader.ReadDocument(file.Path)
		if err != nil {
			u.logger.Warn().Err(err).Str("source", file.Path).Msg("skipping unreadable file")
			result.FilesSkipped++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		docs = append(docs, doc)
	}

	idx, err := u.BuildIndex(ctx, docs, result, progress)
	if err != nil {
		return nil, nil, err
	}
	return idx, result, nil
}

// BuildIndex segments each document in order, embeds each chunk in order,
// and appends the chunks that received a non-empty embedding. Calls are
// strictly sequential. It returns early only if ctx is done.
func (u *IndexUseCase) BuildIndex(ctx context.Context, docs []domain.Document, result *IndexResult, progress ProgressFunc) (*memstore.ChunkIndex, error) {
	if result == nil {
		result = &IndexResult{}
	}

	type pending struct {
		source string
		seq    int
		text   string
	}

	var work []pending
	for _, doc := range docs {
		for i, text := range u.segmenter.Chunks(doc.Text) {
			work = append(work, pending{source: doc.Path, seq: i, text: text})
		}
		result.FilesIndexed++
	}

	idx := memstore.NewChunkIndex()
	for i, p := range work {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := u.embedder.Embed(ctx, p.text)
		if err != nil || len(vec) == 0 {
			if err == nil {
				err = domain.ErrEmptyEmbedding
			}
			u.logger.Warn().Err(err).Str("source", p.source).Int("seq", p.seq).Msg("skipping chunk without embedding")
			result.ChunksSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s chunk %d: %v", p.source, p.seq, err))
		} else {
			idx.Append(domain.Chunk{
				Source:    p.source,
				Seq:       p.seq,
				Text:      p.text,
				Embedding: vec,
			})
			result.ChunksCreated++
		}

		if progress != nil {
			progress(i+1, len(work), p.source)
		}
	}

	u.logger.Debug().
		Int("documents", len(docs)).
		Int("chunks", result.ChunksCreated).
		Int("skipped", result.ChunksSkipped).
		Msg("index built")

	return idx, nil
}
