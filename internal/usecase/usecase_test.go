package usecase

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"docsqa/config"
	"docsqa/internal/adapter/cache"
	"docsqa/internal/adapter/chunker"
	"docsqa/internal/adapter/fs"
	"docsqa/internal/adapter/memstore"
	"docsqa/internal/adapter/retriever"
	"docsqa/internal/domain"
	"docsqa/internal/port"
)

// tableEmbedder returns a fixed vector per text; unknown texts get fallback.
type tableEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	fail     map[string]bool
	calls    []string
}

func (e *tableEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, text)
	if e.fail[text] {
		return nil, errors.New("transport error")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.fallback, nil
}

func (e *tableEmbedder) ModelName() string { return "table" }

type recordingAnswerer struct {
	mu        sync.Mutex
	contexts  []string
	questions []string
	reply     string
	err       error
}

func (a *recordingAnswerer) Answer(_ context.Context, docContext, question string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.contexts = append(a.contexts, docContext)
	a.questions = append(a.questions, question)
	if a.err != nil {
		return "", a.err
	}
	return a.reply, nil
}

func (a *recordingAnswerer) ModelName() string { return "recording" }

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newEngine(emb port.Embedder, ans port.Answerer) *Engine {
	cfg := config.DefaultConfig()
	logger := zerolog.Nop()
	indexer := NewIndexUseCase(
		fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes),
		fs.NewReader(),
		chunker.NewSentenceChunker(cfg.Index.MaxChunkSize, cfg.Index.SanitizeInput),
		emb,
		logger,
	)
	ranker := retriever.NewSimilarityRanker(cfg.Retrieve, logger)
	return NewEngine(indexer, emb, ranker, ans, logger)
}

func TestAssembleContext(t *testing.T) {
	if got := AssembleContext(nil); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}

	got := AssembleContext([]domain.Match{{Text: "one."}, {Text: "two."}, {Text: "three."}})
	if got != "one. two. three." {
		t.Errorf("unexpected context %q", got)
	}
}

func TestEngineSingleChunkSelfSimilarity(t *testing.T) {
	text := "The cat sat. The dog ran. Birds fly."
	dir := writeCorpus(t, map[string]string{"animals.txt": text})

	emb := &tableEmbedder{vectors: map[string][]float32{
		text:           {0.6, 0.8},
		"Who sat down?": {0.6, 0.8},
	}}
	ans := &recordingAnswerer{reply: "The cat."}
	engine := newEngine(emb, ans)

	result, err := engine.Build(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.ChunksCreated != 1 {
		t.Fatalf("expected 1 chunk, got %d", result.ChunksCreated)
	}

	got, err := engine.Query(context.Background(), "Who sat down?")
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got.Matches))
	}
	if math.Abs(float64(got.Matches[0].Score)-1) > 1e-6 {
		t.Errorf("expected self-similarity 1.0, got %f", got.Matches[0].Score)
	}
	if got.Context != text {
		t.Errorf("expected context %q, got %q", text, got.Context)
	}
	if got.Text != "The cat." {
		t.Errorf("unexpected answer %q", got.Text)
	}
	if got.ID == "" {
		t.Error("expected query id")
	}
	if len(ans.contexts) != 1 || ans.contexts[0] != text || ans.questions[0] != "Who sat down?" {
		t.Errorf("answerer got context %q question %q", ans.contexts, ans.questions)
	}
}

func TestEngineEmptyIndexStillAnswers(t *testing.T) {
	dir := writeCorpus(t, nil)

	emb := &tableEmbedder{fallback: []float32{1, 0}}
	ans := &recordingAnswerer{reply: "I don't know."}
	engine := newEngine(emb, ans)

	if _, err := engine.Build(context.Background(), dir, nil); err != nil {
		t.Fatal(err)
	}

	got, err := engine.Query(context.Background(), "What is the definition of sports?")
	if err != nil {
		t.Fatal(err)
	}
	if len(ans.contexts) != 1 {
		t.Fatalf("answerer should be called once, got %d", len(ans.contexts))
	}
	if ans.contexts[0] != "" {
		t.Errorf("expected empty context, got %q", ans.contexts[0])
	}
	if got.Text != "I don't know." {
		t.Errorf("unexpected answer %q", got.Text)
	}
}

func TestEngineMixedDimensions(t *testing.T) {
	idx := memstore.NewChunkIndex()
	idx.Append(domain.Chunk{Text: "three dims", Embedding: []float32{1, 0, 0}})
	idx.Append(domain.Chunk{Text: "two dims", Embedding: []float32{0.9, 0.1}})

	emb := &tableEmbedder{fallback: []float32{1, 0}}
	ans := &recordingAnswerer{}
	engine := newEngine(emb, ans)
	engine.Load(idx)

	got, err := engine.Query(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Matches) != 1 || got.Matches[0].Text != "two dims" {
		t.Fatalf("expected only the comparable chunk, got %+v", got.Matches)
	}

	explained, scores, err := engine.Explain(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(explained.Matches) != 1 {
		t.Errorf("explain should rank like query, got %+v", explained.Matches)
	}
	if len(scores) != 2 || scores[0].Score != 0 {
		t.Errorf("mismatched chunk should be listed with score 0, got %+v", scores)
	}
	if math.Abs(float64(scores[1].Score)-0.9) > 1e-6 {
		t.Errorf("expected 0.9 for comparable chunk, got %f", scores[1].Score)
	}
}

func TestEngineNotReady(t *testing.T) {
	engine := newEngine(&tableEmbedder{}, &recordingAnswerer{})

	if engine.State() != StateUninitialized {
		t.Errorf("expected uninitialized, got %s", engine.State())
	}
	if _, err := engine.Query(context.Background(), "q"); !errors.Is(err, domain.ErrEngineNotReady) {
		t.Errorf("expected ErrEngineNotReady, got %v", err)
	}
	if _, _, err := engine.Explain(context.Background(), "q"); !errors.Is(err, domain.ErrEngineNotReady) {
		t.Errorf("expected ErrEngineNotReady, got %v", err)
	}

	engine.Load(memstore.NewChunkIndex())
	if engine.State() != StateReady {
		t.Errorf("expected ready, got %s", engine.State())
	}
}

func TestEngineBuildMissingCorpus(t *testing.T) {
	engine := newEngine(&tableEmbedder{}, &recordingAnswerer{})

	if _, err := engine.Build(context.Background(), filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing corpus")
	}
	if engine.State() != StateUninitialized {
		t.Errorf("failed build must not make the engine ready, got %s", engine.State())
	}
}

func TestEngineAnswerFailureDegrades(t *testing.T) {
	emb := &tableEmbedder{fallback: []float32{1}}
	ans := &recordingAnswerer{err: errors.New("rate limited")}
	engine := newEngine(emb, ans)
	engine.Load(memstore.NewChunkIndex())

	got, err := engine.Query(context.Background(), "q")
	if err != nil {
		t.Fatalf("answer failure should not be returned, got %v", err)
	}
	if got.Text != "" {
		t.Errorf("expected empty answer, got %q", got.Text)
	}
}

func TestEngineQueryEmbeddingFailure(t *testing.T) {
	idx := memstore.NewChunkIndex()
	idx.Append(domain.Chunk{Text: "chunk", Embedding: []float32{1}})

	emb := &tableEmbedder{fallback: []float32{1}, fail: map[string]bool{"q": true}}
	ans := &recordingAnswerer{reply: "fallback"}
	engine := newEngine(emb, ans)
	engine.Load(idx)

	got, err := engine.Query(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Matches) != 0 || got.Context != "" {
		t.Errorf("expected no context after embedding failure, got %+v", got)
	}
	if len(ans.contexts) != 1 {
		t.Error("answerer should still be called")
	}
}

func TestIndexSkipsFailedEmbeddings(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"a.txt": "Good text.",
		"b.txt": "Bad text.",
		"c.txt": "More good text.",
	})

	emb := &tableEmbedder{
		fallback: []float32{1, 0},
		fail:     map[string]bool{"Bad text.": true},
		vectors:  map[string][]float32{"More good text.": {}},
	}
	indexer := NewIndexUseCase(fs.NewWalker([]string{"*.txt"}, nil), fs.NewReader(), chunker.NewSentenceChunker(100, true), emb, zerolog.Nop())

	var progressCalls int
	idx, result, err := indexer.Index(context.Background(), dir, func(processed, total int, source string) {
		progressCalls++
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if idx.Len() != 1 || idx.At(0).Text != "Good text." {
		t.Errorf("expected only the good chunk, got %+v", idx.Chunks())
	}
	if result.ChunksSkipped != 2 || result.ChunksCreated != 1 || result.FilesIndexed != 3 {
		t.Errorf("unexpected result %+v", result)
	}
	if progressCalls != 3 {
		t.Errorf("expected 3 progress calls, got %d", progressCalls)
	}

	// one embedding call per chunk, in corpus order
	want := []string{"Good text.", "Bad text.", "More good text."}
	for i, text := range want {
		if emb.calls[i] != text {
			t.Errorf("call %d embedded %q, want %q", i, emb.calls[i], text)
		}
	}
}

func TestIndexSanitizesBeforeChunking(t *testing.T) {
	emb := &tableEmbedder{fallback: []float32{1}}
	indexer := NewIndexUseCase(nil, nil, chunker.NewSentenceChunker(100, true), emb, zerolog.Nop())

	idx, err := indexer.BuildIndex(context.Background(), []domain.Document{
		{Path: "x.txt", Text: "Costs $5 (approx).\nDone."},
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 || idx.At(0).Text != "Costs 5 approx. Done." {
		t.Errorf("unexpected chunks %+v", idx.Chunks())
	}
}

func TestIndexCancelled(t *testing.T) {
	emb := &tableEmbedder{fallback: []float32{1}}
	indexer := NewIndexUseCase(nil, nil, chunker.NewSentenceChunker(100, true), emb, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := indexer.BuildIndex(ctx, []domain.Document{{Text: "One."}}, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngineRebuildInvalidatesQueryCache(t *testing.T) {
	inner := &tableEmbedder{fallback: []float32{1}}
	cached := cache.NewCachedEmbedder(inner, cache.NewEmbeddingCache(10, 0))
	logger := zerolog.Nop()
	engine := NewEngine(nil, cached, retriever.NewSimilarityRanker(config.DefaultConfig().Retrieve, logger), &recordingAnswerer{}, logger)

	engine.Load(memstore.NewChunkIndex())
	engine.Query(context.Background(), "q")
	engine.Query(context.Background(), "q")
	if len(inner.calls) != 1 {
		t.Fatalf("expected cached query embedding, got %d calls", len(inner.calls))
	}

	engine.Load(memstore.NewChunkIndex())
	engine.Query(context.Background(), "q")
	if len(inner.calls) != 2 {
		t.Errorf("expected refetch after rebuild, got %d calls", len(inner.calls))
	}
}

func TestEngineConcurrentQueries(t *testing.T) {
	idx := memstore.NewChunkIndex()
	idx.Append(domain.Chunk{Text: "chunk", Embedding: []float32{1}})

	engine := newEngine(&tableEmbedder{fallback: []float32{1}}, &recordingAnswerer{reply: "ok"})
	engine.Load(idx)

	stop := make(chan struct{})
	var failures atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := engine.Query(context.Background(), "q"); err != nil {
					failures.Add(1)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		rebuilt := memstore.NewChunkIndex()
		rebuilt.Append(domain.Chunk{Text: "chunk", Embedding: []float32{1}})
		engine.Load(rebuilt)
		if engine.State() != StateReady {
			t.Fatalf("rebuild left the engine %s", engine.State())
		}
	}
	close(stop)
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Errorf("%d queries failed while the index was being swapped", n)
	}
}

func TestEngineExplainEmbedsOnce(t *testing.T) {
	idx := memstore.NewChunkIndex()
	idx.Append(domain.Chunk{Text: "close", Embedding: []float32{1, 0}})
	idx.Append(domain.Chunk{Text: "far", Embedding: []float32{0, 1}})

	emb := &tableEmbedder{fallback: []float32{1, 0}}
	engine := newEngine(emb, &recordingAnswerer{reply: "ok"})
	engine.Load(idx)

	ans, scores, err := engine.Explain(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if len(emb.calls) != 1 {
		t.Errorf("expected one query embedding, got %d", len(emb.calls))
	}
	if len(scores) != 2 {
		t.Fatalf("expected a score for every chunk, got %+v", scores)
	}
	if len(ans.Matches) != 1 || ans.Matches[0].Text != "close" {
		t.Errorf("expected only the close chunk as context, got %+v", ans.Matches)
	}
	if ans.Context != "close" {
		t.Errorf("unexpected context %q", ans.Context)
	}
}
