package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"docsqa/internal/domain"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaEmbedder embeds text with a local Ollama server.
type OllamaEmbedder struct {
	embedder embeddings.Embedder
	model    string
}

func NewOllamaEmbedder(model, baseURL string) (*OllamaEmbedder, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create ollama embedder: %w", err)
	}

	return &OllamaEmbedder{embedder: embedder, model: model}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	if len(vec) == 0 {
		return nil, domain.ErrEmptyEmbedding
	}
	return vec, nil
}

func (e *OllamaEmbedder) ModelName() string {
	return e.model
}
