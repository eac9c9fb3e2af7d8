package embedding

import (
	"fmt"

	"docsqa/config"
	"docsqa/internal/port"
)

// New builds the embedder selected by cfg.Provider.
func New(cfg config.EmbeddingConfig, apiKey string) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIEmbedder(apiKey, cfg.Model, cfg.BaseURL), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.Model, cfg.BaseURL)
	case "hash":
		return NewHashEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
