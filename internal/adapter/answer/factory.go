package answer

import (
	"fmt"

	"docsqa/config"
	"docsqa/internal/port"
)

// New builds the answerer selected by cfg.Provider.
func New(cfg config.AnswerConfig, apiKey string) (port.Answerer, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAnswerer(apiKey, cfg.Model, cfg.BaseURL), nil
	case "ollama":
		return NewOllamaAnswerer(cfg.Model, cfg.BaseURL)
	case "echo":
		return NewEchoAnswerer(), nil
	default:
		return nil, fmt.Errorf("unsupported answer provider: %s", cfg.Provider)
	}
}
