package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaAnswerer answers questions with a local Ollama chat model.
type OllamaAnswerer struct {
	llm   llms.Model
	model string
}

func NewOllamaAnswerer(model, baseURL string) (*OllamaAnswerer, error) {
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

	return &OllamaAnswerer{llm: llm, model: model}, nil
}

func (a *OllamaAnswerer) Answer(ctx context.Context, docContext, question string) (string, error) {
	res, err := a.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, docContext),
		llms.TextParts(schema.ChatMessageTypeHuman, question),
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("ollama generate: no choices returned")
	}
	return res.Choices[0].Content, nil
}

func (a *OllamaAnswerer) ModelName() string {
	return a.model
}
