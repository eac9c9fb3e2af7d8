package answer

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAnswerer answers questions with an OpenAI-compatible chat completion.
type OpenAIAnswerer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnswerer(apiKey, model, baseURL string) *OpenAIAnswerer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAnswerer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Answer sends the context as the system message and the question as the
// user message, and returns the first choice.
func (a *OpenAIAnswerer) Answer(ctx context.Context, docContext, question string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: docContext},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *OpenAIAnswerer) ModelName() string {
	return a.model
}
