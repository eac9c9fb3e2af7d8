package port

import "context"

// Answerer generates an answer to a question from a block of context.
// The context goes in as the system message, the question as the user message.
type Answerer interface {
	Answer(ctx context.Context, docContext, question string) (string, error)

	ModelName() string
}
