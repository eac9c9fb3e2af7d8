package port

import "context"

// Embedder turns text into a vector. A nil or empty vector, or a non-nil
// error, means the text could not be embedded.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}
