package domain

import "errors"

var (
	// ErrEngineNotReady is returned when a query is issued before the index is built.
	ErrEngineNotReady = errors.New("engine not ready: index has not been built")

	// ErrEmptyEmbedding marks a provider response that carried no vector.
	ErrEmptyEmbedding = errors.New("empty embedding")
)
