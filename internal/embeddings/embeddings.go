// Package embeddings provides a swappable interface for text embedding generation.
package embeddings

import (
	"context"
	"errors"
)

// Dimensions is the embedding vector size (768 = nomic-embed-text).
// The Qdrant collection is created with this size; a model producing a
// different dimensionality is rejected at embed time.
const Dimensions = 768

// ErrUnavailable is returned when every candidate embedding model failed.
var ErrUnavailable = errors.New("no embedding model available")

// Provider generates text embeddings.
type Provider interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider name for logging.
	Name() string
}
