// Package embedding wraps the embedding-generation capability: mapping text
// to a fixed-length numeric vector.
package embedding

import "context"

// Embedder generates a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
