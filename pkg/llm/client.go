package llm

import (
	"context"

	"github.com/andrew/listing-rag/pkg/models"
)

// Client is the interface for the text-generation capability: it accepts an
// ordered message history and returns the assistant's reply.
type Client interface {
	Chat(ctx context.Context, messages []models.Message, config ModelConfig) (models.Message, error)
	Close() error
}

// ModelConfig holds configuration parameters for model generation
type ModelConfig struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// DefaultModelConfig returns the near-deterministic defaults used for
// grounded answer synthesis: low temperature, bounded response length.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Temperature: 0.3,
		MaxTokens:   800,
	}
}
