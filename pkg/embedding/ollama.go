package embedding

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	// maxInputSize caps the text sent to the embeddings endpoint; longer
	// inputs are truncated rather than rejected.
	maxInputSize = 2048

	maxRetries = 3
	baseDelay  = 1 * time.Second
	// perRequestTimeout bounds a single embedding attempt.
	perRequestTimeout = 10 * time.Second
)

// OllamaEmbedder generates embeddings through the Ollama embeddings API.
type OllamaEmbedder struct {
	client    *api.Client
	modelName string
	logger    *zap.Logger
}

// NewOllamaEmbedder creates an embedder for the given Ollama base URL and
// embedding model.
func NewOllamaEmbedder(rawURL, modelName string, logger *zap.Logger) (*OllamaEmbedder, error) {
	if rawURL == "" {
		rawURL = "http://localhost:11434"
	}

	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", rawURL, err)
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &OllamaEmbedder{
		client:    api.NewClient(baseURL, httpClient),
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Embed generates an embedding vector for the input text, retrying with
// exponential backoff on transient failures.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxInputSize {
		text = text[:maxInputSize]
		e.logger.Debug("embedding input truncated", zap.Int("max_chars", maxInputSize))
	}

	req := &api.EmbeddingRequest{
		Model:  e.modelName,
		Prompt: text,
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		resp, err := e.client.Embeddings(reqCtx, req)
		cancel()

		if err == nil {
			vector := make([]float32, len(resp.Embedding))
			for i, v := range resp.Embedding {
				vector[i] = float32(v)
			}
			return vector, nil
		}

		lastErr = err
		retryDelay := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
		e.logger.Warn("embedding attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Duration("retry_in", retryDelay),
			zap.Error(err))

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxRetries, lastErr)
}
