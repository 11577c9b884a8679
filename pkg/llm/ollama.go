package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/andrew/listing-rag/pkg/models"
)

// OllamaClient talks to a local Ollama server for chat completions.
type OllamaClient struct {
	client    *api.Client
	modelName string
}

// NewOllamaClient creates a chat client for the given Ollama base URL and
// model name.
func NewOllamaClient(rawURL, modelName string) (*OllamaClient, error) {
	if rawURL == "" {
		rawURL = "http://localhost:11434"
	}

	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL %q: %w", rawURL, err)
	}

	httpClient := &http.Client{
		Timeout: 5 * time.Minute, // generations can take a while
	}

	return &OllamaClient{
		client:    api.NewClient(baseURL, httpClient),
		modelName: modelName,
	}, nil
}

// Chat sends the full conversation to the model and returns its reply.
func (c *OllamaClient) Chat(ctx context.Context, messages []models.Message, config ModelConfig) (models.Message, error) {
	ollamaMessages := make([]api.Message, len(messages))
	for i, msg := range messages {
		ollamaMessages[i] = api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.modelName,
		Messages: ollamaMessages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": config.Temperature,
			"num_predict": config.MaxTokens,
		},
	}
	if config.TopP > 0 {
		req.Options["top_p"] = config.TopP
	}

	var reply strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("ollama chat failed: %w", err)
	}

	return models.Message{
		Role:      models.RoleAssistant,
		Content:   reply.String(),
		Timestamp: time.Now(),
	}, nil
}

// Close cleans up any resources
func (c *OllamaClient) Close() error {
	return nil
}
