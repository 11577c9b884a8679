// Package config loads application configuration from the environment.
// Logical parameters accept several env var aliases (older deployments used
// different names); aliases are resolved once here, at startup, so the rest
// of the code only ever sees the canonical fields.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Ollama    OllamaConfig
	Qdrant    QdrantConfig
	Retrieval RetrievalConfig
	LogLevel  string
}

// OllamaConfig holds connection and model settings for the Ollama server
type OllamaConfig struct {
	URL        string
	ChatModel  string
	EmbedModel string
}

// QdrantConfig holds Qdrant connection settings
type QdrantConfig struct {
	Addr       string
	Collection string
	VectorSize int
}

// RetrievalConfig holds the knobs of the retrieval pipeline
type RetrievalConfig struct {
	Limit         int     // max results returned per search
	Candidates    int     // candidate pool size for the ANN search
	MinScore      float64 // minimum similarity score for a candidate
	ContextWindow int     // conversation turns folded into the retrieval query
	Temperature   float64 // generation temperature
	MaxTokens     int     // generation response cap
}

// New loads configuration from the environment, resolving aliases and
// validating before any turn is processed.
func New() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Ollama: OllamaConfig{
			URL:        getEnvAny([]string{"OLLAMA_HOST", "OLLAMA_API_URL"}, "http://localhost:11434"),
			ChatModel:  getEnvAny([]string{"OLLAMA_MODEL", "CHAT_MODEL"}, "llama3"),
			EmbedModel: getEnvAny([]string{"OLLAMA_EMBED_MODEL", "EMBED_MODEL"}, "llama3"),
		},
		Qdrant: QdrantConfig{
			Addr:       qdrantAddr(),
			Collection: getEnvAny([]string{"QDRANT_COLLECTION", "VECTOR_COLLECTION"}, "airbnb_listings"),
			VectorSize: getEnvAsInt("QDRANT_VECTOR_SIZE", 4096),
		},
		Retrieval: RetrievalConfig{
			Limit:         getEnvAsInt("RETRIEVAL_LIMIT", 5),
			Candidates:    getEnvAsInt("RETRIEVAL_CANDIDATES", 400),
			MinScore:      getEnvAsFloat("RETRIEVAL_MIN_SCORE", 0.50),
			ContextWindow: getEnvAsInt("RETRIEVAL_CONTEXT_WINDOW", 4),
			Temperature:   getEnvAsFloat("GENERATION_TEMPERATURE", 0.3),
			MaxTokens:     getEnvAsInt("GENERATION_MAX_TOKENS", 800),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required connection parameters and pipeline
// bounds are usable. Failures here are fatal at startup.
func (c *Config) Validate() error {
	if c.Ollama.URL == "" {
		return fmt.Errorf("ollama URL is required (OLLAMA_HOST or OLLAMA_API_URL)")
	}
	if c.Ollama.ChatModel == "" || c.Ollama.EmbedModel == "" {
		return fmt.Errorf("ollama chat and embedding models are required")
	}
	if c.Qdrant.Addr == "" {
		return fmt.Errorf("qdrant address is required (QDRANT_ADDR or QDRANT_HOST/QDRANT_PORT)")
	}
	if c.Qdrant.Collection == "" {
		return fmt.Errorf("qdrant collection name is required")
	}
	if c.Qdrant.VectorSize <= 0 {
		return fmt.Errorf("vector size must be positive, got %d", c.Qdrant.VectorSize)
	}
	if c.Retrieval.Limit <= 0 {
		return fmt.Errorf("retrieval limit must be positive, got %d", c.Retrieval.Limit)
	}
	if c.Retrieval.Candidates < c.Retrieval.Limit {
		return fmt.Errorf("candidate pool (%d) must be at least the retrieval limit (%d)",
			c.Retrieval.Candidates, c.Retrieval.Limit)
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1 {
		return fmt.Errorf("minimum score must be within [0,1], got %v", c.Retrieval.MinScore)
	}
	if c.Retrieval.ContextWindow <= 0 {
		return fmt.Errorf("context window must be positive, got %d", c.Retrieval.ContextWindow)
	}
	if c.Retrieval.MaxTokens <= 0 {
		return fmt.Errorf("generation max tokens must be positive, got %d", c.Retrieval.MaxTokens)
	}
	return nil
}

// qdrantAddr resolves the Qdrant address from QDRANT_ADDR, falling back to
// QDRANT_HOST/QDRANT_PORT pairs.
func qdrantAddr() string {
	if addr := os.Getenv("QDRANT_ADDR"); addr != "" {
		return addr
	}
	host := getEnv("QDRANT_HOST", "localhost")
	port := getEnvAsInt("QDRANT_PORT", 6334)
	return fmt.Sprintf("%s:%d", host, port)
}

// Helper functions

// getEnvAny returns the first non-empty env var among keys, in priority order.
func getEnvAny(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
