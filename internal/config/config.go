// Package config provides environment-based configuration for Kindred.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Kindred service.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Qdrant (vector store)
	QdrantHost string
	QdrantPort int

	// Embeddings
	EmbeddingBackend string // "ollama" or "simple"
	OllamaHost       string
	OllamaModels     []string // candidate models in preference order

	// NATS event bus (optional; empty disables publishing)
	NatsURL string

	// Rate limiting
	UserRateLimit int           // requests per minute per client
	RateWindow    time.Duration // window for rate limiting
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	c := &Config{
		Port:             envInt("KINDRED_PORT", 8000),
		LogLevel:         envStr("KINDRED_LOG_LEVEL", "info"),
		QdrantHost:       envStr("QDRANT_HOST", "qdrant"),
		QdrantPort:       envInt("QDRANT_PORT", 6333),
		EmbeddingBackend: envStr("EMBEDDING_BACKEND", "ollama"),
		OllamaHost:       envStr("OLLAMA_HOST", "localhost"),
		OllamaModels:     envList("OLLAMA_EMBED_MODELS", "nomic-embed-text"),
		NatsURL:          envStr("NATS_URL", ""),
		UserRateLimit:    envInt("USER_RATE_LIMIT", 120),
		RateWindow:       time.Minute,
	}

	if c.QdrantHost == "" {
		return nil, fmt.Errorf("QDRANT_HOST must not be empty")
	}
	if len(c.OllamaModels) == 0 {
		return nil, fmt.Errorf("OLLAMA_EMBED_MODELS must name at least one model")
	}

	return c, nil
}

// QdrantURL returns the base URL of the Qdrant HTTP API.
func (c *Config) QdrantURL() string {
	return fmt.Sprintf("http://%s:%d", c.QdrantHost, c.QdrantPort)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envList(key, def string) []string {
	raw := envStr(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
