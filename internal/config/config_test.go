package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.QdrantHost != "qdrant" || cfg.QdrantPort != 6333 {
		t.Errorf("unexpected qdrant defaults: %s:%d", cfg.QdrantHost, cfg.QdrantPort)
	}
	if cfg.OllamaHost != "localhost" {
		t.Errorf("expected default ollama host localhost, got %s", cfg.OllamaHost)
	}
	if cfg.EmbeddingBackend != "ollama" {
		t.Errorf("expected default backend ollama, got %s", cfg.EmbeddingBackend)
	}
	if len(cfg.OllamaModels) != 1 || cfg.OllamaModels[0] != "nomic-embed-text" {
		t.Errorf("expected default model list [nomic-embed-text], got %v", cfg.OllamaModels)
	}
	if cfg.NatsURL != "" {
		t.Errorf("expected NATS disabled by default, got %q", cfg.NatsURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QDRANT_HOST", "vectors.internal")
	t.Setenv("QDRANT_PORT", "7333")
	t.Setenv("OLLAMA_HOST", "gpu-box")
	t.Setenv("OLLAMA_EMBED_MODELS", "nomic-embed-text, all-minilm")
	t.Setenv("KINDRED_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.QdrantURL() != "http://vectors.internal:7333" {
		t.Errorf("unexpected qdrant URL: %s", cfg.QdrantURL())
	}
	if cfg.OllamaHost != "gpu-box" {
		t.Errorf("expected ollama host gpu-box, got %s", cfg.OllamaHost)
	}
	if len(cfg.OllamaModels) != 2 || cfg.OllamaModels[1] != "all-minilm" {
		t.Errorf("expected two models with whitespace trimmed, got %v", cfg.OllamaModels)
	}
	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("QDRANT_PORT", "not-a-port")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.QdrantPort != 6333 {
		t.Errorf("expected fallback to 6333, got %d", cfg.QdrantPort)
	}
}
