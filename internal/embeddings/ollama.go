package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// OllamaProvider generates embeddings by calling a local Ollama instance.
// Candidate models are tried in preference order; the first one that returns
// a usable vector wins.
type OllamaProvider struct {
	baseURL string
	models  []string
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaProvider creates a new Ollama embedding provider.
// host is the Ollama hostname, e.g. "localhost"; the port is the Ollama
// default 11434.
func NewOllamaProvider(host string, models []string, logger *slog.Logger) *OllamaProvider {
	return &OllamaProvider{
		baseURL: fmt.Sprintf("http://%s:11434", host),
		models:  models,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// NewOllamaProviderURL is like NewOllamaProvider but takes a full base URL.
// Used by tests to point at a fake server.
func NewOllamaProviderURL(baseURL string, models []string, logger *slog.Logger) *OllamaProvider {
	p := NewOllamaProvider("", models, logger)
	p.baseURL = baseURL
	return p
}

// Name returns the provider name.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed generates an embedding, falling through the candidate model list on
// any failure. If every candidate fails it returns ErrUnavailable.
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	for _, model := range p.models {
		vec, err := p.embedWith(ctx, model, text)
		if err != nil {
			p.logger.Warn("embedding model failed", "model", model, "error", err)
			continue
		}
		return vec, nil
	}
	return nil, ErrUnavailable
}

func (p *OllamaProvider) embedWith(ctx context.Context, model, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaRequest{Model: model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if result.Embedding == nil {
		return nil, fmt.Errorf("model returned null embedding")
	}
	if len(result.Embedding) != Dimensions {
		return nil, fmt.Errorf("model returned %d dimensions, want %d", len(result.Embedding), Dimensions)
	}

	return result.Embedding, nil
}
