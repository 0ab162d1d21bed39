package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func vectorOf(n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = 0.5
	}
	return v
}

func TestOllamaProvider_Embed(t *testing.T) {
	var gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotModel, gotPrompt = req.Model, req.Prompt
		json.NewEncoder(w).Encode(map[string]any{"embedding": vectorOf(Dimensions)})
	}))
	defer srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"nomic-embed-text"}, testLogger())
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != Dimensions {
		t.Errorf("expected %d dimensions, got %d", Dimensions, len(vec))
	}
	if gotModel != "nomic-embed-text" {
		t.Errorf("expected model nomic-embed-text, got %q", gotModel)
	}
	if gotPrompt != "hello" {
		t.Errorf("expected prompt 'hello', got %q", gotPrompt)
	}
}

func TestOllamaProvider_FallsThroughCandidates(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		if req.Model == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"embedding": vectorOf(Dimensions)})
	}))
	defer srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"broken", "working"}, testLogger())
	vec, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != Dimensions {
		t.Errorf("expected %d dimensions, got %d", Dimensions, len(vec))
	}
	if len(models) != 2 || models[0] != "broken" || models[1] != "working" {
		t.Errorf("expected candidates tried in order [broken working], got %v", models)
	}
}

func TestOllamaProvider_NullEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": nil})
	}))
	defer srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"a"}, testLogger())
	if _, err := p.Embed(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaProvider_WrongDimensionality(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": vectorOf(12)})
	}))
	defer srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"tiny-model"}, testLogger())
	if _, err := p.Embed(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for wrong-size vector, got %v", err)
	}
}

func TestOllamaProvider_AllCandidatesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"a", "b", "c"}, testLogger())
	if _, err := p.Embed(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOllamaProvider_Unreachable(t *testing.T) {
	// Closed server: transport errors also fall through to ErrUnavailable.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewOllamaProviderURL(srv.URL, []string{"a"}, testLogger())
	if _, err := p.Embed(context.Background(), "hello"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
