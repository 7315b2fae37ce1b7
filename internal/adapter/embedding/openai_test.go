package embedding

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"docsearch/internal/domain"
)

const testKeyEnv = "DOCSEARCH_TEST_API_KEY"

func newTestEmbedder(t *testing.T, dimension int, handler http.HandlerFunc) *OpenAIEmbedder {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv(testKeyEnv, "test-key")
	e, err := NewOpenAIEmbedder(testKeyEnv, "text-embedding-3-small", srv.URL, dimension)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv(testKeyEnv, "")

	_, err := NewOpenAIEmbedder(testKeyEnv, "text-embedding-3-small", "", 64)
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	e := newTestEmbedder(t, 3, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Input) != 1 || req.Input[0] != "hello" {
			t.Errorf("unexpected input: %v", req.Input)
		}

		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: []float32{0.1, 0.2, 0.3}, Index: 0}},
		})
	})

	vec, err := e.Embed("hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 components, got %d", len(vec))
	}
	if vec[1] != 0.2 {
		t.Errorf("expected component 1 = 0.2, got %f", vec[1])
	}
}

func TestOpenAIEmbedder_DimensionMismatch(t *testing.T) {
	e := newTestEmbedder(t, 64, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{
			Data: []embeddingData{{Embedding: []float32{0.1, 0.2}, Index: 0}},
		})
	})

	_, err := e.Embed("hello")
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestOpenAIEmbedder_APIError(t *testing.T) {
	e := newTestEmbedder(t, 64, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := e.Embed("hello")
	if !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
}

func TestOpenAIEmbedder_TransportError(t *testing.T) {
	t.Setenv(testKeyEnv, "test-key")
	e, err := NewOpenAIEmbedder(testKeyEnv, "text-embedding-3-small", "http://127.0.0.1:1", 64)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Embed("hello"); !errors.Is(err, domain.ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
}
