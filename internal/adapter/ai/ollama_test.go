package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEncoder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "all-minilm", req.Model)
		assert.Equal(t, "space battle", req.Input)

		json.NewEncoder(w).Encode(map[string][][]float32{
			"embeddings": {{0.1, 0.2, 0.3}},
		})
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(OllamaConfig{BaseURL: srv.URL, Model: "all-minilm"})

	vec, err := enc.Embed(context.Background(), "space battle")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOllamaEncoder_EmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Input)

		json.NewEncoder(w).Encode(map[string][][]float32{
			"embeddings": {{1, 0}, {0, 1}},
		})
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(OllamaConfig{BaseURL: srv.URL, Model: "all-minilm"})

	vecs, err := enc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0}, vecs[0])
}

func TestOllamaEncoder_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string][][]float32{"embeddings": {{1}}})
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(OllamaConfig{BaseURL: srv.URL, Model: "all-minilm", Token: "secret"})

	_, err := enc.Embed(context.Background(), "x")
	assert.NoError(t, err)
}

func TestOllamaEncoder_EmptyResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][][]float32{"embeddings": {}})
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(OllamaConfig{BaseURL: srv.URL, Model: "all-minilm"})

	_, err := enc.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "empty response")
}

func TestOllamaEncoder_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	enc := NewOllamaEncoder(OllamaConfig{BaseURL: srv.URL, Model: "nope"})

	_, err := enc.Embed(context.Background(), "x")
	assert.ErrorContains(t, err, "404")
}
