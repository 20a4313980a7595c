package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaConfig holds the configuration for an Ollama embed endpoint.
type OllamaConfig struct {
	BaseURL string // e.g. http://localhost:11434 or https://api.ollama.com
	Model   string // e.g. all-minilm, bge-m3
	Token   string // Bearer token for Ollama Cloud (empty = no auth)
}

// OllamaEncoder implements port.Encoder using the Ollama REST API.
// For a fixed model version the API returns identical vectors for identical
// input, so encoding is deterministic within one process.
type OllamaEncoder struct {
	cfg        OllamaConfig
	httpClient *http.Client
}

// NewOllamaEncoder creates a new Ollama-backed encoder.
func NewOllamaEncoder(cfg OllamaConfig) *OllamaEncoder {
	return &OllamaEncoder{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// ModelName returns the embedding model identifier.
func (o *OllamaEncoder) ModelName() string {
	return o.cfg.Model
}

// Embed generates a vector embedding for the given text.
func (o *OllamaEncoder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]interface{}{
		"model": o.cfg.Model,
		"input": text,
	}

	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed decode: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama embed: empty response")
	}

	return resp.Embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (o *OllamaEncoder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]interface{}{
		"model": o.cfg.Model,
		"input": texts,
	}

	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("ollama embed batch: %w", err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed batch decode: %w", err)
	}

	return resp.Embeddings, nil
}

// post is a helper for POST requests to the Ollama endpoint (with optional bearer token).
func (o *OllamaEncoder) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.Token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
