package port

import "context"

// Encoder abstracts the embedding model that maps text into a fixed-dimension
// vector space. Implementations can target Ollama, OpenAI, or any compatible
// API. The same Encoder instance must serve both catalog precomputation and
// query encoding so that all vectors share one space.
type Encoder interface {
	// ModelName returns the identifier of the embedding model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
