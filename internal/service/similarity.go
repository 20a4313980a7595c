package service

import (
	"math"
	"sort"

	"github.com/ivanmoure/reelmind/internal/domain"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction, and 0
// when either vector has zero norm or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopSimilar scores the query vector against every row of the embedding
// matrix and returns the m highest-scoring catalog indices, descending by
// similarity with ties broken by ascending index. The catalog is small enough
// that a full O(N·D) pass per query beats maintaining an index.
func TopSimilar(query []float32, matrix [][]float32, m int) []domain.ScoredMovie {
	scored := make([]domain.ScoredMovie, len(matrix))
	for i, row := range matrix {
		scored[i] = domain.ScoredMovie{Index: i, Similarity: CosineSimilarity(query, row)}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Index < scored[j].Index
	})

	if m > 0 && len(scored) > m {
		scored = scored[:m]
	}
	return scored
}
