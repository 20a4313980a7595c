package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivanmoure/reelmind/internal/adapter/store"
	"github.com/ivanmoure/reelmind/internal/domain"
	"github.com/ivanmoure/reelmind/internal/port"
)

// RecommendService orchestrates the recommendation pipeline:
// validate → encode → similarity search → hybrid rerank → poster enrichment.
type RecommendService struct {
	encoder   port.Encoder
	posters   port.PosterProvider
	movies    []domain.Movie
	ranker    *HybridRanker
	matrix    [][]float32
	cache     *store.MatrixStore
	shortlist int
}

// NewRecommendService creates a recommendation service over the loaded
// catalog. EnsureEmbeddings must be called before serving requests.
func NewRecommendService(encoder port.Encoder, posters port.PosterProvider, movies []domain.Movie, cache *store.MatrixStore, shortlist, topK int) *RecommendService {
	return &RecommendService{
		encoder:   encoder,
		posters:   posters,
		movies:    movies,
		ranker:    NewHybridRanker(movies, topK),
		cache:     cache,
		shortlist: shortlist,
	}
}

// EnsureEmbeddings loads the embedding matrix from the cache file, or on a
// cold start (or fingerprint mismatch) computes one embedding per movie and
// writes the cache. It runs once at startup; afterwards the matrix is
// immutable, read-only shared state safe for concurrent requests.
func (s *RecommendService) EnsureEmbeddings(ctx context.Context) error {
	if len(s.movies) == 0 {
		return port.ErrEmptyCatalog
	}

	matrix, err := s.cache.Load(s.encoder.ModelName(), len(s.movies))
	if err == nil {
		slog.Info("loaded embedding cache", "movies", len(matrix), "dimension", len(matrix[0]))
		s.matrix = matrix
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("no embedding cache, computing embeddings", "movies", len(s.movies))
	case errors.Is(err, store.ErrCacheMismatch):
		slog.Warn("embedding cache is stale, recomputing", "error", err)
	default:
		slog.Warn("embedding cache unreadable, recomputing", "error", err)
	}

	texts := make([]string, len(s.movies))
	for i, m := range s.movies {
		texts[i] = m.SearchText
	}

	matrix, err = s.encoder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed catalog: %w", err)
	}
	if len(matrix) != len(s.movies) {
		return fmt.Errorf("embed catalog: got %d embeddings for %d movies", len(matrix), len(s.movies))
	}
	dim := 0
	if len(matrix) > 0 {
		dim = len(matrix[0])
	}
	for i, row := range matrix {
		if len(row) != dim || dim == 0 {
			return fmt.Errorf("%w: row %d has dimension %d, want %d", port.ErrDimensionMismatch, i, len(row), dim)
		}
	}

	if err := s.cache.Save(s.encoder.ModelName(), matrix); err != nil {
		return fmt.Errorf("save embedding cache: %w", err)
	}
	slog.Info("embedding cache written", "movies", len(matrix), "dimension", dim)

	s.matrix = matrix
	return nil
}

// Recommend returns the top-K blended recommendations for a free-text query.
// Empty or whitespace-only text returns ErrEmptyQuery before any encoding or
// search work. Poster lookup failures degrade to a null poster per result and
// never fail the request.
func (s *RecommendService) Recommend(ctx context.Context, query string) ([]domain.Recommendation, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, port.ErrEmptyQuery
	}

	queryVector, err := s.encoder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", port.ErrEncodingFailed, err)
	}

	shortlist := TopSimilar(queryVector, s.matrix, s.shortlist)
	ranked := s.ranker.Rerank(shortlist)

	results := make([]domain.Recommendation, len(ranked))
	g, gctx := errgroup.WithContext(ctx)
	for i, rm := range ranked {
		results[i] = domain.Recommendation{
			Title:       rm.Movie.Title,
			Description: rm.Movie.Description,
			Genre:       rm.Movie.Genre,
			Director:    rm.Movie.Director,
			Actors:      rm.Movie.Actors,
			Year:        rm.Movie.Year,
			Rating:      rm.Movie.Rating,
			Runtime:     rm.Movie.Runtime,
			Votes:       rm.Movie.Votes,
			Revenue:     domain.NullableFloat(rm.Movie.Revenue),
			Metascore:   domain.NullableFloat(rm.Movie.Metascore),
			Score:       rm.Similarity,
		}

		g.Go(func() error {
			res, err := s.posters.Lookup(gctx, rm.Movie.Title)
			if err != nil {
				slog.Warn("poster lookup failed", "title", rm.Movie.Title, "error", err)
				return nil
			}
			if res.Found {
				results[i].Poster = &res.URL
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}
