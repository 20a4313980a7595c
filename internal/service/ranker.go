package service

import (
	"sort"

	"github.com/ivanmoure/reelmind/internal/domain"
)

// Blend weights. Pure semantic similarity over-favors obscure movies whose
// text happens to match; a light popularity prior damps that without
// discarding the semantic ranking.
const (
	blendAlpha   = 0.8
	ratingWeight = 0.3
	votesWeight  = 0.2
)

// HybridRanker re-scores a similarity shortlist by blending each movie's
// similarity with a popularity prior derived from rating and vote count.
type HybridRanker struct {
	movies   []domain.Movie
	maxVotes float64
	topK     int
}

// NewHybridRanker creates a ranker over the full catalog. The maximum vote
// count is computed here once, not per request.
func NewHybridRanker(movies []domain.Movie, topK int) *HybridRanker {
	maxVotes := 0.0
	for _, m := range movies {
		if v := float64(m.Votes); v > maxVotes {
			maxVotes = v
		}
	}
	return &HybridRanker{movies: movies, maxVotes: maxVotes, topK: topK}
}

// Rerank selects the topK shortlisted movies by blended score, descending,
// with ties broken by ascending catalog index.
func (r *HybridRanker) Rerank(shortlist []domain.ScoredMovie) []domain.RankedMovie {
	ranked := make([]domain.RankedMovie, 0, len(shortlist))
	for _, s := range shortlist {
		movie := r.movies[s.Index]
		ranked = append(ranked, domain.RankedMovie{
			Movie:      movie,
			Similarity: s.Similarity,
			Blended:    blendAlpha*s.Similarity + (1-blendAlpha)*r.popularity(movie),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Blended != ranked[j].Blended {
			return ranked[i].Blended > ranked[j].Blended
		}
		return ranked[i].Movie.Index < ranked[j].Movie.Index
	})

	if r.topK > 0 && len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}
	return ranked
}

// popularity computes the query-independent prior from rating and votes.
func (r *HybridRanker) popularity(m domain.Movie) float64 {
	p := ratingWeight * (m.Rating / 10)
	if r.maxVotes > 0 {
		p += votesWeight * (float64(m.Votes) / r.maxVotes)
	}
	return p
}
