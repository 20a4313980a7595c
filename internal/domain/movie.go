package domain

import "math"

// Movie is one catalog entry with a fixed schema.
// Index is the movie's row position in the catalog and the sole join key
// between the catalog and its embedding row.
type Movie struct {
	Index       int     `json:"index"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Genre       string  `json:"genre"`
	Director    string  `json:"director"`
	Actors      string  `json:"actors"`
	Year        int     `json:"year"`
	Runtime     int     `json:"runtime"`
	Rating      float64 `json:"rating"`
	Votes       int     `json:"votes"`
	Revenue     float64 `json:"-"` // millions, NaN when absent
	Metascore   float64 `json:"-"` // NaN when absent

	// SearchText is the concatenated text fed to the encoder. It is never
	// returned to callers.
	SearchText string `json:"-"`
}

// ScoredMovie pairs a catalog index with its cosine similarity to a query.
type ScoredMovie struct {
	Index      int
	Similarity float64
}

// RankedMovie is a shortlist entry after hybrid re-ranking.
type RankedMovie struct {
	Movie      Movie
	Similarity float64
	Blended    float64
}

// Recommendation is a single response entry, in final rank order.
// Revenue and Metascore are null when absent from the catalog; Poster is
// null when the image lookup found no match or failed.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director"`
	Actors      string   `json:"actors"`
	Year        int      `json:"year"`
	Rating      float64  `json:"rating"`
	Runtime     int      `json:"runtime"`
	Votes       int      `json:"votes"`
	Revenue     *float64 `json:"revenue"`
	Metascore   *float64 `json:"metascore"`
	Score       float64  `json:"score"`
	Poster      *string  `json:"poster"`
}

// NullableFloat maps NaN to a JSON null pointer.
func NullableFloat(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}
