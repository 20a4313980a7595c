package port

import "context"

// PosterResult is the outcome of an image lookup: a URL when a match was
// found, or Found=false when the provider had no image for the title.
type PosterResult struct {
	URL   string
	Found bool
}

// PosterProvider abstracts the external image lookup keyed by movie title.
// A lookup that finds nothing is not an error; errors are reserved for
// transport failures. Callers degrade both cases to a null poster field.
type PosterProvider interface {
	Lookup(ctx context.Context, title string) (PosterResult, error)
}
