package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrEmptyQuery        = errors.New("empty query text")
	ErrEncodingFailed    = errors.New("encoding failed")
	ErrEmptyCatalog      = errors.New("catalog is empty")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
