package embedder

import (
	"context"
	"errors"
)

// ErrDimension signals that the provider returned a vector whose length does
// not match the configured index dimension. Callers must treat this as a
// data-integrity failure, never truncate or pad.
var ErrDimension = errors.New("embedding dimension mismatch")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
