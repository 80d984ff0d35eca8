package storer

import (
	"context"
	"errors"
)

// ErrNotFound is returned by callers of Fetch when an id they require is absent.
var ErrNotFound = errors.New("record not found")

type Storer interface {
	// Upsert writes records keyed by id, overwriting on collision, and
	// returns the number of records actually written. Records with a
	// missing or wrong-length vector are skipped, not fatal to the batch.
	Upsert(ctx context.Context, records []Record) (int, error)
	// Query returns at most topK matches ranked by similarity, highest first.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	// Fetch returns the stored records for the given ids. Unknown ids are
	// simply absent from the result map.
	Fetch(ctx context.Context, ids []string) (map[string]Record, error)
}
