package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/semsearch/storer"
)

func TestUpsertLastWriteWins(t *testing.T) {
	s := NewStorer(storer.WithVectorSize(3))
	ctx := context.Background()

	count, err := s.Upsert(ctx, []storer.Record{
		{Id: "a", Values: []float32{1, 0, 0}, Metadata: map[string]string{"issue_type": "billing"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.Upsert(ctx, []storer.Record{
		{Id: "a", Values: []float32{1, 0, 0}, Metadata: map[string]string{"issue_type": "shipping"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := s.Fetch(ctx, []string{"a"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "shipping", records["a"].Metadata["issue_type"])
}

func TestUpsertSkipsMalformedVectors(t *testing.T) {
	s := NewStorer(storer.WithVectorSize(3))
	ctx := context.Background()

	count, err := s.Upsert(ctx, []storer.Record{
		{Id: "good", Values: []float32{1, 0, 0}},
		{Id: "missing"},
		{Id: "short", Values: []float32{1, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := s.Fetch(ctx, []string{"good", "missing", "short"})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestQueryOrderingAndLimit(t *testing.T) {
	s := NewStorer(storer.WithVectorSize(3))
	ctx := context.Background()

	_, err := s.Upsert(ctx, []storer.Record{
		{Id: "exact", Values: []float32{1, 0, 0}},
		{Id: "close", Values: []float32{1, 1, 0}},
		{Id: "far", Values: []float32{0, 0, 1}},
	})
	require.NoError(t, err)

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].Id)
	assert.Equal(t, "close", matches[1].Id)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)

	matches, err = s.Query(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 0)
}

func TestFetchUnknownIdsAreAbsent(t *testing.T) {
	s := NewStorer(storer.WithVectorSize(3))
	ctx := context.Background()

	_, err := s.Upsert(ctx, []storer.Record{
		{Id: "a", Values: []float32{1, 0, 0}},
	})
	require.NoError(t, err)

	records, err := s.Fetch(ctx, []string{"a", "b"})
	require.NoError(t, err)

	_, exists := records["a"]
	assert.True(t, exists)
	_, exists = records["b"]
	assert.False(t, exists)
}
