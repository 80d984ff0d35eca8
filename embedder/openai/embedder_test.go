package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/semsearch/embedder"
)

func newFakeProvider(t *testing.T, vector []float32) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
			"model": "text-embedding-3-small",
		})
	}))
	t.Cleanup(ts.Close)

	return ts
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithModel("text-embedding-3-small"),
	)

	_, err := e.Embed(context.Background(), "   ")
	assert.Error(t, err)
}

func TestEmbedReturnsVector(t *testing.T) {
	ts := newFakeProvider(t, []float32{0.1, 0.2, 0.3})

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithModel("text-embedding-3-small"),
		embedder.WithDimension(3),
		embedder.WithLocation(ts.URL+"/v1"),
	)

	vector, err := e.Embed(context.Background(), "refund policy")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	ts := newFakeProvider(t, []float32{0.1, 0.2, 0.3, 0.4})

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithModel("text-embedding-3-small"),
		embedder.WithDimension(3),
		embedder.WithLocation(ts.URL+"/v1"),
	)

	_, err := e.Embed(context.Background(), "refund policy")
	assert.ErrorIs(t, err, embedder.ErrDimension)
}
