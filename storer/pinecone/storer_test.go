package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/semsearch/storer"
)

// fakePinecone serves both the control plane and the data plane.
type fakePinecone struct {
	mtx     sync.Mutex
	url     string
	created bool
	exists  bool
	vectors map[string]vectorModel
}

func (f *fakePinecone) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mtx.Lock()
		defer f.mtx.Unlock()

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/indexes/"):
			if !f.exists {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]string{"error": "index not found"})
				return
			}
			json.NewEncoder(w).Encode(indexModel{
				Name:      "test-index",
				Host:      f.url,
				Dimension: 3,
				Metric:    "cosine",
			})
		case r.Method == http.MethodPost && r.URL.Path == "/indexes":
			var req createIndexRequest
			json.NewDecoder(r.Body).Decode(&req)
			f.created = true
			f.exists = true
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(indexModel{Name: req.Name, Host: f.url})
		case r.Method == http.MethodPost && r.URL.Path == "/vectors/upsert":
			var req upsertRequest
			json.NewDecoder(r.Body).Decode(&req)
			for _, v := range req.Vectors {
				f.vectors[v.Id] = v
			}
			json.NewEncoder(w).Encode(upsertResponse{UpsertedCount: len(req.Vectors)})
		case r.Method == http.MethodPost && r.URL.Path == "/query":
			var req queryRequest
			json.NewDecoder(r.Body).Decode(&req)
			matches := []matchResult{}
			for id, v := range f.vectors {
				score := storer.CosineSimilarity(req.Vector, v.Values)
				matches = append(matches, matchResult{Id: id, Score: score, Metadata: v.Metadata})
			}
			for i := range matches {
				for j := i + 1; j < len(matches); j++ {
					if matches[j].Score > matches[i].Score {
						matches[i], matches[j] = matches[j], matches[i]
					}
				}
			}
			if len(matches) > req.TopK {
				matches = matches[:req.TopK]
			}
			json.NewEncoder(w).Encode(queryResponse{Matches: matches})
		case r.Method == http.MethodGet && r.URL.Path == "/vectors/fetch":
			rsp := fetchResponse{Vectors: map[string]vectorModel{}}
			for _, id := range r.URL.Query()["ids"] {
				if v, exists := f.vectors[id]; exists {
					rsp.Vectors[id] = v
				}
			}
			json.NewEncoder(w).Encode(rsp)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newFake(t *testing.T, exists bool) (*fakePinecone, storer.Storer) {
	t.Helper()

	fake := &fakePinecone{
		exists:  exists,
		vectors: map[string]vectorModel{},
	}

	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	fake.url = ts.URL

	s := NewStorer(
		storer.WithApiKey("test-key"),
		storer.WithIndex("test-index"),
		storer.WithVectorSize(3),
		storer.WithLocation(ts.URL),
	)

	return fake, s
}

func TestConfigureCreatesMissingIndex(t *testing.T) {
	fake, _ := newFake(t, false)

	assert.True(t, fake.created)
}

func TestConfigureIsIdempotentOnExistingIndex(t *testing.T) {
	fake, _ := newFake(t, true)

	assert.False(t, fake.created)
}

func TestUpsertSkipsMalformedVectors(t *testing.T) {
	_, s := newFake(t, true)
	ctx := context.Background()

	count, err := s.Upsert(ctx, []storer.Record{
		{Id: "good", Values: []float32{1, 0, 0}, Metadata: map[string]string{"issue_type": "billing"}},
		{Id: "missing"},
		{Id: "short", Values: []float32{1, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertWithNoValidVectorsSkipsTheCall(t *testing.T) {
	_, s := newFake(t, true)
	ctx := context.Background()

	count, err := s.Upsert(ctx, []storer.Record{{Id: "missing"}})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQueryReturnsRankedMatchesWithMetadata(t *testing.T) {
	_, s := newFake(t, true)
	ctx := context.Background()

	_, err := s.Upsert(ctx, []storer.Record{
		{Id: "exact", Values: []float32{1, 0, 0}, Metadata: map[string]string{"issue_type": "billing"}},
		{Id: "far", Values: []float32{0, 0, 1}},
	})
	require.NoError(t, err)

	matches, err := s.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "exact", matches[0].Id)
	assert.Equal(t, "billing", matches[0].Metadata["issue_type"])

	matches, err = s.Query(ctx, []float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 0)
}

func TestFetchReturnsOnlyKnownIds(t *testing.T) {
	_, s := newFake(t, true)
	ctx := context.Background()

	_, err := s.Upsert(ctx, []storer.Record{
		{Id: "a", Values: []float32{1, 0, 0}, Metadata: map[string]string{"aiReply": "hello"}},
	})
	require.NoError(t, err)

	records, err := s.Fetch(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records["a"].Metadata["aiReply"])
	assert.Equal(t, []float32{1, 0, 0}, records["a"].Values)
}
